// 3gmtool is a CLI utility for inspecting and converting Clusterball 3GM
// model files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/clusterball-3gm/internal/config"
	"github.com/Faultbox/clusterball-3gm/internal/logger"
	"github.com/Faultbox/clusterball-3gm/pkg/export"
	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Subcommand args are parsed by the shared flag set.
	os.Args = append(os.Args[:1], args...)
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "info":
		cmdInfo(cfg)
	case "chunks":
		cmdChunks()
	case "convert":
		cmdConvert(cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`3gmtool - Clusterball 3GM model utility

Usage:
  3gmtool <command> [options]

Commands:
  info <file.3GM>              Show header and shape summary
  chunks <file.3GM>            List the chunk stream
  convert <file.3GM> [output]  Convert to OBJ/MTL (or glTF with -gltf)

Options:
  -debug            Enable debug logging
  -gltf             Export glTF instead of OBJ
  -nomtl            Skip MTL generation
  -simplify RATIO   Simplify triangles to the given ratio (0,1)

Examples:
  3gmtool info ball_missile.3GM
  3gmtool chunks ammo_box.3GM
  3gmtool convert ammo_box.3GM ammo_box.obj
  3gmtool convert -gltf ammo_box.3GM ammo_box.gltf`)
}

// argN returns the nth positional argument left after flag parsing.
func argN(n int) string {
	if n >= flag.NArg() {
		return ""
	}
	return flag.Arg(n)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

func decodeFile(path string, cfg *config.Config) (*gm3.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model file")
	}
	dec := gm3.NewDecoder(
		gm3.WithLogger(logger.Log),
		gm3.WithLimits(gm3.Limits{
			MaxSurfaces: cfg.Decoder.MaxSurfaces,
			MaxTextures: cfg.Decoder.MaxTextures,
		}),
	)
	return dec.Decode(data)
}

func cmdInfo(cfg *config.Config) {
	path := argN(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: 3gmtool info <file.3GM>")
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fatal(errors.Wrap(err, "reading model file"))
	}
	header, err := gm3.DetectHeader(data)
	if err != nil {
		fatal(err)
	}

	shape, err := decodeFile(path, cfg)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("File:      %s (%d bytes)\n", path, len(data))
	fmt.Printf("Header:    %s", header.Type)
	if header.Type != gm3.NoHeader {
		fmt.Printf(" (version 0x%08X)", header.Version)
	}
	fmt.Println()
	fmt.Printf("Vertices:  %d\n", shape.VertexCount)
	fmt.Printf("Triangles: %d\n", len(shape.PrimitiveBuffer)/3)
	fmt.Printf("Surfaces:  %d\n", len(shape.Surfaces))
	if shape.HasAnimation() {
		fmt.Printf("Animation: %d frames\n", shape.AnimationFrameCount())
	}
	if len(shape.TextureNames) > 0 {
		fmt.Printf("Textures:  %s\n", strings.Join(shape.TextureNames, ", "))
	}
	if shape.Bounds != nil {
		fmt.Printf("Bounds:    min %v max %v\n", shape.Bounds.Min, shape.Bounds.Max)
	}
}

func cmdChunks() {
	path := argN(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: 3gmtool chunks <file.3GM>")
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fatal(errors.Wrap(err, "reading model file"))
	}
	header, err := gm3.DetectHeader(data)
	if err != nil {
		fatal(err)
	}
	headers, err := gm3.ScanChunks(data, header.ChunkOffset)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%-8s %-10s %s\n", "Chunk", "Size", "Offset")
	for _, h := range headers {
		fmt.Printf("%-8s %-10d %d\n", h.Kind, h.Size, h.Offset)
	}
}

func cmdConvert(cfg *config.Config) {
	path := argN(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: 3gmtool convert <file.3GM> [output]")
		os.Exit(1)
	}
	output := argN(1)
	if output == "" {
		output = strings.TrimSuffix(path, ".3GM")
		output = strings.TrimSuffix(output, ".3gm")
	}

	shape, err := decodeFile(path, cfg)
	if err != nil {
		fatal(err)
	}

	if cfg.Export.GLTF {
		if !strings.HasSuffix(output, ".gltf") && !strings.HasSuffix(output, ".glb") {
			output += ".gltf"
		}
		if err := export.WriteGLTF(shape, output); err != nil {
			fatal(err)
		}
		fmt.Printf("Exported: %s\n", output)
		return
	}

	opts := export.Options{
		GenerateMTL:   cfg.Export.GenerateMTL,
		SimplifyRatio: cfg.Export.SimplifyRatio,
	}
	if err := export.WriteOBJ(shape, output, opts); err != nil {
		fatal(err)
	}
	fmt.Printf("Exported: %s.obj\n", strings.TrimSuffix(output, ".obj"))
}
