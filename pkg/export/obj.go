// Package export serializes decoded 3GM shapes into interchange formats.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

// Options controls OBJ/MTL output.
type Options struct {
	GenerateMTL bool
	// SimplifyRatio reduces the triangle count to the given fraction when
	// in (0, 1); 0 disables simplification.
	SimplifyRatio float64
}

// WriteOBJ exports the shape as basePath.obj, plus basePath.mtl when
// material generation is on. Triangle-bearing primitives become faces;
// line strips and point sprites become OBJ l and p elements.
func WriteOBJ(shape *gm3.Shape, basePath string, opts Options) error {
	basePath = strings.TrimSuffix(basePath, filepath.Ext(basePath))

	positions := shape.Positions()
	tris := triangleIndices(shape)
	if opts.SimplifyRatio > 0 && opts.SimplifyRatio < 1 && len(tris) >= 3 {
		positions, tris = simplifyTriangles(positions, tris, opts.SimplifyRatio)
	}

	objPath := basePath + ".obj"
	f, err := os.Create(objPath)
	if err != nil {
		return errors.Wrap(err, "creating OBJ file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# exported from 3GM\n")
	fmt.Fprintf(w, "# vertices: %d\n", len(positions))
	fmt.Fprintf(w, "# triangles: %d\n\n", len(tris)/3)

	materialName := materialBaseName(basePath)
	if opts.GenerateMTL {
		fmt.Fprintf(w, "mtllib %s.mtl\n\n", filepath.Base(basePath))
	}

	for _, p := range positions {
		fmt.Fprintf(w, "v %g %g %g\n", p[0], p[1], p[2])
	}
	w.WriteByte('\n')

	if opts.GenerateMTL {
		fmt.Fprintf(w, "usemtl %s\n", materialName)
	}
	for i := 0; i+2 < len(tris); i += 3 {
		// OBJ indices are 1-based.
		fmt.Fprintf(w, "f %d %d %d\n", tris[i]+1, tris[i+1]+1, tris[i+2]+1)
	}

	for _, prim := range shape.Primitives {
		switch prim.Kind {
		case gm3.LineStrip:
			if len(prim.Indices) > 1 {
				w.WriteString("l")
				for _, idx := range prim.Indices {
					fmt.Fprintf(w, " %d", idx+1)
				}
				w.WriteByte('\n')
			}
		case gm3.PointSprite:
			if len(prim.Indices) > 0 {
				w.WriteString("p")
				for _, idx := range prim.Indices {
					fmt.Fprintf(w, " %d", idx+1)
				}
				w.WriteByte('\n')
			}
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "writing OBJ file")
	}

	if opts.GenerateMTL {
		if err := writeMTL(shape, basePath+".mtl", materialName); err != nil {
			return err
		}
	}
	return nil
}

// writeMTL emits one default material plus one per named texture.
func writeMTL(shape *gm3.Shape, path, materialName string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating MTL file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "newmtl %s\n", materialName)
	fmt.Fprintf(w, "Kd 0.8 0.8 0.8\n")
	fmt.Fprintf(w, "Ka 0.2 0.2 0.2\n\n")

	for _, name := range shape.TextureNames {
		fmt.Fprintf(w, "newmtl %s\n", sanitizeMaterialName(name))
		fmt.Fprintf(w, "Kd 0.8 0.8 0.8\n")
		fmt.Fprintf(w, "map_Kd %s\n\n", name)
	}
	return errors.Wrap(w.Flush(), "writing MTL file")
}

// triangleIndices collects the triangle-list indices of every
// triangle-bearing primitive.
func triangleIndices(shape *gm3.Shape) []uint32 {
	out := make([]uint32, 0, len(shape.PrimitiveBuffer))
	for _, idx := range shape.PrimitiveBuffer {
		out = append(out, uint32(idx))
	}
	return out
}

func materialBaseName(basePath string) string {
	return sanitizeMaterialName(filepath.Base(basePath))
}

func sanitizeMaterialName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', ' ':
			return '_'
		}
		return r
	}, name)
}
