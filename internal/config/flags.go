package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("logfile", "", "Write logs to file")
	flagGLTF     = flag.Bool("gltf", false, "Export glTF instead of OBJ")
	flagNoMTL    = flag.Bool("nomtl", false, "Skip MTL generation")
	flagSimplify = flag.Float64("simplify", 0, "Simplify triangles to the given ratio (0,1)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagGLTF {
		cfg.Export.GLTF = true
	}
	if *flagNoMTL {
		cfg.Export.GenerateMTL = false
	}
	if *flagSimplify > 0 {
		cfg.Export.SimplifyRatio = *flagSimplify
	}
}
