// Package config handles tool configuration loading and management.
package config

// Config holds all 3gmtool settings.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecoderConfig bounds the decode session.
type DecoderConfig struct {
	MaxSurfaces int `yaml:"max_surfaces"`
	MaxTextures int `yaml:"max_textures"`
	CacheSize   int `yaml:"cache_size"` // decoded-shape LRU entries
}

// ExportConfig holds output settings.
type ExportConfig struct {
	GenerateMTL   bool    `yaml:"generate_mtl"`
	GLTF          bool    `yaml:"gltf"`
	SimplifyRatio float64 `yaml:"simplify_ratio"` // 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decoder: DecoderConfig{
			MaxSurfaces: 2000,
			MaxTextures: 1000,
			CacheSize:   32,
		},
		Export: ExportConfig{
			GenerateMTL:   true,
			GLTF:          false,
			SimplifyRatio: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
