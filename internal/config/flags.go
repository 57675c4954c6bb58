package config

import (
	"flag"
	"path/filepath"
)

// Flags holds the command-line overrides shared by bake and watch.
type Flags struct {
	Config     string
	Debug      bool
	Base       string
	In         string
	Out        string
	OutDir     string
	Buffer     string
	GLB        bool
	Normals    bool
	NoCamera   bool
	DumpConfig string
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Base, "base", "", "Base directory for the input document")
	fs.StringVar(&f.In, "in", "", "Input .gltf/.glb (relative to -base, or a path)")
	fs.StringVar(&f.Out, "out", "", "Output file name")
	fs.StringVar(&f.OutDir, "outdir", "", "Output directory (default: input base)")
	fs.StringVar(&f.Buffer, "buffer", "", "Output buffer name")
	fs.BoolVar(&f.GLB, "glb", false, "Write a binary GLB container")
	fs.BoolVar(&f.Normals, "normals", false, "Re-orient normals with the inverse-transpose transform")
	fs.BoolVar(&f.NoCamera, "no-camera", false, "Drop camera nodes")
	fs.StringVar(&f.DumpConfig, "dump-config", "", "Write the effective config to this path")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Base != "" {
		cfg.Input.BaseDir = f.Base
	}
	if f.In != "" {
		// A path with directories and no explicit base splits into base + name.
		if f.Base == "" && filepath.Dir(f.In) != "." {
			cfg.Input.BaseDir = filepath.Dir(f.In)
			cfg.Input.File = filepath.Base(f.In)
		} else {
			cfg.Input.File = f.In
		}
	}
	if f.Out != "" {
		cfg.Output.File = f.Out
	}
	if f.OutDir != "" {
		cfg.Output.Dir = f.OutDir
	}
	if f.Buffer != "" {
		cfg.Output.BufferName = f.Buffer
	}
	if f.GLB {
		cfg.Output.Binary = true
	}
	if f.Normals {
		cfg.Bake.TransformNormals = true
	}
	if f.NoCamera {
		cfg.Bake.KeepCamera = false
	}
}
