// Package config is the optional sysyc.toml project file (SPEC_FULL.md
// §6, C13): defaults for flags cmd/sysyc otherwise wants spelled out on
// every invocation. CLI flags always win over a loaded File. Grounded
// on ComedicChimera-chai/src/mods/load.go's struct-tag TOML decode
// pattern, using the same github.com/pelletier/go-toml that repo
// contributes to this corpus's domain stack.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// FileName is the project file cmd/sysyc auto-discovers next to the
// source path when no --config flag is given.
const FileName = "sysyc.toml"

// File is sysyc.toml's shape. Every field is a default, overridden by
// any flag the user passes explicitly; spec.md §7 offers no
// warnings-as-errors knob, so none is decoded here.
type File struct {
	Output struct {
		Suffix string `toml:"suffix"`
	} `toml:"output"`
	Optimize struct {
		Level int `toml:"level"`
	} `toml:"optimize"`
	Target struct {
		Triple string `toml:"triple"`
	} `toml:"target"`
}

// Load decodes the TOML project file at path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &File{}
	if err := toml.Unmarshal(b, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Discover looks for FileName in dir and loads it if present. A missing
// file is not an error: the project file is optional, and every default
// it would have supplied is already built into cmd/sysyc's flag
// defaults.
func Discover(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return Load(path)
}
