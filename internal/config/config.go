// Package config handles loading target-descriptor configuration for gulc
// compilations (spec.md §6).
//
// Configuration can be specified in a TOML file named gulc.toml or .gulcrc.
// The config file is searched for in the current directory and parent
// directories via Load/LoadFile, decoded with github.com/BurntSushi/toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"codeberg.org/saruga/gulc/internal/codegen"
)

// Config represents the configuration file structure.
// All fields are optional and will use defaults for unset fields when
// resolved via ToTarget.
type Config struct {
	// PointerSize is the byte width of a pointer/reference on the target,
	// driving internal/codegen's layout.go sizing (default 8).
	PointerSize *int `toml:"pointerSize,omitempty"`

	// AlignOfStruct overrides the minimum alignment codegen's layout
	// computer assigns to struct types with no members requiring a
	// stricter one (default: PointerSize). Not yet consumed by
	// internal/codegen, which always derives struct alignment from member
	// layout (see DESIGN.md, internal/config entry).
	AlignOfStruct *int `toml:"alignofStruct,omitempty"`

	// ImplicitConversions lists additional from -> to type-name pairs the
	// target treats as implicitly convertible on top of
	// internal/resolve.ImplicitConversion's built-in numeric table.
	ImplicitConversions map[string]string `toml:"implicitConvTable,omitempty"`

	// Warnings lists diagnostic codes to suppress. Not yet consumed by
	// internal/diagnostic (see DESIGN.md, internal/config entry).
	Warnings []string `toml:"warnings,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of
// preference.
var ConfigFileNames = []string{
	"gulc.toml",
	".gulcrc",
}

// Load searches for a config file starting from the given directory and
// walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found.
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPointerSize is used when no config file sets PointerSize (no CLI
// flag sets it).
const DefaultPointerSize = 8

// ToTarget converts a Config to a codegen.TargetDescriptor, using defaults
// for unset fields.
func (c *Config) ToTarget() codegen.TargetDescriptor {
	size := DefaultPointerSize
	if c != nil && c.PointerSize != nil {
		size = *c.PointerSize
	}
	return codegen.TargetDescriptor{PointerSize: size}
}

// Override consults ImplicitConversions for an explicit from -> to entry
// keyed by type display name, letting a gulc.toml extend or override the
// built-in numeric-conversion table for one target (spec.md §9, Open
// Question 1). matched is false when the pair isn't listed, in which case
// the caller should fall back to internal/resolve's built-in table.
func (c *Config) Override(from, to string) (allowed, matched bool) {
	if c == nil || len(c.ImplicitConversions) == 0 {
		return false, false
	}
	want, ok := c.ImplicitConversions[from]
	if !ok {
		return false, false
	}
	return want == to, true
}
