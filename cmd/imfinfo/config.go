package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/scott-wilson/go-imf/imf"
)

// Config is the optional TOML configuration file for imfinfo.
//
//	[limits]
//	max_image_width  = 65536
//	max_image_height = 65536
//	max_tile_width   = 4096
//	max_tile_height  = 4096
//
// A value of 0 (or an omitted key) leaves that dimension unlimited.
type Config struct {
	Limits LimitsConfig `toml:"limits"`
}

// LimitsConfig mirrors imf.Limits in TOML form.
type LimitsConfig struct {
	MaxImageWidth  int32 `toml:"max_image_width"`
	MaxImageHeight int32 `toml:"max_image_height"`
	MaxTileWidth   int32 `toml:"max_tile_width"`
	MaxTileHeight  int32 `toml:"max_tile_height"`
}

// ToLimits converts the TOML form to imf.Limits.
func (c LimitsConfig) ToLimits() imf.Limits {
	return imf.Limits{
		MaxImageWidth:  c.MaxImageWidth,
		MaxImageHeight: c.MaxImageHeight,
		MaxTileWidth:   c.MaxTileWidth,
		MaxTileHeight:  c.MaxTileHeight,
	}
}

// LoadConfig reads and parses a TOML configuration file. Unknown keys
// are rejected so typos surface instead of silently leaving a limit
// unset.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	return &cfg, nil
}
