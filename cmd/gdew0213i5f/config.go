// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"gopkg.in/yaml.v3"
)

// pinConfig names the GPIOs as known to gpioreg.
type pinConfig struct {
	DC   string `yaml:"dc" toml:"dc"`
	CS   string `yaml:"cs" toml:"cs"`
	RST  string `yaml:"rst" toml:"rst"`
	Busy string `yaml:"busy" toml:"busy"`
}

type config struct {
	// SPI is the port name for spireg. Empty selects the first port.
	SPI  string    `yaml:"spi" toml:"spi"`
	Pins pinConfig `yaml:"pins" toml:"pins"`

	// Origin is one of top-left, top-right, bottom-right, bottom-left.
	Origin     string `yaml:"origin" toml:"origin"`
	Background string `yaml:"background" toml:"background"`

	// Durations use time.ParseDuration syntax. An empty timeout waits
	// forever.
	BusyPollInterval string `yaml:"busy_poll_interval" toml:"busy_poll_interval"`
	BusyTimeout      string `yaml:"busy_timeout" toml:"busy_timeout"`

	// Font is a TrueType file. Empty uses a built-in 7x13 bitmap font.
	Font     string  `yaml:"font" toml:"font"`
	FontSize float64 `yaml:"font_size" toml:"font_size"`

	// Clock is a cron schedule with a minutes field.
	Clock       string `yaml:"clock" toml:"clock"`
	ClockFormat string `yaml:"clock_format" toml:"clock_format"`

	// FullRefreshEvery is the number of clock updates per full refresh. The
	// others are quick partial refreshes.
	FullRefreshEvery int `yaml:"full_refresh_every" toml:"full_refresh_every"`

	PreviewStep int `yaml:"preview_step" toml:"preview_step"`
}

// defaultConfig matches the Waveshare HAT wiring.
func defaultConfig() *config {
	return &config{
		Pins: pinConfig{
			DC:   "GPIO25",
			CS:   "GPIO8",
			RST:  "GPIO17",
			Busy: "GPIO24",
		},
		Origin:           "top-left",
		Background:       gdew0213i5f.DefaultBackground.String(),
		BusyPollInterval: gdew0213i5f.DefaultOpts.BusyPollInterval.String(),
		FontSize:         32,
		Clock:            "* * * * *",
		ClockFormat:      "15:04",
		FullRefreshEvery: 10,
		PreviewStep:      2,
	}
}

// loadConfig reads path on top of the defaults. The format follows the file
// extension.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, cfg.validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unknown config format %q", path, ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c *config) validate() error {
	if _, err := c.driverOpts(); err != nil {
		return err
	}

	if _, err := c.background(); err != nil {
		return err
	}

	if c.FontSize <= 0 {
		return fmt.Errorf("invalid font size %v", c.FontSize)
	}

	if c.FullRefreshEvery < 1 {
		return fmt.Errorf("invalid full_refresh_every %d", c.FullRefreshEvery)
	}

	if c.PreviewStep < 1 {
		return fmt.Errorf("invalid preview_step %d", c.PreviewStep)
	}

	return nil
}

func (c *config) background() (gdew0213i5f.Color, error) {
	var bg gdew0213i5f.Color
	err := bg.Set(c.Background)
	return bg, err
}

func (c *config) driverOpts() (gdew0213i5f.Opts, error) {
	opts := gdew0213i5f.DefaultOpts

	origin, err := parseCorner(c.Origin)
	if err != nil {
		return opts, err
	}
	opts.Origin = origin

	if c.BusyPollInterval != "" {
		if opts.BusyPollInterval, err = time.ParseDuration(c.BusyPollInterval); err != nil {
			return opts, fmt.Errorf("busy_poll_interval: %w", err)
		}
	}

	if c.BusyTimeout != "" {
		if opts.BusyTimeout, err = time.ParseDuration(c.BusyTimeout); err != nil {
			return opts, fmt.Errorf("busy_timeout: %w", err)
		}
	}

	return opts, nil
}

func parseCorner(s string) (gdew0213i5f.Corner, error) {
	switch s {
	case "top-left":
		return gdew0213i5f.TopLeft, nil
	case "top-right":
		return gdew0213i5f.TopRight, nil
	case "bottom-right":
		return gdew0213i5f.BottomRight, nil
	case "bottom-left":
		return gdew0213i5f.BottomLeft, nil
	}
	return 0, fmt.Errorf("unknown origin %q", s)
}
