/*
 * config.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config holds the settings of a res2desc run, read from an optional
// YAML file on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/res2desc/res2desc"
	"gopkg.in/yaml.v3"
)

// Output layouts besides the cryan styles.
const (
	LayoutAuto  = "auto"  //the style cryan used, or the cryan style setting if cryan is not run
	LayoutTable = "table" //count and dimension line, vectors, then metadata lines
)

// Config holds the application configuration.
type Config struct {
	Descriptor DescriptorConfig `yaml:"descriptor"`
	Cryan      CryanConfig      `yaml:"cryan"`
	Run        RunConfig        `yaml:"run"`
}

// DescriptorConfig holds the fingerprint settings. An empty species list
// means the species found in the input, in order of appearance.
type DescriptorConfig struct {
	Cutoff    float64  `yaml:"cutoff"`
	LMax      int      `yaml:"l_max"`
	NMax      int      `yaml:"n_max"`
	Sigma     float64  `yaml:"sigma"`
	Species   []string `yaml:"species,omitempty"`
	Average   bool     `yaml:"average"`
	Periodic  bool     `yaml:"periodic"`
	Crossover bool     `yaml:"crossover"`
}

// CryanConfig holds how cryan is called.
type CryanConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Style   string   `yaml:"style"` // "two-line" | "three-line", tried first
	Dir     string   `yaml:"dir,omitempty"`
}

// RunConfig holds the rest.
type RunConfig struct {
	Workers int           `yaml:"workers,omitempty"` // 0 means one per CPU
	Output  string        `yaml:"output"`            // "-" is the standard output; .zst and .gz are compressed
	Layout  string        `yaml:"layout"`            // "auto" | "two-line" | "three-line" | "table"
	Plot    string        `yaml:"plot,omitempty"`    // image file for the fingerprints, none if empty
	Timeout time.Duration `yaml:"timeout,omitempty"` // 0 means no limit
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Descriptor: DescriptorConfig{
			Cutoff:    5,
			LMax:      15,
			NMax:      15,
			Sigma:     0.01,
			Average:   true,
			Periodic:  true,
			Crossover: true,
		},
		Cryan: CryanConfig{
			Enabled: true,
			Command: "ca",
			Args:    []string{"-r"},
			Style:   res2desc.TwoLine.String(),
		},
		Run: RunConfig{
			Output: "-",
			Layout: LayoutAuto,
		},
	}
}

// NotFoundError is returned when the requested config file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Is makes a NotFoundError match res2desc.ErrConfig.
func (e *NotFoundError) Is(target error) bool {
	return target == res2desc.ErrConfig
}

// IsNotFound checks if err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// LoadFromFile reads the YAML file at path. Settings missing from the file keep
// their default values. The result is validated.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, res2desc.WrapError(res2desc.ErrConfig, err, "reading config file", "config.LoadFromFile")
	}
	return Parse(data)
}

// Parse is LoadFromFile for data already in memory.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, res2desc.WrapError(res2desc.ErrConfig, err, "parsing config file", "config.Parse")
	}
	if err := cfg.Validate(); err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrConfig, "config.Parse")
	}
	return cfg, nil
}

// Validate checks the configuration. The species list is only checked if given.
func (c *Config) Validate() error {
	d := c.Descriptor.ToDescriptor(c.Descriptor.Species)
	if len(d.Species) == 0 {
		d.Species = []string{"X"}
	}
	if err := d.Validate(); err != nil {
		return res2desc.Decorate(err, res2desc.ErrConfig, "Config.Validate")
	}
	if _, err := c.Cryan.ParsedStyle(); err != nil {
		return res2desc.Decorate(err, res2desc.ErrConfig, "Config.Validate")
	}
	if c.Cryan.Enabled && c.Cryan.Command == "" {
		return res2desc.NewError(res2desc.ErrConfig, "cryan is enabled but no command is set", "Config.Validate")
	}
	switch c.Run.Layout {
	case LayoutAuto, LayoutTable:
	default:
		if _, err := res2desc.ParseStyle(c.Run.Layout); err != nil {
			return res2desc.Errorf(res2desc.ErrConfig, "Config.Validate", "unknown output layout %q", c.Run.Layout)
		}
	}
	if c.Run.Workers < 0 {
		return res2desc.Errorf(res2desc.ErrConfig, "Config.Validate", "negative worker count %d", c.Run.Workers)
	}
	if c.Run.Timeout < 0 {
		return res2desc.Errorf(res2desc.ErrConfig, "Config.Validate", "negative timeout %s", c.Run.Timeout)
	}
	if c.Run.Output == "" {
		return res2desc.NewError(res2desc.ErrConfig, "no output set", "Config.Validate")
	}
	return nil
}

// ParsedStyle returns the cryan style setting as a res2desc.Style.
func (c CryanConfig) ParsedStyle() (res2desc.Style, error) {
	return res2desc.ParseStyle(c.Style)
}

// ToDescriptor returns the settings as a res2desc.DescriptorConfig with the given species.
func (d DescriptorConfig) ToDescriptor(species []string) res2desc.DescriptorConfig {
	return res2desc.DescriptorConfig{
		Cutoff:    d.Cutoff,
		LMax:      d.LMax,
		NMax:      d.NMax,
		Sigma:     d.Sigma,
		Species:   append([]string(nil), species...),
		Average:   d.Average,
		Periodic:  d.Periodic,
		Crossover: d.Crossover,
	}
}

// OutputStyle returns the cryan style of the output, given the style cryan used
// (or the configured one, if cryan was not run). It returns false for the table layout.
func (r RunConfig) OutputStyle(detected res2desc.Style) (res2desc.Style, bool) {
	switch r.Layout {
	case LayoutTable:
		return detected, false
	case LayoutAuto, "":
		return detected, true
	}
	s, err := res2desc.ParseStyle(r.Layout)
	if err != nil {
		return detected, true
	}
	return s, true
}
