// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the optional fwconv.toml file with default conversion
// parameters and MCU memory presets.
//
// Example:
//
//	base = 0x0
//	fill = 0xff
//	line_length = 16
//
//	[mcu]
//	PIC32MX795 = 0x80000
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// FileName is the name of the configuration file.
const FileName = "fwconv.toml"

// EnvName is the environment variable that may point to the configuration
// file.
const EnvName = "FWCONV_CONFIG"

// Config contains the default values of the command line options.
type Config struct {
	Base       uint32
	Fill       byte
	LineLength int
	MCU        map[string]uint32 // memory size, keys in upper case
	Path       string            // file the config was read from, if any
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fill:       0xff,
		LineLength: 16,
		MCU: map[string]uint32{
			"PIC24FJ256": 256 * 1024,
			"PIC24FJ128": 128 * 1024,
		},
	}
}

// MemorySize returns the memory size of the named MCU.
func (c *Config) MemorySize(mcu string) (uint32, bool) {
	size, ok := c.MCU[strings.ToUpper(mcu)]
	return size, ok
}

// Find returns the path to the configuration file. It uses the EnvName
// environment variable if set, otherwise it looks for FileName in the
// current directory and its parents, stopping at the directory that contains
// go.mod. Find returns an empty string if there is no configuration file.
func Find() (string, error) {
	if p := os.Getenv(EnvName); p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(wd, FileName)
		fi, err := os.Stat(path)
		if err == nil {
			if !fi.Mode().IsRegular() {
				return "", fmt.Errorf("%s is not a regular file", path)
			}
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		_, err = os.Stat(filepath.Join(wd, "go.mod"))
		if err == nil {
			return "", nil // found go.mod but no config file, stop here
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", nil
		}
		wd = parent
	}
}

// Load returns the configuration read from the file found by Find or the
// default configuration if there is no such file.
func Load() (*Config, error) {
	path, err := Find()
	if err != nil || path == "" {
		return Default(), err
	}
	return ReadFile(path)
}

// ReadFile reads the configuration file. Settings missing in the file keep
// their default values.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Parse decodes the TOML configuration.
func Parse(data []byte) (*Config, error) {
	var doc interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errors.New("bad configuration document")
	}
	c := Default()
	for k, v := range m {
		var err error
		switch k {
		case "base":
			var n int64
			n, err = intValue(k, v, 0, 1<<32-1)
			c.Base = uint32(n)
		case "fill":
			var n int64
			n, err = intValue(k, v, 0, 0xff)
			c.Fill = byte(n)
		case "line_length":
			var n int64
			n, err = intValue(k, v, 1, 255)
			c.LineLength = int(n)
		case "mcu":
			err = c.parseMCU(v)
		default:
			err = fmt.Errorf("unknown setting '%s'", k)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) parseMCU(v interface{}) error {
	t, ok := v.(map[string]interface{})
	if !ok {
		return errors.New("mcu must be a table")
	}
	for name, size := range t {
		n, err := intValue("mcu."+name, size, 1, 1<<32-1)
		if err != nil {
			return err
		}
		c.MCU[strings.ToUpper(name)] = uint32(n)
	}
	return nil
}

func intValue(key string, v interface{}, lo, hi int64) (int64, error) {
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%s: integer expected, got %T", key, v)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s: %#x out of range [%#x, %#x]", key, n, lo, hi)
	}
	return n, nil
}
