// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package xdg provides XDG Base Directory paths for Authy.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "authy"

// configFileName is looked up in ConfigDir when no --config is given.
const configFileName = "config.yaml"

// ConfigDir returns the XDG config directory for authy.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile resolves the config file to load. An explicit path always wins.
// Otherwise ConfigDir()/config.yaml is used if it exists, and "" means
// defaults, environment, and flags only.
func ConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := filepath.Join(ConfigDir(), configFileName)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}
