// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/authy/authy/internal/config"
	"github.com/authy/authy/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Authy server CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authy",
		Short: "Authy - account management API",
		Long: `Authy serves a small account API: users register, log in and update
their details, and every call except key issuance requires an API key.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig layers the config file (--config, else the XDG default if
// present), AUTHY_* environment variables and cmd's flags over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(xdg.ConfigFile(configFile), cmd.Flags())
}
