// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/authy/authy/internal/config"
)

// NewConfigCmd creates the config subcommand, which prints the effective
// configuration with secrets masked.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration serve would run with, after defaults, the
config file, AUTHY_* environment variables and flags are applied.
Database and redis passwords are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
			}
			cmd.Print(string(out))
			return nil
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}
