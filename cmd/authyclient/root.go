// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/authy/authy/internal/client"
)

// addrEnv names the environment variable consulted when --addr is not given.
const addrEnv = "AUTHY_ADDR"

type globalOptions struct {
	addr    string
	apiKey  string
	timeout time.Duration
}

func (o *globalOptions) client() *client.Client {
	addr := o.addr
	if addr == "" {
		addr = os.Getenv(addrEnv)
	}
	return client.New(addr, client.WithAPIKey(o.apiKey), client.WithTimeout(o.timeout))
}

// NewRootCmd creates the root command for the client CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "authyclient",
		Short: "Command-line client for the Authy account API",
		Long: `authyclient talks to an Authy server. Every command except get-api-key
needs an API key: run get-api-key, read the key from the server log, and
pass it with --api-key.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "server address (default $"+addrEnv+" or "+client.DefaultAddr+")")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "API key for guarded commands")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(newGetCmd(opts))
	cmd.AddCommand(newNewCmd(opts))
	cmd.AddCommand(newUpdateCmd(opts))
	cmd.AddCommand(newGetAPIKeyCmd(opts))
	cmd.AddCommand(newRevokeAPIKeyCmd(opts))

	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a user by email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := opts.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag defined above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag defined above
	return cmd
}

func newNewCmd(opts *globalOptions) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := opts.client().Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	for _, f := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(f) //nolint:errcheck // flags defined above
	}
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change a user's name and/or password",
		Long: `Change the name and/or password of the user with --email.
Only the flags you pass are sent; the server keeps the other fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var namePtr, passwordPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("password") {
				passwordPtr = &password
			}
			if namePtr == nil && passwordPtr == nil {
				return oops.Code("CLIENT_NOTHING_TO_UPDATE").Errorf("pass --name and/or --password")
			}
			user, err := opts.client().Update(cmd.Context(), email, namePtr, passwordPtr)
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to update")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag defined above
	return cmd
}

func newGetAPIKeyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-api-key",
		Short: "Ask the server to issue an API key (written to the server log)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := opts.client().IssueKey(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, msg)
		},
	}
}

func newRevokeAPIKeyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-api-key",
		Short: "Revoke the key given with --api-key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := opts.client().RevokeKey(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, msg)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return oops.Code("CLIENT_OUTPUT_FAILED").Wrap(err)
	}
	cmd.Println(string(out))
	return nil
}
