// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "autoauth",
		Short:         "Resolve Google application credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(cmd)
	cmd.AddCommand(
		newTokenCommand(g),
		newProjectCommand(g),
		newCredentialsCommand(g),
		newSignCommand(g),
		newEnvCommand(g),
	)
	return cmd
}

func newTokenCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newAuth(cmd)
			if err != nil {
				return err
			}
			tok, err := a.Token(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}

func newProjectCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Print the project ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newAuth(cmd)
			if err != nil {
				return err
			}
			id, err := a.ProjectID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

// credentialsOutput omits the private key itself.
type credentialsOutput struct {
	Kind          string `yaml:"kind"`
	ClientEmail   string `yaml:"client_email"`
	HasPrivateKey bool   `yaml:"has_private_key"`
}

func newCredentialsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Print the service account identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newAuth(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := a.Client(ctx)
			if err != nil {
				return err
			}
			creds, err := a.Credentials(ctx)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), credentialsOutput{
				Kind:          string(c.Kind()),
				ClientEmail:   creds.ClientEmail,
				HasPrivateKey: creds.PrivateKey != "",
			})
		},
	}
}

func newSignCommand(g *globalFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "sign [data]",
		Short: "Print the base64 RSA-SHA256 signature of data",
		Long:  "Signs data given as an argument, read from --file, or read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := signInput(cmd, file, args)
			if err != nil {
				return err
			}
			a, err := g.newAuth(cmd)
			if err != nil {
				return err
			}
			sig, err := a.Sign(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sign the contents of this file")
	return cmd
}

func signInput(cmd *cobra.Command, file string, args []string) ([]byte, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, errors.New("give either data or --file, not both")
	case file != "":
		return os.ReadFile(file)
	case len(args) > 0:
		return []byte(args[0]), nil
	default:
		return io.ReadAll(cmd.InOrStdin())
	}
}

type environmentOutput struct {
	AppEngine       bool `yaml:"app_engine"`
	CloudFunction   bool `yaml:"cloud_function"`
	ComputeEngine   bool `yaml:"compute_engine"`
	ContainerEngine bool `yaml:"container_engine"`
}

func newEnvCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Report the detected hosting platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newAuth(cmd)
			if err != nil {
				return err
			}
			env := a.Environment().Detect(cmd.Context())
			return writeYAML(cmd.OutOrStdout(), environmentOutput(env))
		},
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
