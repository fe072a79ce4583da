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
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/autoauth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of the credential flags.
type fileConfig struct {
	KeyFile        string   `yaml:"key_file"`
	Email          string   `yaml:"email"`
	Scopes         []string `yaml:"scopes"`
	ProjectID      string   `yaml:"project_id"`
	Token          string   `yaml:"token"`
	APIKey         string   `yaml:"api_key"`
	UniverseDomain string   `yaml:"universe_domain"`
	IAMEndpoint    string   `yaml:"iam_endpoint"`
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	verbose    bool
	fileConfig
}

func (g *globalFlags) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&g.configFile, "config", "", "YAML file with default flag values")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "Log credential resolution to stderr")
	f.StringVar(&g.KeyFile, "key-file", "", "Path to a JSON, PEM or P12 key file")
	f.StringVar(&g.Email, "email", "", "Service account email, required with PEM and P12 keys")
	f.StringSliceVar(&g.Scopes, "scopes", nil, "OAuth2 scopes, comma separated")
	f.StringVar(&g.ProjectID, "project", "", "Project ID override")
	f.StringVar(&g.Token, "token", "", "Pre-obtained access token")
	f.StringVar(&g.APIKey, "api-key", "", "API key")
	f.StringVar(&g.UniverseDomain, "universe-domain", "", "Service universe domain")
	f.StringVar(&g.IAMEndpoint, "iam-endpoint", "", "IAM endpoint override")
}

// load merges the config file, if any, under the flags set on cmd.
func (g *globalFlags) load(cmd *cobra.Command) (*fileConfig, error) {
	fc := &fileConfig{}
	if g.configFile != "" {
		b, err := os.ReadFile(g.configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, fc); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", g.configFile, err)
		}
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("key-file", &fc.KeyFile, g.KeyFile)
	override("email", &fc.Email, g.Email)
	override("project", &fc.ProjectID, g.ProjectID)
	override("token", &fc.Token, g.Token)
	override("api-key", &fc.APIKey, g.APIKey)
	override("universe-domain", &fc.UniverseDomain, g.UniverseDomain)
	override("iam-endpoint", &fc.IAMEndpoint, g.IAMEndpoint)
	if flags.Changed("scopes") {
		fc.Scopes = g.Scopes
	}
	return fc, nil
}

func (g *globalFlags) newAuth(cmd *cobra.Command) (*autoauth.Auth, error) {
	fc, err := g.load(cmd)
	if err != nil {
		return nil, err
	}
	cfg := &autoauth.Config{
		KeyFilename:    fc.KeyFile,
		Email:          fc.Email,
		Scopes:         fc.Scopes,
		ProjectID:      fc.ProjectID,
		Token:          fc.Token,
		APIKey:         fc.APIKey,
		UniverseDomain: fc.UniverseDomain,
		IAMEndpoint:    fc.IAMEndpoint,
	}
	if g.verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return autoauth.New(cfg)
}
