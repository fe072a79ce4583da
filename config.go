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

package autoauth

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"
)

const (
	defaultUniverseDomain     = "googleapis.com"
	universeDomainPlaceholder = "UNIVERSE_DOMAIN"
	iamUniverseDomainEndpoint = "https://iam.UNIVERSE_DOMAIN/"
	jwtTokenURL               = "https://oauth2.googleapis.com/token"
)

// projectEnvVars are consulted, in order, for a project ID when credentials
// come from the environment.
var projectEnvVars = []string{"GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT"}

// Config describes where credentials come from. It is read once by [New] and
// must not be modified afterwards.
type Config struct {
	// CredentialsJSON is the contents of a JSON credentials file, such as a
	// service account key. It takes precedence over every other source.
	CredentialsJSON []byte
	// KeyFilename is the path to a JSON, PEM or P12 key file. Relative paths
	// are resolved against the working directory.
	KeyFilename string
	// KeyFile is an alias of KeyFilename, used when KeyFilename is empty.
	KeyFile string
	// Email is the service account email. Required with PEM and P12 keys.
	Email string
	// Scopes are the OAuth2 scopes requested for access tokens.
	Scopes []string
	// ProjectID overrides any project ID derived from the credentials.
	ProjectID string
	// Token is a pre-obtained access token. When set, Token and Authorize
	// use it as is and never resolve credentials.
	Token string
	// APIKey authorizes requests with an API key when no Token,
	// CredentialsJSON or key file is configured.
	APIKey string

	// UniverseDomain is the service domain used to build the IAM endpoint.
	// Optional, defaults to "googleapis.com".
	UniverseDomain string
	// IAMEndpoint overrides the IAM endpoint used for remote signing.
	// Optional.
	IAMEndpoint string
	// HTTPClient is the base client for token exchanges and signBlob calls.
	// Optional.
	HTTPClient *http.Client
	// Metadata is the metadata server client used for Compute Engine
	// credentials and environment probes. Optional.
	Metadata *metadata.Client
	// Logger is used for debug logging. Optional; when nil the
	// GOOGLE_SDK_GO_LOGGING_LEVEL environment variable decides.
	Logger *slog.Logger
	// Getenv looks up environment variables. Optional, defaults to
	// [os.Getenv].
	Getenv func(string) string
}

func (c *Config) validate() error {
	if c.KeyFilename != "" && c.KeyFile != "" && c.KeyFilename != c.KeyFile {
		return errors.New("autoauth: KeyFilename and KeyFile name different files")
	}
	for _, s := range c.Scopes {
		if strings.TrimSpace(s) == "" {
			return errors.New("autoauth: empty scope")
		}
	}
	return nil
}

func (c *Config) keyFile() string {
	if c.KeyFilename != "" {
		return c.KeyFilename
	}
	return c.KeyFile
}

// useAPIKey reports whether requests are authorized with the API key.
func (c *Config) useAPIKey() bool {
	return c.APIKey != "" && c.Token == "" && len(c.CredentialsJSON) == 0 && c.keyFile() == ""
}

func (c *Config) getenv(key string) string {
	if c.Getenv != nil {
		return c.Getenv(key)
	}
	return os.Getenv(key)
}

func (c *Config) iamEndpoint() string {
	if c.IAMEndpoint != "" {
		return c.IAMEndpoint
	}
	ud := c.UniverseDomain
	if ud == "" {
		ud = defaultUniverseDomain
	}
	return strings.Replace(iamUniverseDomainEndpoint, universeDomainPlaceholder, ud, 1)
}

// clone returns a copy of c that shares no slices with it.
func (c *Config) clone() *Config {
	c2 := *c
	if c.CredentialsJSON != nil {
		c2.CredentialsJSON = append([]byte(nil), c.CredentialsJSON...)
	}
	if c.Scopes != nil {
		c2.Scopes = append([]string(nil), c.Scopes...)
	}
	return &c2
}
