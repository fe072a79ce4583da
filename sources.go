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
	"context"
	"log/slog"
	"net/http"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/autoauth/environment"
	"cloud.google.com/go/autoauth/internal/credsfile"
)

// metadataClient is the subset of [metadata.Client] used by this package.
type metadataClient interface {
	environment.MetadataClient
	EmailWithContext(ctx context.Context, serviceAccount string) (string, error)
	ProjectIDWithContext(ctx context.Context) (string, error)
}

// clientOptions carries the configuration shared by every construction path.
type clientOptions struct {
	scopes     []string
	email      string
	httpClient *http.Client
	metadata   metadataClient
	logger     *slog.Logger
	getenv     func(string) string
}

// sources are the construction paths of the resolver. Each returns the
// client and the project ID reported while creating it, if any.
type sources struct {
	fromJSON        func(ctx context.Context, b []byte, o *clientOptions) (Client, string, error)
	fromKey         func(ctx context.Context, path string, b []byte, o *clientOptions) (Client, string, error)
	fromEnvironment func(ctx context.Context, o *clientOptions) (Client, string, error)
}

var defaultSources = sources{
	fromJSON:        newJSONClient,
	fromKey:         newJWTClient,
	fromEnvironment: newEnvironmentClient,
}

// newJSONClient builds a client from the contents of a JSON credentials file.
func newJSONClient(ctx context.Context, b []byte, o *clientOptions) (Client, string, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes:          o.scopes,
		CredentialsJSON: b,
		Client:          o.httpClient,
		Logger:          o.logger,
	})
	if err != nil {
		return nil, "", err
	}
	c, err := jsonClientFromCredentials(creds, b)
	if err != nil {
		return nil, "", err
	}
	return c, c.projectID, nil
}

// jsonClientFromCredentials decodes the identity fields of b, which must be
// the JSON creds was built from.
func jsonClientFromCredentials(creds *auth.Credentials, b []byte) (*jsonClient, error) {
	credType, err := credsfile.ParseFileType(b)
	if err != nil {
		return nil, err
	}
	c := &jsonClient{credType: credType, creds: creds}
	switch credType {
	case credsfile.ServiceAccountKey:
		f, err := credsfile.ParseServiceAccount(b)
		if err != nil {
			return nil, err
		}
		c.email, c.key, c.projectID = f.ClientEmail, f.PrivateKey, f.ProjectID
	case credsfile.UserCredentialsKey:
		f, err := credsfile.ParseUserCredentials(b)
		if err != nil {
			return nil, err
		}
		c.projectID = f.QuotaProjectID
	case credsfile.ImpersonatedServiceAccountKey:
		f, err := credsfile.ParseImpersonatedServiceAccount(b)
		if err != nil {
			return nil, err
		}
		// A malformed URL is left for the auth library to reject on use.
		c.email, _ = credsfile.ImpersonatedEmail(f.ServiceAccountImpersonationURL)
	case credsfile.ExternalAccountKey:
		f, err := credsfile.ParseExternalAccount(b)
		if err != nil {
			return nil, err
		}
		if f.ServiceAccountImpersonationURL != "" {
			c.email, _ = credsfile.ImpersonatedEmail(f.ServiceAccountImpersonationURL)
		}
		c.projectID = f.QuotaProjectID
	}
	return c, nil
}

// newJWTClient builds a client from a PEM or P12 key. Key material that is
// neither is used as is; the auth library rejects it on first use.
func newJWTClient(ctx context.Context, path string, b []byte, o *clientOptions) (Client, string, error) {
	key, encoding := credsfile.DecodeKey(b)
	o.logger.DebugContext(ctx, "autoauth: decoded private key", "path", path, "encoding", encoding)
	tp, err := auth.New2LOTokenProvider(&auth.Options2LO{
		Email:      o.email,
		PrivateKey: key,
		Scopes:     o.scopes,
		TokenURL:   jwtTokenURL,
		Client:     o.httpClient,
	})
	if err != nil {
		return nil, "", err
	}
	return &jwtClient{
		keyFile: path,
		email:   o.email,
		key:     key,
		tp:      auth.NewCachedTokenProvider(tp, nil),
	}, "", nil
}

// newEnvironmentClient discovers Application Default Credentials.
func newEnvironmentClient(ctx context.Context, o *clientOptions) (Client, string, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: o.scopes,
		Client: o.httpClient,
		Logger: o.logger,
	})
	if err != nil {
		return nil, "", err
	}
	projectID := ""
	for _, k := range projectEnvVars {
		if v := o.getenv(k); v != "" {
			projectID = v
			break
		}
	}
	if b := creds.JSON(); len(b) > 0 {
		c, err := jsonClientFromCredentials(creds, b)
		if err != nil {
			return nil, "", err
		}
		if projectID == "" {
			projectID = c.projectID
		}
		return c, projectID, nil
	}
	return &computeClient{
		creds:    creds,
		metadata: o.metadata,
		scopes:   o.scopes,
	}, projectID, nil
}
