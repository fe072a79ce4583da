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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/autoauth/environment"
	"cloud.google.com/go/autoauth/internal/memo"
	"cloud.google.com/go/autoauth/internal/trace"
	"cloud.google.com/go/compute/metadata"
	"github.com/googleapis/gax-go/v2/internallog"
	iam "google.golang.org/api/iam/v1"
)

// Credentials identifies a service account.
type Credentials struct {
	// ClientEmail is the service account email.
	ClientEmail string `json:"client_email"`
	// PrivateKey is the PEM encoded private key. It is empty when the key is
	// not held locally.
	PrivateKey string `json:"private_key,omitempty"`
}

// resolved is the outcome of a successful credential resolution.
type resolved struct {
	client Client
	// reported is the project ID learned while creating client, if any.
	reported string
}

// Auth resolves credentials described by a [Config] and caches what it
// derives from them. It is safe for concurrent use.
type Auth struct {
	cfg      *Config
	logger   *slog.Logger
	metadata metadataClient
	env      *environment.Detector
	sources  sources

	resolved memo.Value[*resolved]
	project  memo.Value[string]
	creds    memo.Value[*Credentials]
	iam      memo.Value[*iam.Service]
}

// New returns an Auth for cfg. A nil cfg discovers credentials from the
// environment. No credentials are resolved until they are first needed.
func New(cfg *Config) (*Auth, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	a := &Auth{
		cfg:     cfg,
		logger:  internallog.New(cfg.Logger),
		sources: defaultSources,
	}
	if cfg.Metadata != nil {
		a.metadata = cfg.Metadata
	} else {
		a.metadata = metadata.NewWithOptions(&metadata.Options{Logger: cfg.Logger})
	}
	a.env = environment.NewDetector(&environment.Options{
		Getenv:   cfg.Getenv,
		Metadata: a.metadata,
		Logger:   cfg.Logger,
	})
	return a, nil
}

// Environment returns the platform detector used by a.
func (a *Auth) Environment() *environment.Detector {
	return a.env
}

// Client resolves the configured credentials. Concurrent callers share one
// resolution; a successful result is returned to every later caller, a
// failed one is retried on the next call.
func (a *Auth) Client(ctx context.Context) (Client, error) {
	r, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return r.client, nil
}

// ProjectID returns the configured project ID, or else the one reported
// while resolving credentials, or else the one the resolved client reports
// when asked. A failed lookup is returned and tried again on the next call.
func (a *Auth) ProjectID(ctx context.Context) (string, error) {
	if a.cfg.ProjectID != "" {
		return a.cfg.ProjectID, nil
	}
	return a.project.Get(ctx, a.newProjectID)
}

func (a *Auth) newProjectID(ctx context.Context) (string, error) {
	r, err := a.resolve(ctx)
	if err != nil {
		return "", err
	}
	if r.reported != "" {
		a.logger.DebugContext(ctx, "autoauth: project ID from credentials", "projectID", r.reported)
		return r.reported, nil
	}
	id, err := r.client.ProjectID(ctx)
	if err != nil {
		return "", fmt.Errorf("autoauth: looking up project ID: %w", err)
	}
	if id == "" {
		return "", newError(ErrMissingProjectID, "could not determine a project ID; set ProjectID or GOOGLE_CLOUD_PROJECT")
	}
	a.logger.DebugContext(ctx, "autoauth: project ID from client", "projectID", id)
	return id, nil
}

// Credentials returns the service account email and, when held locally, its
// private key. Clients that only learn their identity by authorizing, such
// as Compute Engine credentials, are authorized once.
func (a *Auth) Credentials(ctx context.Context) (*Credentials, error) {
	c, err := a.creds.Get(ctx, a.newCredentials)
	if err != nil {
		return nil, err
	}
	c2 := *c
	return &c2, nil
}

func (a *Auth) newCredentials(ctx context.Context) (*Credentials, error) {
	client, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}
	src, _ := client.(credentialSource)
	extract := func() (*Credentials, bool) {
		if src == nil {
			return nil, false
		}
		return src.credentials()
	}
	if c, ok := extract(); ok {
		return c, nil
	}
	az, ok := client.(authorizable)
	if !ok {
		return nil, newError(ErrCredentialsUnavailable, "")
	}
	if err := az.authorize(ctx); err != nil {
		return nil, err
	}
	if c, ok := extract(); ok {
		return c, nil
	}
	return nil, newError(ErrCredentialsUnavailable, "")
}

func (a *Auth) resolve(ctx context.Context) (*resolved, error) {
	return a.resolved.Get(ctx, a.newResolved)
}

func (a *Auth) newResolved(ctx context.Context) (_ *resolved, err error) {
	ctx = trace.StartSpan(ctx, "cloud.google.com/go/autoauth.Resolve")
	defer func() { trace.EndSpan(ctx, err) }()

	client, reported, err := a.newClient(ctx)
	if err != nil {
		return nil, err
	}
	if s, ok := client.(scopable); ok {
		if s.scopeRequired() && len(a.cfg.Scopes) == 0 {
			return nil, newError(ErrMissingScope, "scopes are required for "+string(client.Kind())+" credentials; set Scopes")
		}
		s.setScopes(a.cfg.Scopes)
	}

	a.logger.DebugContext(ctx, "autoauth: resolved credentials", "kind", client.Kind(), "reportedProjectID", reported)
	trace.Annotate(ctx, map[string]interface{}{"kind": string(client.Kind())}, "resolved credentials")
	return &resolved{client: client, reported: reported}, nil
}

// newClient picks the credential source in order of precedence: inline JSON,
// key file, environment.
func (a *Auth) newClient(ctx context.Context) (Client, string, error) {
	o := &clientOptions{
		scopes:     a.cfg.Scopes,
		email:      a.cfg.Email,
		httpClient: a.cfg.HTTPClient,
		metadata:   a.metadata,
		logger:     a.logger,
		getenv:     a.cfg.getenv,
	}
	if len(a.cfg.CredentialsJSON) > 0 {
		a.logger.DebugContext(ctx, "autoauth: using inline credentials")
		return a.sources.fromJSON(ctx, a.cfg.CredentialsJSON, o)
	}
	if kf := a.cfg.keyFile(); kf != "" {
		path, err := filepath.Abs(kf)
		if err != nil {
			return nil, "", err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		if json.Valid(b) {
			a.logger.DebugContext(ctx, "autoauth: using JSON key file", "path", path)
			return a.sources.fromJSON(ctx, b, o)
		}
		a.logger.DebugContext(ctx, "autoauth: using private key file", "path", path)
		return a.sources.fromKey(ctx, path, b, o)
	}
	a.logger.DebugContext(ctx, "autoauth: discovering application default credentials")
	return a.sources.fromEnvironment(ctx, o)
}
