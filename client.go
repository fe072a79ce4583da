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
	"sync"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/autoauth/internal/credsfile"
)

// Kind identifies how a [Client] was constructed.
type Kind string

const (
	// KindJSON clients come from a JSON credentials file or inline JSON.
	KindJSON Kind = "json"
	// KindJWT clients come from a PEM or P12 private key and an email.
	KindJWT Kind = "jwt"
	// KindCompute clients use the metadata server of the current instance.
	KindCompute Kind = "compute"
)

// Client is a resolved credential provider. A Client returned by
// [Auth.Client] is shared by every caller and must be treated as read-only.
type Client interface {
	// Kind reports how the client was constructed.
	Kind() Kind
	// Token returns an access token. The underlying auth library caches and
	// refreshes tokens.
	Token(ctx context.Context) (*auth.Token, error)
	// ProjectID queries the project associated with the credentials. It
	// returns the empty string when there is none.
	ProjectID(ctx context.Context) (string, error)
	// Scopes returns the OAuth2 scopes attached to the client.
	Scopes() []string
}

// scopable is implemented by clients that cannot mint tokens without scopes.
type scopable interface {
	scopeRequired() bool
	setScopes(scopes []string)
}

// authorizable is implemented by clients that learn their identity through a
// side-effecting step.
type authorizable interface {
	authorize(ctx context.Context) error
}

// credentialSource is implemented by clients that can expose a service
// account identity. ok is false when none is known yet.
type credentialSource interface {
	credentials() (c *Credentials, ok bool)
}

// jsonClient is built from a JSON credentials file.
type jsonClient struct {
	credType  credsfile.CredentialType
	creds     *auth.Credentials
	email     string
	key       string
	projectID string
	scopes    []string
}

func (c *jsonClient) Kind() Kind { return KindJSON }

// CredentialType returns the "type" field of the JSON credentials.
func (c *jsonClient) CredentialType() string { return c.credType.String() }

func (c *jsonClient) Token(ctx context.Context) (*auth.Token, error) {
	return c.creds.Token(ctx)
}

func (c *jsonClient) ProjectID(ctx context.Context) (string, error) {
	return c.creds.ProjectID(ctx)
}

func (c *jsonClient) Scopes() []string { return c.scopes }

func (c *jsonClient) scopeRequired() bool {
	return c.credType.ScopeRequired() && len(c.scopes) == 0
}

func (c *jsonClient) setScopes(scopes []string) { c.scopes = scopes }

func (c *jsonClient) credentials() (*Credentials, bool) {
	if c.email == "" && c.key == "" {
		return nil, false
	}
	return &Credentials{ClientEmail: c.email, PrivateKey: c.key}, true
}

// jwtClient is built from raw PEM or P12 key material.
type jwtClient struct {
	keyFile string
	email   string
	key     []byte
	tp      auth.TokenProvider
	scopes  []string
}

func (c *jwtClient) Kind() Kind { return KindJWT }

func (c *jwtClient) Token(ctx context.Context) (*auth.Token, error) {
	return c.tp.Token(ctx)
}

func (c *jwtClient) ProjectID(context.Context) (string, error) { return "", nil }

func (c *jwtClient) Scopes() []string { return c.scopes }

func (c *jwtClient) scopeRequired() bool { return len(c.scopes) == 0 }

func (c *jwtClient) setScopes(scopes []string) { c.scopes = scopes }

func (c *jwtClient) credentials() (*Credentials, bool) {
	return &Credentials{ClientEmail: c.email, PrivateKey: string(c.key)}, true
}

// computeClient uses the default service account of a Compute Engine
// instance. Its email is only known after authorize.
type computeClient struct {
	creds    *auth.Credentials
	metadata metadataClient
	scopes   []string

	mu         sync.Mutex
	authorized bool
	email      string
}

func (c *computeClient) Kind() Kind { return KindCompute }

func (c *computeClient) Token(ctx context.Context) (*auth.Token, error) {
	return c.creds.Token(ctx)
}

func (c *computeClient) ProjectID(ctx context.Context) (string, error) {
	return c.metadata.ProjectIDWithContext(ctx)
}

func (c *computeClient) Scopes() []string { return c.scopes }

func (c *computeClient) authorize(ctx context.Context) error {
	email, err := c.metadata.EmailWithContext(ctx, "default")
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
	c.authorized = true
	return nil
}

func (c *computeClient) credentials() (*Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authorized {
		return nil, false
	}
	return &Credentials{ClientEmail: c.email}, true
}
