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
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/autoauth/environment"
	"cloud.google.com/go/compute/metadata"
)

type fakeMetadata struct {
	email      string
	emailErr   error
	projectID  string
	projectErr error
	calls      atomic.Int32
}

func (f *fakeMetadata) OnGCEWithContext(context.Context) bool { return false }

func (f *fakeMetadata) InstanceAttributeValueWithContext(_ context.Context, attr string) (string, error) {
	return "", metadata.NotDefinedError(attr)
}

func (f *fakeMetadata) EmailWithContext(context.Context, string) (string, error) {
	f.calls.Add(1)
	return f.email, f.emailErr
}

func (f *fakeMetadata) ProjectIDWithContext(context.Context) (string, error) {
	return f.projectID, f.projectErr
}

// fakeClient is a Client with no optional capabilities.
type fakeClient struct {
	kind       Kind
	token      string
	tokenErr   error
	projectID  string
	projectErr error
	scopes     []string

	projectLookups atomic.Int32
}

func (c *fakeClient) Kind() Kind {
	if c.kind == "" {
		return KindJSON
	}
	return c.kind
}

func (c *fakeClient) Token(context.Context) (*auth.Token, error) {
	if c.tokenErr != nil {
		return nil, c.tokenErr
	}
	return &auth.Token{Value: c.token, Type: "Bearer"}, nil
}

func (c *fakeClient) ProjectID(context.Context) (string, error) {
	c.projectLookups.Add(1)
	return c.projectID, c.projectErr
}

func (c *fakeClient) Scopes() []string { return c.scopes }

// flakyProjectClient fails its first project ID lookup.
type flakyProjectClient struct {
	fakeClient
}

func (c *flakyProjectClient) ProjectID(context.Context) (string, error) {
	if c.projectLookups.Add(1) == 1 {
		return "", errFlakyProject
	}
	return c.projectID, nil
}

var errFlakyProject = errors.New("metadata server unavailable")

// scopedClient requires scopes.
type scopedClient struct {
	fakeClient
}

func (c *scopedClient) scopeRequired() bool       { return len(c.scopes) == 0 }
func (c *scopedClient) setScopes(scopes []string) { c.scopes = scopes }

// keyedClient exposes fixed credentials.
type keyedClient struct {
	fakeClient
	creds *Credentials
}

func (c *keyedClient) credentials() (*Credentials, bool) {
	c2 := *c.creds
	return &c2, true
}

// authorizingClient exposes credentials only once authorize succeeded, and
// only if grant is set.
type authorizingClient struct {
	fakeClient
	grant        *Credentials
	authorizeErr error

	mu         sync.Mutex
	calls      int
	authorized bool
}

func (c *authorizingClient) authorize(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.authorizeErr != nil {
		return c.authorizeErr
	}
	c.authorized = true
	return nil
}

func (c *authorizingClient) credentials() (*Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authorized || c.grant == nil {
		return nil, false
	}
	c2 := *c.grant
	return &c2, true
}

var errUnexpectedSource = errors.New("unexpected credential source")

// failingSources fails the test if any construction path runs.
func failingSources(t *testing.T) sources {
	return sources{
		fromJSON: func(context.Context, []byte, *clientOptions) (Client, string, error) {
			t.Error("fromJSON called")
			return nil, "", errUnexpectedSource
		},
		fromKey: func(context.Context, string, []byte, *clientOptions) (Client, string, error) {
			t.Error("fromKey called")
			return nil, "", errUnexpectedSource
		},
		fromEnvironment: func(context.Context, *clientOptions) (Client, string, error) {
			t.Error("fromEnvironment called")
			return nil, "", errUnexpectedSource
		},
	}
}

// environmentSource returns sources whose environment path yields c.
func environmentSource(t *testing.T, c Client, projectID string) sources {
	s := failingSources(t)
	s.fromEnvironment = func(context.Context, *clientOptions) (Client, string, error) {
		return c, projectID, nil
	}
	return s
}

func newTestAuth(t *testing.T, cfg *Config, s sources) *Auth {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	md := &fakeMetadata{}
	a.metadata = md
	a.env = environment.NewDetector(&environment.Options{Getenv: a.cfg.getenv, Metadata: md})
	a.sources = s
	return a
}

// noNetwork is a RoundTripper that fails the test on use.
type noNetwork struct {
	t *testing.T
}

func (n noNetwork) RoundTrip(req *http.Request) (*http.Response, error) {
	n.t.Errorf("unexpected request to %s", req.URL)
	return nil, errors.New("network disabled")
}

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
