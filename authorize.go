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
	"net/http"

	"github.com/googleapis/gax-go/v2/internallog"
	grpccreds "google.golang.org/grpc/credentials"
)

const apiKeyHeader = "X-Goog-Api-Key"

// Authorize returns a copy of req carrying an Authorization header with a
// bearer token from [Auth.Token]. Existing headers are kept and req is not
// modified. When only an API key is configured, the copy carries the key in
// the X-Goog-Api-Key header instead.
func (a *Auth) Authorize(ctx context.Context, req *http.Request) (*http.Request, error) {
	if a.cfg.useAPIKey() {
		req2 := cloneRequest(ctx, req)
		req2.Header.Set(apiKeyHeader, a.cfg.APIKey)
		return req2, nil
	}
	return a.authorizeBearer(ctx, req)
}

// authorizeBearer is Authorize without the API key path, for APIs that only
// accept OAuth2 tokens.
func (a *Auth) authorizeBearer(ctx context.Context, req *http.Request) (*http.Request, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	req2 := cloneRequest(ctx, req)
	req2.Header.Set("Authorization", tokenTypeBearer+" "+tok)
	return req2, nil
}

func cloneRequest(ctx context.Context, req *http.Request) *http.Request {
	req2 := req.Clone(ctx)
	if req2.Header == nil {
		req2.Header = make(http.Header)
	}
	return req2
}

// Transport returns a RoundTripper that authorizes every request with
// [Auth.Authorize] before handing it to base. A nil base uses the configured
// HTTPClient's transport, or a clone of [http.DefaultTransport].
func (a *Auth) Transport(base http.RoundTripper) http.RoundTripper {
	return a.newTransport(base, a.Authorize)
}

// HTTPClient returns an *http.Client whose requests are authorized by a.
func (a *Auth) HTTPClient() *http.Client {
	return a.newHTTPClient(a.Authorize)
}

// bearerHTTPClient is like HTTPClient but never authorizes with the API key.
func (a *Auth) bearerHTTPClient() *http.Client {
	return a.newHTTPClient(a.authorizeBearer)
}

func (a *Auth) newHTTPClient(authorize authorizeFunc) *http.Client {
	c := &http.Client{Transport: a.newTransport(nil, authorize)}
	if a.cfg.HTTPClient != nil {
		c.Timeout = a.cfg.HTTPClient.Timeout
	}
	return c
}

func (a *Auth) newTransport(base http.RoundTripper, authorize authorizeFunc) http.RoundTripper {
	if base == nil && a.cfg.HTTPClient != nil {
		base = a.cfg.HTTPClient.Transport
	}
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &authTransport{a: a, base: base, authorize: authorize}
}

type authorizeFunc func(ctx context.Context, req *http.Request) (*http.Request, error)

type authTransport struct {
	a         *Auth
	base      http.RoundTripper
	authorize authorizeFunc
}

// RoundTrip authorizes a copy of req. Per the
// RoundTripper contract the body must be closed if authorization fails.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqBodyClosed := false
	if req.Body != nil {
		defer func() {
			if !reqBodyClosed {
				req.Body.Close()
			}
		}()
	}
	ctx := req.Context()
	req2, err := t.authorize(ctx, req)
	if err != nil {
		return nil, err
	}
	reqBodyClosed = true
	t.a.logger.DebugContext(ctx, "autoauth: request", "request", internallog.HTTPRequest(req2, nil))
	resp, err := t.base.RoundTrip(req2)
	if err != nil {
		return nil, err
	}
	t.a.logger.DebugContext(ctx, "autoauth: response", "response", internallog.HTTPResponse(resp, nil))
	return resp, nil
}

// PerRPCCredentials returns gRPC call credentials that attach the same
// authorization as [Auth.Authorize] to every RPC.
func (a *Auth) PerRPCCredentials() grpccreds.PerRPCCredentials {
	return perRPCCredentials{a: a}
}

type perRPCCredentials struct {
	a *Auth
}

func (c perRPCCredentials) GetRequestMetadata(ctx context.Context, _ ...string) (map[string]string, error) {
	if c.a.cfg.useAPIKey() {
		return map[string]string{"x-goog-api-key": c.a.cfg.APIKey}, nil
	}
	tok, err := c.a.Token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"authorization": tokenTypeBearer + " " + tok}, nil
}

func (perRPCCredentials) RequireTransportSecurity() bool {
	return true
}
