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

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/oauth2adapt"
	"golang.org/x/oauth2"
)

const tokenTypeBearer = "Bearer"

// Token returns an access token. A Token set in the [Config] is returned as
// is without resolving credentials.
func (a *Auth) Token(ctx context.Context) (string, error) {
	t, err := a.TokenProvider().Token(ctx)
	if err != nil {
		return "", err
	}
	return t.Value, nil
}

// TokenProvider returns a [auth.TokenProvider] backed by a.
func (a *Auth) TokenProvider() auth.TokenProvider {
	return tokenProvider{a: a}
}

// TokenSource returns an [oauth2.TokenSource] backed by a, for use with
// libraries built on golang.org/x/oauth2.
func (a *Auth) TokenSource() oauth2.TokenSource {
	return oauth2adapt.TokenSourceFromTokenProvider(a.TokenProvider())
}

type tokenProvider struct {
	a *Auth
}

func (tp tokenProvider) Token(ctx context.Context) (*auth.Token, error) {
	if tok := tp.a.cfg.Token; tok != "" {
		return &auth.Token{Value: tok, Type: tokenTypeBearer}, nil
	}
	client, err := tp.a.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Token(ctx)
}
