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

// Package credsfile is meant to hide implementation details from the public
// surface of the autoauth package. It parses the JSON credential files and
// raw key material accepted as key files.
package credsfile

// CredentialType represents different credential filetypes Google credentials
// can be.
type CredentialType int

const (
	// UnknownCredType is an unidentified file type.
	UnknownCredType CredentialType = iota
	// UserCredentialsKey represents a user creds file type.
	UserCredentialsKey
	// ServiceAccountKey represents a service account file type.
	ServiceAccountKey
	// ImpersonatedServiceAccountKey represents a impersonated service account
	// file type.
	ImpersonatedServiceAccountKey
	// ExternalAccountKey represents a external account file type.
	ExternalAccountKey
	// ExternalAccountAuthorizedUserKey represents a external account authorized
	// user file type.
	ExternalAccountAuthorizedUserKey
	// GDCHServiceAccountKey represents a GDCH file type.
	GDCHServiceAccountKey
)

// ScopeRequired reports whether credentials of this type can only mint
// access tokens once OAuth2 scopes have been configured.
func (c CredentialType) ScopeRequired() bool {
	switch c {
	case ServiceAccountKey, ImpersonatedServiceAccountKey, ExternalAccountKey:
		return true
	default:
		return false
	}
}

func (c CredentialType) String() string {
	return ParseCredentialTypeString(c)
}

// ServiceAccountFile is the unmarshalled representation of a service account
// file.
type ServiceAccountFile struct {
	Type           string `json:"type"`
	ProjectID      string `json:"project_id"`
	PrivateKeyID   string `json:"private_key_id"`
	PrivateKey     string `json:"private_key"`
	ClientEmail    string `json:"client_email"`
	ClientID       string `json:"client_id"`
	AuthURL        string `json:"auth_uri"`
	TokenURL       string `json:"token_uri"`
	UniverseDomain string `json:"universe_domain"`
}

// UserCredentialsFile representation.
type UserCredentialsFile struct {
	Type           string `json:"type"`
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	QuotaProjectID string `json:"quota_project_id"`
	RefreshToken   string `json:"refresh_token"`
	UniverseDomain string `json:"universe_domain"`
}

// ExternalAccountFile representation. Only the fields needed to identify the
// impersonated service account and the project are decoded; the auth library
// owns the rest.
type ExternalAccountFile struct {
	Type                           string `json:"type"`
	Audience                       string `json:"audience"`
	ServiceAccountImpersonationURL string `json:"service_account_impersonation_url"`
	QuotaProjectID                 string `json:"quota_project_id"`
	WorkforcePoolUserProject       string `json:"workforce_pool_user_project"`
	UniverseDomain                 string `json:"universe_domain"`
}

// ImpersonatedServiceAccountFile representation.
type ImpersonatedServiceAccountFile struct {
	Type                           string   `json:"type"`
	ServiceAccountImpersonationURL string   `json:"service_account_impersonation_url"`
	Delegates                      []string `json:"delegates"`
	UniverseDomain                 string   `json:"universe_domain"`
}
