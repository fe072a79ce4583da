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

// Package testutil holds helpers shared by the autoauth tests: throwaway RSA
// keys, service account files and an in-memory span exporter.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// IntegrationTestCheck is a helper to check if an integration test should be
// run. Integration tests need real Application Default Credentials.
func IntegrationTestCheck(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("AUTOAUTH_INTEGRATION") == "" {
		t.Skip("AUTOAUTH_INTEGRATION not set")
	}
}

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
	keyErr  error
)

// RSAKey returns a 2048 bit RSA key shared by every test in the binary.
func RSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		key, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if keyErr != nil {
		t.Fatalf("rsa.GenerateKey: %v", keyErr)
	}
	return key
}

// PrivateKeyPEM returns the PKCS8 PEM encoding of [RSAKey].
func PrivateKeyPEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(RSAKey(t))
	if err != nil {
		t.Fatalf("x509.MarshalPKCS8PrivateKey: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// ServiceAccount describes the fields written by [ServiceAccountJSON].
type ServiceAccount struct {
	ProjectID   string
	ClientEmail string
	TokenURL    string
}

// ServiceAccountJSON returns a service account key file signed by [RSAKey].
func ServiceAccountJSON(t *testing.T, sa ServiceAccount) []byte {
	t.Helper()
	tokenURL := sa.TokenURL
	if tokenURL == "" {
		tokenURL = "https://oauth2.googleapis.com/token"
	}
	b, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     sa.ProjectID,
		"private_key_id": "abc123",
		"private_key":    string(PrivateKeyPEM(t)),
		"client_email":   sa.ClientEmail,
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return b
}

// WriteFile writes b to name inside a per-test temporary directory and
// returns the absolute path.
func WriteFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0600); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return p
}
