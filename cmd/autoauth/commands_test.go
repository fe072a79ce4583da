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
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"cloud.google.com/go/autoauth/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToken_Static(t *testing.T) {
	got, err := run(t, "", "token", "--token", "abc")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got != "abc\n" {
		t.Errorf("token printed %q, want %q", got, "abc\n")
	}
}

func TestProject_ConfigFile(t *testing.T) {
	path := testutil.WriteFile(t, "autoauth.yaml", []byte("project_id: from-file\ntoken: tok\n"))
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "file", args: []string{"project", "--config", path}, want: "from-file\n"},
		{name: "flag overrides file", args: []string{"project", "--config", path, "--project", "from-flag"}, want: "from-flag\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("project: %v", err)
			}
			if got != tt.want {
				t.Errorf("project printed %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFile_Invalid(t *testing.T) {
	path := testutil.WriteFile(t, "autoauth.yaml", []byte("scopes: [unterminated\n"))
	if _, err := run(t, "", "token", "--config", path); err == nil {
		t.Error("token with malformed config succeeded, want error")
	}
}

func TestSign_KeyFile(t *testing.T) {
	path := testutil.WriteFile(t, "key.json", testutil.ServiceAccountJSON(t, testutil.ServiceAccount{
		ProjectID:   "p",
		ClientEmail: "e@p.iam.gserviceaccount.com",
	}))
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "argument", args: []string{"sign", "--key-file", path, "--scopes", "s", "hello"}},
		{name: "stdin", stdin: "hello", args: []string{"sign", "--key-file", path, "--scopes", "s"}},
		{name: "file", args: []string{"sign", "--key-file", path, "--scopes", "s", "--file", testutil.WriteFile(t, "data", []byte("hello"))}},
	}
	sum := sha256.Sum256([]byte("hello"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(got))
			if err != nil {
				t.Fatalf("signature is not base64: %v", err)
			}
			if err := rsa.VerifyPKCS1v15(&testutil.RSAKey(t).PublicKey, crypto.SHA256, sum[:], sig); err != nil {
				t.Errorf("VerifyPKCS1v15() = %v", err)
			}
		})
	}
}

func TestSign_DataAndFile(t *testing.T) {
	if _, err := run(t, "", "sign", "--token", "tok", "--file", "x", "hello"); err == nil {
		t.Error("sign with data and --file succeeded, want error")
	}
}

func TestCredentials_KeyFile(t *testing.T) {
	path := testutil.WriteFile(t, "key.json", testutil.ServiceAccountJSON(t, testutil.ServiceAccount{
		ProjectID:   "p",
		ClientEmail: "e@p.iam.gserviceaccount.com",
	}))
	out, err := run(t, "", "credentials", "--key-file", path, "--scopes", "s")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	var got credentialsOutput
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	want := credentialsOutput{Kind: "json", ClientEmail: "e@p.iam.gserviceaccount.com", HasPrivateKey: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}
