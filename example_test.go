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

package autoauth_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/autoauth"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func ExampleNew() {
	ctx := context.Background()
	a, err := autoauth.New(&autoauth.Config{
		KeyFilename: "service-account.json",
		Scopes:      []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		// TODO: handle error.
	}
	tok, err := a.Token(ctx)
	if err != nil {
		// TODO: handle error.
	}
	fmt.Println(tok)
}

func ExampleAuth_Authorize() {
	ctx := context.Background()
	a, err := autoauth.New(&autoauth.Config{
		Scopes: []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		// TODO: handle error.
	}
	req, err := http.NewRequest(http.MethodGet, "https://storage.googleapis.com/storage/v1/b?project=my-project", nil)
	if err != nil {
		// TODO: handle error.
	}
	req, err = a.Authorize(ctx, req)
	if err != nil {
		// TODO: handle error.
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// TODO: handle error.
	}
	defer resp.Body.Close()
}

func ExampleAuth_Sign() {
	ctx := context.Background()
	// On Compute Engine the default service account signs through IAM.
	a, err := autoauth.New(nil)
	if err != nil {
		// TODO: handle error.
	}
	sig, err := a.Sign(ctx, []byte("payload"))
	if err != nil {
		// TODO: handle error.
	}
	fmt.Println(sig)
}

// Storage signed URLs can be produced with any credentials autoauth resolves,
// including ones without a local private key.
func ExampleAuth_SignBytes_storage() {
	ctx := context.Background()
	a, err := autoauth.New(&autoauth.Config{
		Scopes: []string{"https://www.googleapis.com/auth/devstorage.read_only"},
	})
	if err != nil {
		// TODO: handle error.
	}
	creds, err := a.Credentials(ctx)
	if err != nil {
		// TODO: handle error.
	}
	client, err := storage.NewClient(ctx, option.WithTokenSource(a.TokenSource()))
	if err != nil {
		// TODO: handle error.
	}
	defer client.Close()
	url, err := client.Bucket("my-bucket").SignedURL("my-object", &storage.SignedURLOptions{
		GoogleAccessID: creds.ClientEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			return a.SignBytes(ctx, b)
		},
		Method:  http.MethodGet,
		Expires: time.Now().Add(15 * time.Minute),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		// TODO: handle error.
	}
	fmt.Println(url)
}
