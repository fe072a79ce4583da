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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"cloud.google.com/go/autoauth/internal/credsfile"
	"cloud.google.com/go/autoauth/internal/trace"
	"google.golang.org/api/googleapi"
	iam "google.golang.org/api/iam/v1"
	"google.golang.org/api/option"
)

// Sign returns the base64 encoded RSA-SHA256 signature of data. When the
// credentials hold a private key the signature is computed locally;
// otherwise data is sent to the IAM signBlob API of the service account.
func (a *Auth) Sign(ctx context.Context, data []byte) (sig string, err error) {
	ctx = trace.StartSpan(ctx, "cloud.google.com/go/autoauth.Sign")
	defer func() { trace.EndSpan(ctx, err) }()

	creds, err := a.Credentials(ctx)
	if err != nil {
		return "", err
	}
	if creds.PrivateKey != "" {
		trace.Annotate(ctx, map[string]interface{}{"path": "local"}, "signing")
		return signLocal([]byte(creds.PrivateKey), data)
	}
	trace.Annotate(ctx, map[string]interface{}{"path": "remote"}, "signing")
	return a.signRemote(ctx, creds, data)
}

// SignBytes is like [Auth.Sign] but returns the raw signature.
func (a *Auth) SignBytes(ctx context.Context, data []byte) ([]byte, error) {
	sig, err := a.Sign(ctx, data)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return nil, fmt.Errorf("autoauth: malformed signature: %w", err)
	}
	return b, nil
}

func signLocal(key, data []byte) (string, error) {
	pk, err := credsfile.ParseKey(key)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, pk, crypto.SHA256, sum[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func (a *Auth) signRemote(ctx context.Context, creds *Credentials, data []byte) (string, error) {
	projectID, err := a.ProjectID(ctx)
	if err != nil {
		return "", err
	}
	if creds.ClientEmail == "" {
		return "", newError(ErrMissingClientEmail, "")
	}
	svc, err := a.iam.Get(ctx, a.newIAMService)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("projects/%s/serviceAccounts/%s", projectID, creds.ClientEmail)
	a.logger.DebugContext(ctx, "autoauth: signing remotely", "serviceAccount", name)
	resp, err := svc.Projects.ServiceAccounts.SignBlob(name, &iam.SignBlobRequest{
		BytesToSign: base64.StdEncoding.EncodeToString(data),
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", newRemoteSigningError(gerr)
		}
		return "", err
	}
	return resp.Signature, nil
}

func (a *Auth) newIAMService(ctx context.Context) (*iam.Service, error) {
	return iam.NewService(ctx,
		option.WithHTTPClient(a.bearerHTTPClient()),
		option.WithEndpoint(a.cfg.iamEndpoint()),
	)
}
