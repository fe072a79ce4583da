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

package credsfile

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/pkcs12"
)

// p12Password is the fixed password Google uses for every generated P12
// service account key.
const p12Password = "notasecret"

// Key encodings recognized by [DecodeKey].
const (
	KeyEncodingPEM     = "pem"
	KeyEncodingP12     = "p12"
	KeyEncodingUnknown = "unknown"
)

// DecodeKey returns the PEM encoding of the private key held in b along with
// the encoding it was found in. PEM input is returned as is. P12 input is
// decoded with the standard Google password and re-encoded as a PKCS8 PEM
// block. Input that is neither is returned unchanged with
// KeyEncodingUnknown; it is left to the consumer of the key to reject it.
func DecodeKey(b []byte) ([]byte, string) {
	if block, _ := pem.Decode(b); block != nil {
		return b, KeyEncodingPEM
	}
	pk, _, err := pkcs12.Decode(b, p12Password)
	if err != nil {
		return b, KeyEncodingUnknown
	}
	der, err := x509.MarshalPKCS8PrivateKey(pk)
	if err != nil {
		return b, KeyEncodingUnknown
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), KeyEncodingP12
}

// ParseKey converts the binary contents of a private key file to an
// *rsa.PrivateKey. It detects whether the private key is in a PEM container or
// not. If so, it extracts the private key from PEM container before
// conversion. It only supports PEM containers with no passphrase.
func ParseKey(key []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block != nil {
		key = block.Bytes
	}
	parsedKey, err := x509.ParsePKCS8PrivateKey(key)
	if err != nil {
		parsedKey, err = x509.ParsePKCS1PrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("credsfile: private key should be a PEM or plain PKCS1 or PKCS8: %w", err)
		}
	}
	parsed, ok := parsedKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("credsfile: private key is invalid")
	}
	return parsed, nil
}
