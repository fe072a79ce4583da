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

// Package autoauth resolves Google credentials from whatever the caller has
// at hand and uses them to authorize requests and sign data.
//
// A [Config] names the credential source. In order of precedence:
//
//   - CredentialsJSON: the contents of a JSON credentials file.
//   - KeyFilename or KeyFile: a path to a JSON, PEM or P12 key. PEM and P12
//     keys need Email to be set.
//   - Nothing: Application Default Credentials are discovered from the
//     environment (GOOGLE_APPLICATION_CREDENTIALS, the gcloud well-known file
//     or the metadata server).
//
// Setting Token skips resolution entirely for [Auth.Token] and
// [Auth.Authorize].
//
// Resolution happens lazily, at most once at a time, and its successful result
// is kept for the lifetime of the [Auth]. A failed resolution is not kept; the
// next call tries again.
//
// # Signing
//
// [Auth.Sign] signs bytes with RSA-SHA256 using the service account private
// key when one is available. Credentials without a private key, such as those
// of a Compute Engine instance, are signed remotely through the IAM signBlob
// API, which needs a project ID and the service account email.
//
// # Errors
//
// Configuration problems are reported as [*Error] values whose Code can be
// compared with [errors.Is] against [ErrMissingScope],
// [ErrCredentialsUnavailable], [ErrMissingProjectID] and
// [ErrMissingClientEmail]. Failed signBlob calls are reported as
// [*RemoteSigningError].
package autoauth // import "cloud.google.com/go/autoauth"
