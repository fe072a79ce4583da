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
	"encoding/json"

	"google.golang.org/api/googleapi"
)

// ErrorCode is a stable identifier for an [Error].
type ErrorCode string

const (
	// CodeMissingScope means the credentials need OAuth2 scopes and none were
	// configured.
	CodeMissingScope ErrorCode = "MISSING_SCOPE"
	// CodeCredentialsUnavailable means no service account email or private
	// key could be derived from the resolved credentials.
	CodeCredentialsUnavailable ErrorCode = "CREDENTIALS_UNAVAILABLE"
	// CodeMissingProjectID means remote signing was needed but no project ID
	// is known.
	CodeMissingProjectID ErrorCode = "MISSING_PROJECT_ID"
	// CodeMissingClientEmail means remote signing was needed but the
	// credentials carry no service account email.
	CodeMissingClientEmail ErrorCode = "MISSING_CLIENT_EMAIL"
)

// Sentinel errors for use with [errors.Is]. Errors returned by this package
// are distinct values that match these by Code.
var (
	ErrMissingScope           = &Error{Code: CodeMissingScope, Message: "scopes are required for these credentials"}
	ErrCredentialsUnavailable = &Error{Code: CodeCredentialsUnavailable, Message: "could not get credentials without a JSON, PEM or P12 key file"}
	ErrMissingProjectID       = &Error{Code: CodeMissingProjectID, Message: "a project ID is required"}
	ErrMissingClientEmail     = &Error{Code: CodeMissingClientEmail, Message: "a service account email is required"}
)

// Error is a user-correctable configuration error.
type Error struct {
	// Code identifies the kind of error.
	Code ErrorCode
	// Message is a human readable description.
	Message string
}

func newError(sentinel *Error, message string) *Error {
	if message == "" {
		message = sentinel.Message
	}
	return &Error{Code: sentinel.Code, Message: message}
}

func (e *Error) Error() string {
	return "autoauth: " + e.Message
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// RemoteSigningError is returned by [Auth.Sign] when the signBlob API answers
// with a non-2xx status.
type RemoteSigningError struct {
	// Message is the server supplied error message. When the response body
	// is not a JSON error object, Message is the body verbatim.
	Message string
	// Code is the "code" field of the error object, or the HTTP status code
	// when the body carries none.
	Code int
	// Details holds every field of the error object except "message".
	Details map[string]interface{}
	// Body is the raw response body.
	Body string

	err *googleapi.Error
}

func (e *RemoteSigningError) Error() string {
	return "autoauth: remote signing failed: " + e.Message
}

// Unwrap returns the underlying [*googleapi.Error].
func (e *RemoteSigningError) Unwrap() error {
	return e.err
}

func newRemoteSigningError(gerr *googleapi.Error) *RemoteSigningError {
	e := &RemoteSigningError{
		Message: gerr.Message,
		Code:    gerr.Code,
		Body:    gerr.Body,
		err:     gerr,
	}
	var reply struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(gerr.Body), &reply); err == nil && len(reply.Error) > 0 {
		var fields map[string]interface{}
		var s string
		if err := json.Unmarshal(reply.Error, &fields); err == nil {
			if m, ok := fields["message"].(string); ok && e.Message == "" {
				e.Message = m
			}
			delete(fields, "message")
			e.Details = fields
		} else if err := json.Unmarshal(reply.Error, &s); err == nil && e.Message == "" {
			e.Message = s
		}
	}
	if e.Message == "" {
		e.Message = gerr.Body
	}
	return e
}
