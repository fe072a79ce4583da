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

/*
Command autoauth resolves Google application credentials the way the
cloud.google.com/go/autoauth package does and prints what it finds.

Usage:

	autoauth token [flags]
	autoauth project [flags]
	autoauth credentials [flags]
	autoauth sign [flags] [data]
	autoauth env

Flags may also be read from a YAML file given with --config:

	key_file: service-account.json
	scopes:
	- https://www.googleapis.com/auth/cloud-platform
	project_id: my-project

Flags given on the command line override the file.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "autoauth: %v\n", err)
		os.Exit(1)
	}
}
