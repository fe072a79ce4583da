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

// Package environment answers which Google Cloud hosting platform the
// current process runs on. Every answer is probed at most once per
// [Detector] and remembered afterwards.
package environment

import (
	"context"
	"log/slog"
	"os"

	"cloud.google.com/go/autoauth/internal/memo"
	"cloud.google.com/go/compute/metadata"
	"github.com/googleapis/gax-go/v2/internallog"
	"golang.org/x/sync/errgroup"
)

// clusterNameAttribute is the instance attribute GKE sets on its nodes.
const clusterNameAttribute = "cluster-name"

// MetadataClient is the subset of [metadata.Client] used for probing.
type MetadataClient interface {
	OnGCEWithContext(ctx context.Context) bool
	InstanceAttributeValueWithContext(ctx context.Context, attr string) (string, error)
}

// Options configures a [Detector].
type Options struct {
	// Getenv looks up environment variables. Optional, defaults to
	// [os.Getenv].
	Getenv func(string) string
	// Metadata is used for the Compute Engine and Kubernetes Engine probes.
	// Optional, defaults to a [metadata.Client] built with Logger.
	Metadata MetadataClient
	// Logger is used for debug logging of probe results. Optional.
	Logger *slog.Logger
}

// Environment is a snapshot of every platform predicate.
type Environment struct {
	AppEngine       bool
	CloudFunction   bool
	ComputeEngine   bool
	ContainerEngine bool
}

// Detector probes the hosting platform. It is safe for concurrent use.
type Detector struct {
	getenv   func(string) string
	metadata MetadataClient
	logger   *slog.Logger

	appEngine       memo.Value[bool]
	cloudFunction   memo.Value[bool]
	computeEngine   memo.Value[bool]
	containerEngine memo.Value[bool]
}

// NewDetector returns a Detector configured with opts, which may be nil.
func NewDetector(opts *Options) *Detector {
	if opts == nil {
		opts = &Options{}
	}
	d := &Detector{
		getenv:   opts.Getenv,
		metadata: opts.Metadata,
		logger:   internallog.New(opts.Logger),
	}
	if d.getenv == nil {
		d.getenv = os.Getenv
	}
	if d.metadata == nil {
		d.metadata = metadata.NewWithOptions(&metadata.Options{Logger: opts.Logger})
	}
	return d
}

// OnAppEngine reports whether the process runs on App Engine.
func (d *Detector) OnAppEngine(ctx context.Context) bool {
	return d.probe(ctx, &d.appEngine, "app-engine", func(context.Context) (bool, error) {
		return d.getenv("GAE_SERVICE") != "" || d.getenv("GAE_MODULE_NAME") != "", nil
	})
}

// OnCloudFunction reports whether the process runs as a Cloud Function.
func (d *Detector) OnCloudFunction(ctx context.Context) bool {
	return d.probe(ctx, &d.cloudFunction, "cloud-function", func(context.Context) (bool, error) {
		if d.getenv("FUNCTION_NAME") != "" || d.getenv("FUNCTION_TARGET") != "" {
			return true, nil
		}
		// Second generation functions run on Cloud Run.
		return d.getenv("K_SERVICE") != "" && d.getenv("FUNCTION_SIGNATURE_TYPE") != "", nil
	})
}

// OnComputeEngine reports whether a metadata server is reachable.
func (d *Detector) OnComputeEngine(ctx context.Context) bool {
	return d.probe(ctx, &d.computeEngine, "compute-engine", func(ctx context.Context) (bool, error) {
		ok := d.metadata.OnGCEWithContext(ctx)
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return ok, nil
	})
}

// OnContainerEngine reports whether the instance belongs to a Kubernetes
// Engine cluster.
func (d *Detector) OnContainerEngine(ctx context.Context) bool {
	return d.probe(ctx, &d.containerEngine, "container-engine", func(ctx context.Context) (bool, error) {
		_, err := d.metadata.InstanceAttributeValueWithContext(ctx, clusterNameAttribute)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			return false, nil
		}
		return true, nil
	})
}

// Detect runs every probe concurrently and returns the results.
func (d *Detector) Detect(ctx context.Context) Environment {
	var env Environment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { env.AppEngine = d.OnAppEngine(gctx); return nil })
	g.Go(func() error { env.CloudFunction = d.OnCloudFunction(gctx); return nil })
	g.Go(func() error { env.ComputeEngine = d.OnComputeEngine(gctx); return nil })
	g.Go(func() error { env.ContainerEngine = d.OnContainerEngine(gctx); return nil })
	g.Wait()
	return env
}

// probe memoizes fn in v. A probe interrupted by ctx reports false and is
// tried again on the next call.
func (d *Detector) probe(ctx context.Context, v *memo.Value[bool], name string, fn func(context.Context) (bool, error)) bool {
	ok, err := v.Get(ctx, func(ctx context.Context) (bool, error) {
		ok, err := fn(ctx)
		if err != nil {
			return false, err
		}
		d.logger.DebugContext(ctx, "environment: probed platform", "platform", name, "result", ok)
		return ok, nil
	})
	if err != nil {
		d.logger.DebugContext(ctx, "environment: probe interrupted", "platform", name, "error", err)
		return false
	}
	return ok
}
