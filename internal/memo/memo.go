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

// Package memo provides a lazily computed value that is shared by
// concurrent callers and kept only once it has been computed successfully.
package memo

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Value holds a lazily computed T. The zero value is ready to use.
//
// A Value is in one of three states: unset, pending (a computation is in
// flight and every caller waits on it) or set. A failed computation moves
// the Value back to unset so that the next call to Get tries again.
type Value[T any] struct {
	group singleflight.Group

	mu  sync.Mutex
	set bool
	val T
}

// Load returns the cached value and whether it has been set.
func (v *Value[T]) Load() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val, v.set
}

// Get returns the cached value, computing it with fn if it is unset. Callers
// that arrive while a computation is pending share its result. fn runs with
// the context of the caller that started the computation; other callers
// stop waiting when their own ctx is done. A panic in fn is returned as an
// error and leaves the Value unset.
func (v *Value[T]) Get(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if val, ok := v.Load(); ok {
		return val, nil
	}
	ch := v.group.DoChan("", func() (_ interface{}, err error) {
		// DoChan re-panics on its own goroutine, which no caller can recover.
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("memo: computation panicked: %v", r)
			}
		}()
		// Set between our Load and joining the group.
		if val, ok := v.Load(); ok {
			return val, nil
		}
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		v.val, v.set = val, true
		v.mu.Unlock()
		return val, nil
	})
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		val, _ := res.Val.(T)
		return val, nil
	}
}
