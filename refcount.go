/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gles

import "sync/atomic"

// RefCount tracks driver handle lifetime, not memory: the garbage collector
// owns the Go object, the count decides when the underlying driver resource
// gets torn down (for queue objects, when deallocation is enqueued). Embed it
// and call Init with the teardown hook. The embedding type then satisfies
// container.Referenced.
type RefCount struct {
	count  atomic.Int32
	onZero func()
}

// Init sets the count to one with the caller holding the initial reference.
func (r *RefCount) Init(onZero func()) {
	if !r.count.CompareAndSwap(0, 1) {
		abort("Init called on live refcount")
	}
	r.onZero = onZero
}

func (r *RefCount) Acquire() {
	if r.count.Add(1) <= 1 {
		abort("Acquire on dead object")
	}
}

func (r *RefCount) Release() {
	switch c := r.count.Add(-1); {
	case c == 0:
		if r.onZero != nil {
			r.onZero()
		}
	case c < 0:
		abort("Release on dead object")
	}
}

// Count returns the current reference count. Racy by nature, meant for tests
// and debug dumps.
func (r *RefCount) Count() int {
	return int(r.count.Load())
}
