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

import (
	"sync"

	"goarrg.com/debug"
	"goarrg.com/rhi/gles/internal/util"
)

// PlatformContext serializes access to one NativeContext. Lock makes the
// context current and returns a ContextLock; the guard is the capability
// proof for driver calls, every API that touches the driver takes one instead
// of asserting on ambient thread state. The context is reference counted so
// it outlives every holder, including queue threads mid teardown.
type PlatformContext struct {
	noCopy util.NoCopy
	refs   RefCount
	native NativeContext
	mu     sync.Mutex
}

// NewPlatformContext wraps a native context. The caller holds the initial
// reference and drops it with Release.
func NewPlatformContext(native NativeContext) *PlatformContext {
	if native == nil {
		abort("nil native context")
	}
	c := &PlatformContext{native: native}
	c.noCopy.Init()
	c.refs.Init(func() {
		c.native.Destroy()
		c.noCopy.Close()
	})
	return c
}

// NewShared creates a PlatformContext over a new native context in the same
// share group. Queue threads use this to get a context of their own while
// still seeing shared resources.
func (c *PlatformContext) NewShared() (*PlatformContext, error) {
	c.noCopy.Check()
	native, err := c.native.CreateShared()
	if err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to create shared context")
	}
	return NewPlatformContext(native), nil
}

func (c *PlatformContext) Acquire() {
	c.noCopy.Check()
	c.refs.Acquire()
}

func (c *PlatformContext) Release() {
	c.noCopy.Check()
	c.refs.Release()
}

// Lock blocks until the context is available, makes it current on the calling
// thread and returns the guard. Exclusive locks clear the context from the
// thread on unlock; thread locks leave it bound for cheap relocking by the
// same thread (the queue thread's steady state). Nested use from code already
// holding the guard passes the guard along instead of relocking.
func (c *PlatformContext) Lock(exclusive bool) (*ContextLock, error) {
	c.noCopy.Check()
	c.mu.Lock()
	if err := c.native.MakeCurrent(); err != nil {
		c.mu.Unlock()
		return nil, debug.ErrorWrapf(err, "Failed to make context current")
	}
	return &ContextLock{ctx: c, exclusive: exclusive, held: true}, nil
}

// ContextLock proves the calling goroutine has its PlatformContext current.
// Driver touching operations take it as a parameter. Not reusable after
// Unlock.
type ContextLock struct {
	ctx       *PlatformContext
	exclusive bool
	held      bool
}

func (l *ContextLock) Held() bool {
	return l != nil && l.held
}

// Context returns the locked platform context.
func (l *ContextLock) Context() *PlatformContext {
	if !l.Held() {
		abort("use of released context lock")
	}
	return l.ctx
}

// Driver returns the locked context's driver entry points.
func (l *ContextLock) Driver() Driver {
	if !l.Held() {
		abort("use of released context lock")
	}
	return l.ctx.native.Driver()
}

func (l *ContextLock) Unlock() {
	if !l.Held() {
		abort("unlock of released context lock")
	}
	if l.exclusive {
		l.ctx.native.ClearCurrent()
	}
	l.held = false
	l.ctx.mu.Unlock()
}
