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

import "time"

// FenceSync is an opaque driver fence handle (GLsync). Zero means none.
type FenceSync uintptr

// SyncWaitStatus is the outcome of a client side driver fence wait.
type SyncWaitStatus int

const (
	// SyncWaitSatisfied covers both GL_ALREADY_SIGNALED and
	// GL_CONDITION_SATISFIED.
	SyncWaitSatisfied SyncWaitStatus = iota
	SyncWaitTimeout
	SyncWaitFailed
)

func (s SyncWaitStatus) String() string {
	switch s {
	case SyncWaitSatisfied:
		return "SyncWaitSatisfied"
	case SyncWaitTimeout:
		return "SyncWaitTimeout"
	case SyncWaitFailed:
		return "SyncWaitFailed"
	}
	abort("Unknown SyncWaitStatus: %d", s)
	return ""
}

// Driver is the set of GL ES 3 entry points this core needs. Every method
// requires the owning context to be current, which callers prove by holding a
// ContextLock; nothing outside a locked queue thread may touch it.
type Driver interface {
	// FenceSync inserts a fence into the command stream (glFenceSync).
	FenceSync() (FenceSync, error)
	// DeleteSync destroys a fence handle (glDeleteSync).
	DeleteSync(sync FenceSync)
	// ClientWaitSync blocks the calling thread until the fence signals or
	// the timeout expires (glClientWaitSync). flush requests
	// GL_SYNC_FLUSH_COMMANDS_BIT so the fence is guaranteed to eventually
	// signal.
	ClientWaitSync(sync FenceSync, flush bool, timeout time.Duration) SyncWaitStatus
	// ServerWaitSync inserts a GPU side wait without blocking the CPU
	// (glWaitSync). The driver API has no server timeout.
	ServerWaitSync(sync FenceSync)
	// SyncSignaled polls GL_SYNC_STATUS without blocking (glGetSynciv).
	SyncSignaled(sync FenceSync) bool
	// Flush guarantees visibility of submitted commands to other contexts
	// in the share group (glFlush).
	Flush()
}

// CommandBuffer is a previously recorded, replayable command stream. The
// recording side lives above this package; the queue only replays buffers on
// its thread and resets them afterwards so state never leaks between buffers.
type CommandBuffer interface {
	// Replay decodes and issues the recorded commands against the driver.
	Replay(lock *ContextLock) error
	// Reset drops recorded state and releases resources kept alive
	// exclusively by the buffer.
	Reset()
}

// NativeContext is the platform window system boundary (EGL/WGL/GLX). One
// native context is usable from a single thread at a time, PlatformContext
// enforces that.
type NativeContext interface {
	// MakeCurrent binds the context to the calling thread.
	MakeCurrent() error
	// ClearCurrent unbinds the context from the calling thread.
	ClearCurrent()
	// CreateShared makes a new context in the same share group, used to
	// give each queue thread its own context over shared resources.
	CreateShared() (NativeContext, error)
	// Driver returns the GL entry points of this context's share group.
	Driver() Driver
	// Destroy releases the native context.
	Destroy()
}
