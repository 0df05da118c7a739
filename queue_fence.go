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
	"time"
)

type WaitResult int

const (
	WaitSuccess WaitResult = iota
	WaitTimeout
	WaitDeviceLost
)

func (r WaitResult) String() string {
	switch r {
	case WaitSuccess:
		return "WaitSuccess"
	case WaitTimeout:
		return "WaitTimeout"
	case WaitDeviceLost:
		return "WaitDeviceLost"
	}
	abort("Unknown WaitResult: %d", r)
	return ""
}

type FenceState int

const (
	// FenceUnsignaled: no driver fence exists yet and nothing signaled.
	FenceUnsignaled FenceState = iota
	// FenceIssued: a driver fence is in the command stream, not yet
	// observed signaled.
	FenceIssued
	// FenceSignaled is terminal, reached either by observing the driver
	// fence or directly via SignalClient.
	FenceSignaled
)

func (s FenceState) String() string {
	switch s {
	case FenceUnsignaled:
		return "FenceUnsignaled"
	case FenceIssued:
		return "FenceIssued"
	case FenceSignaled:
		return "FenceSignaled"
	}
	abort("Unknown FenceState: %d", s)
	return ""
}

// QueueFence is a hybrid CPU/GPU fence. A driver fence can only be created
// with a context current and is ordered against the surrounding command
// stream, so a fence signaled from an arbitrary thread cannot create one
// synchronously; instead creation is deferred to the signal point on the
// queue thread (SignalServer) while any thread may already be waiting. The
// wait is therefore two phase: first for issuance, then for the driver fence
// itself. SignalClient skips the GPU entirely for paths where completion is
// immediate or assumed.
//
// The fence is a QueueObject: the driver fence is deleted on its queue with a
// locked context once the last reference drops.
type QueueFence struct {
	refs  RefCount
	queue ObjectLifetimeQueue

	mu       sync.Mutex
	fence    FenceSync
	signaled bool
	issued   chan struct{}
	done     chan struct{}
}

var _ QueueObject = (*QueueFence)(nil)

// NewQueueFence makes an unsignaled fence managed by queue. The caller holds
// the initial reference and drops it with Release.
func NewQueueFence(queue ObjectLifetimeQueue) *QueueFence {
	f := &QueueFence{
		queue:  queue,
		issued: make(chan struct{}),
		done:   make(chan struct{}),
	}
	f.refs.Init(func() { queue.EnqueueObjectDeallocation(f) })
	f.PrepareAllocation()
	return f
}

func (f *QueueFence) Acquire() {
	f.refs.Acquire()
}

func (f *QueueFence) Release() {
	f.refs.Release()
}

func (f *QueueFence) PrepareAllocation() {
	f.queue.EnqueueObjectAllocation(f)
}

// AllocateOnQueue is a no-op: the driver fence is created at the signal
// point, not ahead of it.
func (f *QueueFence) AllocateOnQueue(lock *ContextLock) bool {
	return true
}

func (f *QueueFence) DeallocateOnQueue(lock *ContextLock) {
	f.mu.Lock()
	fence := f.fence
	f.fence = 0
	f.mu.Unlock()
	if fence != 0 {
		lock.Driver().DeleteSync(fence)
	}
}

// Signal inserts a driver fence when the caller holds a context lock and
// falls back to a CPU only signal otherwise.
func (f *QueueFence) Signal(lock *ContextLock) {
	if lock.Held() {
		f.SignalServer(lock)
	} else {
		f.SignalClient()
	}
}

// SignalServer creates the driver fence in the locked context's command
// stream and releases issuance waiters. Idempotent once issued or signaled.
func (f *QueueFence) SignalServer(lock *ContextLock) {
	if !lock.Held() {
		abort("SignalServer without a locked context")
	}
	f.mu.Lock()
	if f.signaled || f.fence != 0 {
		f.mu.Unlock()
		return
	}
	fence, err := lock.Driver().FenceSync()
	if err != nil {
		f.mu.Unlock()
		instance.logger.EPrintf("Failed to create driver fence, signaling client side: %s", err)
		f.SignalClient()
		return
	}
	f.fence = fence
	close(f.issued)
	f.mu.Unlock()
}

// SignalClient marks the fence signaled without any driver involvement.
// Idempotent.
func (f *QueueFence) SignalClient() {
	f.mu.Lock()
	if f.signaled {
		f.mu.Unlock()
		return
	}
	f.signaled = true
	close(f.done)
	if f.fence == 0 {
		// Nothing was ever issued; wake issuance waiters so they observe
		// the client signal.
		close(f.issued)
	}
	f.mu.Unlock()
}

// Wait blocks until the fence signals, up to timeout. The issuance wait and
// the driver wait share the one timeout budget: time spent waiting for the
// fence to be issued is deducted from the driver wait. The driver wait runs
// on the queue thread since fence waiting needs a context. Returns
// WaitDeviceLost if the owning queue can no longer execute work.
//
// Must not be called from a queue callback on the fence's own queue.
func (f *QueueFence) Wait(timeout time.Duration) WaitResult {
	f.mu.Lock()
	if f.signaled {
		f.mu.Unlock()
		return WaitSuccess
	}
	fence := f.fence
	f.mu.Unlock()

	remaining := timeout
	if fence == 0 {
		start := time.Now()
		select {
		case <-f.issued:
		case <-time.After(remaining):
			return WaitTimeout
		}
		f.mu.Lock()
		if f.signaled {
			f.mu.Unlock()
			return WaitSuccess
		}
		fence = f.fence
		f.mu.Unlock()

		elapsed := time.Since(start)
		if elapsed >= timeout {
			return WaitTimeout
		}
		remaining = timeout - elapsed
	}

	executed := false
	status := SyncWaitFailed
	f.queue.EnqueueObjectCallbackAndWait(f, func(lock *ContextLock) bool {
		executed = true
		status = lock.Driver().ClientWaitSync(fence, true, remaining)
		return status == SyncWaitSatisfied
	})
	if !executed {
		return WaitDeviceLost
	}
	switch status {
	case SyncWaitSatisfied:
		f.markSignaled()
		return WaitSuccess
	case SyncWaitTimeout:
		return WaitTimeout
	default:
		return WaitDeviceLost
	}
}

// WaitOnServer inserts a GPU side wait into the locked context's command
// stream instead of blocking the CPU, ordering GPU work across queues. The
// driver API has no server side timeout, so timeout only bounds the earlier
// wait for issuance.
func (f *QueueFence) WaitOnServer(lock *ContextLock, timeout time.Duration) WaitResult {
	if !lock.Held() {
		abort("WaitOnServer without a locked context")
	}
	f.mu.Lock()
	fence := f.fence
	signaled := f.signaled
	f.mu.Unlock()

	if fence == 0 {
		if signaled {
			return WaitSuccess
		}
		select {
		case <-f.issued:
		case <-time.After(timeout):
			return WaitTimeout
		}
		f.mu.Lock()
		fence = f.fence
		f.mu.Unlock()
		if fence == 0 {
			// Client signaled, nothing for the GPU to wait on.
			return WaitSuccess
		}
	}
	lock.Driver().ServerWaitSync(fence)
	return WaitSuccess
}

// QueryState polls without blocking on GPU completion. A signaled result is
// latched: once observed, later calls return it from cache without touching
// the driver.
//
// On a lost queue the driver query cannot run and an issued fence keeps
// reporting FenceIssued; check the owning queue's Err to tell device loss
// apart from still pending.
func (f *QueueFence) QueryState() FenceState {
	f.mu.Lock()
	if f.signaled {
		f.mu.Unlock()
		return FenceSignaled
	}
	fence := f.fence
	f.mu.Unlock()

	if fence == 0 {
		return FenceUnsignaled
	}

	signaled := false
	f.queue.EnqueueObjectCallbackAndWait(f, func(lock *ContextLock) bool {
		signaled = lock.Driver().SyncSignaled(fence)
		return signaled
	})
	if signaled {
		f.markSignaled()
		return FenceSignaled
	}
	return FenceIssued
}

// Done returns a channel closed once the fence reaches FenceSignaled via
// SignalClient or an observed driver signal (Wait/QueryState). A fence whose
// driver signal nobody observes never closes it; poll with QueryState when
// select integration matters.
func (f *QueueFence) Done() <-chan struct{} {
	return f.done
}

func (f *QueueFence) markSignaled() {
	f.mu.Lock()
	if !f.signaled {
		f.signaled = true
		close(f.done)
	}
	f.mu.Unlock()
}
