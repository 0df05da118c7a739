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

	"goarrg.com/debug"
)

// testDriver fakes the GL sync/flush entry points. Fences signal either
// immediately on creation (the default, a GPU that is never behind) or
// manually via signalSync.
type testDriver struct {
	mu            sync.Mutex
	manualSignal  bool
	nextSync      FenceSync
	pending       map[FenceSync]chan struct{}
	deleted       []FenceSync
	serverWaits   []FenceSync
	flushes       int
	failFenceSync bool
}

func newTestDriver() *testDriver {
	return &testDriver{pending: map[FenceSync]chan struct{}{}}
}

func (d *testDriver) FenceSync() (FenceSync, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFenceSync {
		return 0, debug.Errorf("out of memory")
	}
	d.nextSync++
	s := d.nextSync
	done := make(chan struct{})
	if !d.manualSignal {
		close(done)
	}
	d.pending[s] = done
	return s, nil
}

func (d *testDriver) signalSync(s FenceSync) {
	d.mu.Lock()
	defer d.mu.Unlock()
	close(d.pending[s])
}

func (d *testDriver) DeleteSync(s FenceSync) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, s)
	d.deleted = append(d.deleted, s)
}

func (d *testDriver) ClientWaitSync(s FenceSync, flush bool, timeout time.Duration) SyncWaitStatus {
	d.mu.Lock()
	done, ok := d.pending[s]
	d.mu.Unlock()
	if !ok {
		return SyncWaitFailed
	}
	select {
	case <-done:
		return SyncWaitSatisfied
	case <-time.After(timeout):
		return SyncWaitTimeout
	}
}

func (d *testDriver) ServerWaitSync(s FenceSync) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serverWaits = append(d.serverWaits, s)
}

func (d *testDriver) SyncSignaled(s FenceSync) bool {
	d.mu.Lock()
	done, ok := d.pending[s]
	d.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func (d *testDriver) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
}

func (d *testDriver) flushCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

func (d *testDriver) deletedSyncs() []FenceSync {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]FenceSync(nil), d.deleted...)
}

func (d *testDriver) serverWaitedSyncs() []FenceSync {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]FenceSync(nil), d.serverWaits...)
}

// testShareGroup holds state common to every context sharing a driver, so a
// test can fail MakeCurrent on contexts it never got a handle on (such as the
// one a queue derives for itself).
type testShareGroup struct {
	mu          sync.Mutex
	failCurrent bool
}

func (g *testShareGroup) setFailCurrent(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failCurrent = fail
}

// testNativeContext fakes the window system boundary. All contexts in a
// share group report against the same driver.
type testNativeContext struct {
	driver *testDriver
	group  *testShareGroup

	mu             sync.Mutex
	current        int
	cleared        int
	destroyed      bool
	failNextShared bool
}

func newTestNativeContext() *testNativeContext {
	return &testNativeContext{driver: newTestDriver(), group: &testShareGroup{}}
}

func (c *testNativeContext) MakeCurrent() error {
	c.group.mu.Lock()
	fail := c.group.failCurrent
	c.group.mu.Unlock()
	if fail {
		return debug.Errorf("context lost")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	return nil
}

func (c *testNativeContext) ClearCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
}

func (c *testNativeContext) CreateShared() (NativeContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNextShared {
		c.failNextShared = false
		return nil, debug.Errorf("no display")
	}
	return &testNativeContext{driver: c.driver, group: c.group}, nil
}

func (c *testNativeContext) Driver() Driver {
	return c.driver
}

func (c *testNativeContext) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
}

// testCommandBuffer records replay/reset calls in order.
type testCommandBuffer struct {
	mu       sync.Mutex
	replays  int
	resets   int
	lockHeld bool
}

func (cb *testCommandBuffer) Replay(lock *ContextLock) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.replays++
	cb.lockHeld = lock.Held()
	return nil
}

func (cb *testCommandBuffer) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.resets++
}

// testQueueObject records its lifetime transitions.
type testQueueObject struct {
	refs  RefCount
	queue ObjectLifetimeQueue

	mu          sync.Mutex
	allocated   int
	deallocated int
	lockHeld    bool
}

func newTestQueueObject(queue ObjectLifetimeQueue) *testQueueObject {
	o := &testQueueObject{queue: queue}
	o.refs.Init(func() { queue.EnqueueObjectDeallocation(o) })
	o.PrepareAllocation()
	return o
}

func (o *testQueueObject) Acquire() { o.refs.Acquire() }
func (o *testQueueObject) Release() { o.refs.Release() }

func (o *testQueueObject) PrepareAllocation() {
	o.queue.EnqueueObjectAllocation(o)
}

func (o *testQueueObject) AllocateOnQueue(lock *ContextLock) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.allocated++
	o.lockHeld = lock.Held()
	return true
}

func (o *testQueueObject) DeallocateOnQueue(lock *ContextLock) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deallocated++
}

func (o *testQueueObject) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.allocated, o.deallocated
}
