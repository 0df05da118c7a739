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
	"math"
	"runtime"
	"sync"
	"time"

	"goarrg.com/rhi/gles/internal/container"
	"goarrg.com/rhi/gles/internal/util"
)

type QueueType uint32

const (
	// QueueTypeSubmission executes command buffers and callbacks.
	QueueTypeSubmission QueueType = iota
	// QueueTypePresentation runs presentation callbacks only. It may block
	// for long stretches on vsync so it never shares a thread with
	// submission work, and it owns no context of its own: entries bring an
	// exclusive context when they need one.
	QueueTypePresentation
)

func (t QueueType) String() string {
	switch t {
	case QueueTypeSubmission:
		return "QueueTypeSubmission"
	case QueueTypePresentation:
		return "QueueTypePresentation"
	}
	abort("Unknown QueueType: %d", t)
	return ""
}

const waitForever = time.Duration(math.MaxInt64)

// queueEntry is one unit of queued work: either a command buffer batch or a
// callback, with fence wait/signal lists and an optional CPU completion
// handle. Entries are pooled; the embedded node links them into the FIFO
// without allocating.
type queueEntry struct {
	node container.Node[*queueEntry]

	// discardable entries may be dropped during shutdown or device loss.
	// Object lifetime entries are never discardable, dropping them would
	// leak driver handles.
	discardable bool

	// exclusiveContext, when set, is locked exclusively around execution
	// instead of the queue context.
	exclusiveContext *PlatformContext

	waitFences     []*QueueFence
	commandBuffers []CommandBuffer
	callback       func(lock *ContextLock)
	signalFences   []*QueueFence
	signalHandle   chan<- struct{}
}

// setExclusiveContext pins ctx until the entry completes or is discarded, so
// releasing a surface with presents in flight is safe.
func (e *queueEntry) setExclusiveContext(ctx *PlatformContext) {
	if ctx != nil {
		ctx.Acquire()
	}
	e.exclusiveContext = ctx
}

func (e *queueEntry) releaseExclusiveContext() {
	if e.exclusiveContext != nil {
		e.exclusiveContext.Release()
		e.exclusiveContext = nil
	}
}

// Queue serializes all driver touching work onto one locked OS thread in
// strict FIFO order. Two instances typically exist per context: submission
// and presentation. Cross queue ordering goes through shared fences.
type Queue struct {
	noCopy        util.NoCopy
	queueType     QueueType
	sharedContext *PlatformContext

	mu            sync.Mutex
	workPending   *sync.Cond
	workCompleted *sync.Cond
	running       bool
	executing     bool
	lost          bool
	threadExited  bool
	entries       container.List[*queueEntry]

	// The pool has its own mutex so entry recycling never contends with
	// enqueue/dequeue on the queue mutex.
	poolMu    sync.Mutex
	entryPool container.Pool[queueEntry]

	exited chan struct{}
}

var _ ObjectLifetimeQueue = (*Queue)(nil)

// NewQueue spawns the queue thread. Submission queues derive their own
// context from sharedContext's share group. Presentation queues own no
// context but still pin the share group alive for entries that bring an
// exclusive context of their own.
func NewQueue(queueType QueueType, sharedContext *PlatformContext, cfg Config) *Queue {
	if sharedContext == nil {
		abort("nil shared context")
	}
	cfg.validate()
	q := &Queue{
		queueType:     queueType,
		sharedContext: sharedContext,
		running:       true,
		entryPool:     container.NewPool[queueEntry](int(cfg.QueueEntryPoolMinFree), int(cfg.QueueEntryPoolMaxFree)),
		exited:        make(chan struct{}),
	}
	q.noCopy.Init()
	q.workPending = sync.NewCond(&q.mu)
	q.workCompleted = sync.NewCond(&q.mu)
	q.entryPool.Construct = func(e *queueEntry) { e.node.Value = e }
	sharedContext.Acquire()
	go q.run()
	return q
}

// Destroy stops the queue and joins its thread. Already queued object
// lifetime entries still execute; discardable entries are dropped with their
// fences client signaled and handles closed so no waiter hangs.
func (q *Queue) Destroy() {
	q.noCopy.Check()
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		abort("Destroy called on a stopped queue")
	}
	q.running = false
	q.workPending.Signal()
	q.mu.Unlock()
	<-q.exited

	q.poolMu.Lock()
	q.entryPool.Drain()
	q.poolMu.Unlock()
	q.sharedContext.Release()
	q.noCopy.Close()
}

// EnqueueCommandBuffers appends a FIFO entry executing command buffers after
// waitFences are signaled, then signaling signalFences and closing
// signalHandle. Non blocking. Not valid on presentation queues or once the
// queue is shutting down.
func (q *Queue) EnqueueCommandBuffers(waitFences []*QueueFence, commandBuffers []CommandBuffer,
	signalFences []*QueueFence, signalHandle chan<- struct{},
) {
	q.noCopy.Check()
	if q.queueType == QueueTypePresentation {
		abort("EnqueueCommandBuffers on a presentation queue")
	}
	e := q.allocateEntry()
	e.discardable = true
	e.waitFences = append(e.waitFences, waitFences...)
	e.commandBuffers = append(e.commandBuffers, commandBuffers...)
	e.signalFences = append(e.signalFences, signalFences...)
	e.signalHandle = signalHandle
	q.enqueue(e, false)
}

// EnqueueCallback appends a FIFO entry running callback, optionally locking
// exclusiveContext instead of the queue context. Non blocking.
func (q *Queue) EnqueueCallback(exclusiveContext *PlatformContext, waitFences []*QueueFence,
	callback func(lock *ContextLock), signalFences []*QueueFence, signalHandle chan<- struct{},
) {
	q.noCopy.Check()
	e := q.allocateEntry()
	e.discardable = true
	e.setExclusiveContext(exclusiveContext)
	e.waitFences = append(e.waitFences, waitFences...)
	e.callback = callback
	e.signalFences = append(e.signalFences, signalFences...)
	e.signalHandle = signalHandle
	q.enqueue(e, false)
}

// Err reports why the queue can no longer execute work, nil while healthy.
// Lost is permanent; the only recovery is a new queue over a new context.
func (q *Queue) Err() error {
	q.noCopy.Check()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.lost {
		return ErrorDeviceLost{}
	}
	return nil
}

// WaitUntilIdle blocks until the queue is empty and not mid execution.
// Returns false if the queue was lost and the wait can never complete.
func (q *Queue) WaitUntilIdle() bool {
	q.noCopy.Check()
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.lost {
			return false
		}
		if !q.running || (q.entries.Empty() && !q.executing) {
			return true
		}
		q.workCompleted.Wait()
	}
}

func (q *Queue) EnqueueObjectAllocation(obj QueueObject) {
	q.noCopy.Check()
	e := q.allocateEntry()
	e.callback = func(lock *ContextLock) {
		if !obj.AllocateOnQueue(lock) {
			instance.logger.EPrintf("Failed to allocate %T on queue", obj)
		}
	}
	q.enqueue(e, true)
}

func (q *Queue) EnqueueObjectDeallocation(obj QueueObject) {
	q.noCopy.Check()
	e := q.allocateEntry()
	e.callback = func(lock *ContextLock) {
		obj.DeallocateOnQueue(lock)
	}
	q.enqueue(e, true)
}

func (q *Queue) EnqueueObjectCallback(obj QueueObject, callback func(lock *ContextLock)) {
	q.noCopy.Check()
	e := q.allocateEntry()
	e.callback = func(lock *ContextLock) {
		callback(lock)
		runtime.KeepAlive(obj)
	}
	q.enqueue(e, true)
}

func (q *Queue) EnqueueObjectCallbackWithContext(obj QueueObject, exclusiveContext *PlatformContext, callback func(lock *ContextLock)) {
	q.noCopy.Check()
	e := q.allocateEntry()
	e.setExclusiveContext(exclusiveContext)
	e.callback = func(lock *ContextLock) {
		callback(lock)
		runtime.KeepAlive(obj)
	}
	q.enqueue(e, true)
}

// EnqueueObjectCallbackAndWait blocks until the queue thread has executed
// callback. Must not be called from within a queue callback, the queue
// executes one entry at a time and would deadlock.
func (q *Queue) EnqueueObjectCallbackAndWait(obj QueueObject, callback func(lock *ContextLock) bool) bool {
	q.noCopy.Check()
	result := false
	done := make(chan struct{})
	e := q.allocateEntry()
	e.callback = func(lock *ContextLock) {
		if lock != nil {
			result = callback(lock)
		}
		runtime.KeepAlive(obj)
	}
	e.signalHandle = done
	q.enqueue(e, true)
	<-done
	return result
}

func (q *Queue) allocateEntry() *queueEntry {
	q.poolMu.Lock()
	e := q.entryPool.Allocate()
	q.poolMu.Unlock()
	return e
}

func (q *Queue) recycleEntry(e *queueEntry) {
	q.poolMu.Lock()
	q.entryPool.Release(e)
	q.poolMu.Unlock()
}

func (q *Queue) enqueue(e *queueEntry, critical bool) {
	q.mu.Lock()
	if !q.running && !critical {
		q.mu.Unlock()
		abort("Enqueue on a stopped queue")
	}
	if q.lost || q.threadExited {
		// No thread left to run this. Complete it as discarded so waiters
		// never hang; on a lost device the handles are gone anyway.
		q.mu.Unlock()
		q.completeDiscarded(e)
		return
	}
	q.entries.PushBackNode(&e.node)
	q.workPending.Signal()
	q.mu.Unlock()
}

// completeDiscarded drops an entry's payload but still wakes everything
// observing it: signal fences flip client side and the handle closes.
func (q *Queue) completeDiscarded(e *queueEntry) {
	for _, f := range e.signalFences {
		f.SignalClient()
	}
	if e.signalHandle != nil {
		close(e.signalHandle)
	}
	e.releaseExclusiveContext()
	q.recycleEntry(e)
}

func (q *Queue) markLost() {
	q.mu.Lock()
	q.lost = true
	q.workCompleted.Broadcast()
	q.mu.Unlock()
}

// run is the queue thread. It is the only place a context belonging to this
// queue is ever current, which is what makes the rest of the API safe to call
// from any goroutine.
func (q *Queue) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(q.exited)

	// Submission queues keep a context of their own for their lifetime.
	// Deriving it up front keeps runtime behavior predictable and makes
	// context errors show up at queue creation, not first submit.
	var queueContext *PlatformContext
	if q.queueType != QueueTypePresentation {
		ctx, err := q.sharedContext.NewShared()
		if err != nil {
			instance.logger.EPrintf("Failed to create queue context, queue is lost: %s", err)
			q.markLost()
		} else {
			queueContext = ctx
			defer queueContext.Release()
		}
	}

	for {
		q.mu.Lock()
		for q.running && q.entries.Empty() {
			q.workCompleted.Broadcast()
			q.workPending.Wait()
		}
		node := q.entries.PopFront()
		if node == nil {
			// Shutting down with an empty queue.
			q.threadExited = true
			q.workCompleted.Broadcast()
			q.mu.Unlock()
			return
		}
		e := node.Value
		discard := q.lost || (!q.running && e.discardable)
		q.executing = true
		q.mu.Unlock()

		if discard {
			q.completeDiscarded(e)
		} else {
			q.executeEntry(e, queueContext)
		}

		q.mu.Lock()
		q.executing = false
		q.workCompleted.Broadcast()
		q.mu.Unlock()
	}
}

func (q *Queue) executeEntry(e *queueEntry, queueContext *PlatformContext) {
	var lock *ContextLock
	switch {
	case e.exclusiveContext != nil:
		l, err := e.exclusiveContext.Lock(true)
		if err != nil {
			instance.logger.EPrintf("Failed to lock exclusive context, queue is lost: %s", err)
			q.markLost()
			q.completeDiscarded(e)
			return
		}
		lock = l
	case queueContext != nil:
		l, err := queueContext.Lock(false)
		if err != nil {
			instance.logger.EPrintf("Failed to lock queue context, queue is lost: %s", err)
			q.markLost()
			q.completeDiscarded(e)
			return
		}
		lock = l
	}

	for _, f := range e.waitFences {
		if lock != nil {
			// GPU side wait, does not stall this thread.
			f.WaitOnServer(lock, waitForever)
		} else {
			f.Wait(waitForever)
		}
	}

	if len(e.commandBuffers) > 0 {
		q.executeCommandBuffers(lock, e.commandBuffers)
	}
	if e.callback != nil {
		e.callback(lock)
	}

	for _, f := range e.signalFences {
		f.Signal(lock)
	}
	if e.signalHandle != nil {
		close(e.signalHandle)
	}

	if lock != nil {
		lock.Unlock()
	}
	e.releaseExclusiveContext()
	q.recycleEntry(e)
}

func (q *Queue) executeCommandBuffers(lock *ContextLock, commandBuffers []CommandBuffer) {
	if lock == nil {
		abort("command buffer execution without a locked context")
	}
	for _, cb := range commandBuffers {
		if err := cb.Replay(lock); err != nil {
			instance.logger.EPrintf("Failed to replay command buffer: %s", err)
		}
		// Clear recorded state so buffers stay isolated from each other.
		cb.Reset()
	}
	// Flush so presents on other contexts in the share group observe the
	// results.
	lock.Driver().Flush()
}
