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

// QueueObject is an object whose driver resource may only be allocated and
// freed with a locked context on the queue thread. Any goroutine constructs
// the Go wrapper immediately; the driver calls are deferred through an
// ObjectLifetimeQueue.
//
// Implementations must be immutable after creation or otherwise thread-safe,
// and must not issue driver calls anywhere but in the lifetime callbacks and
// callbacks enqueued through the queue. A typical wrapper:
//
//	type texture struct {
//		refs  gles.RefCount
//		queue gles.ObjectLifetimeQueue
//		id    uint32
//	}
//
//	func newTexture(queue gles.ObjectLifetimeQueue) *texture {
//		t := &texture{queue: queue}
//		t.refs.Init(func() { queue.EnqueueObjectDeallocation(t) })
//		t.PrepareAllocation()
//		return t
//	}
//
//	func (t *texture) PrepareAllocation() { t.queue.EnqueueObjectAllocation(t) }
//	func (t *texture) AllocateOnQueue(lock *gles.ContextLock) bool { ... }
//	func (t *texture) DeallocateOnQueue(lock *gles.ContextLock)    { ... }
type QueueObject interface {
	// PrepareAllocation enqueues AllocateOnQueue. Must be called exactly
	// once, after the constructor has returned.
	PrepareAllocation()

	// AllocateOnQueue runs once on the queue thread before any later
	// queued command can reference the object. Returns false if the driver
	// resource could not be created.
	AllocateOnQueue(lock *ContextLock) bool

	// DeallocateOnQueue runs once on the queue thread, always after
	// AllocateOnQueue. No use of the object follows it.
	DeallocateOnQueue(lock *ContextLock)
}

// ObjectLifetimeQueue defers object lifetime work onto the thread owning the
// context. All enqueue operations are non blocking except
// EnqueueObjectCallbackAndWait. Lifetime entries always run, even while the
// queue is shutting down, since dropping them would leak driver handles.
//
// Enqueued closures keep their object alive for the garbage collector; the
// object's RefCount governs only when the driver handle teardown is enqueued.
type ObjectLifetimeQueue interface {
	// EnqueueObjectAllocation schedules obj.AllocateOnQueue.
	EnqueueObjectAllocation(obj QueueObject)

	// EnqueueObjectDeallocation schedules obj.DeallocateOnQueue. After this
	// the queue makes no further use of obj.
	EnqueueObjectDeallocation(obj QueueObject)

	// EnqueueObjectCallback schedules a fire and forget callback with a
	// locked context.
	EnqueueObjectCallback(obj QueueObject, callback func(lock *ContextLock))

	// EnqueueObjectCallbackAndWait blocks until the queue thread has run
	// callback and returns its result. Returns false if the queue can no
	// longer execute work (shutdown or device lost).
	EnqueueObjectCallbackAndWait(obj QueueObject, callback func(lock *ContextLock) bool) bool

	// EnqueueObjectCallbackWithContext is EnqueueObjectCallback against a
	// caller provided context locked exclusively instead of the queue
	// context, for work tied to a specific swap chain.
	EnqueueObjectCallbackWithContext(obj QueueObject, exclusiveContext *PlatformContext, callback func(lock *ContextLock))
}
