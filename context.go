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
	"encoding/json"

	"goarrg.com/rhi/gles/internal/util"
)

// Context owns the shared platform context and the two queues everything
// submits through: one for command buffers and callbacks, one for
// presentation so vsync stalls never block submission.
type Context struct {
	noCopy          util.NoCopy
	config          Config
	platformContext *PlatformContext
	submitQueue     *Queue
	presentQueue    *Queue
}

// NewContext wraps the platform supplied native context and spins up the
// queue threads. Takes over the caller's ownership of native.
func NewContext(native NativeContext, cfg Config) *Context {
	cfg.validate()
	if data, err := json.Marshal(&cfg); err == nil {
		instance.logger.IPrintf("gles init, config: %s", data)
	}

	c := &Context{config: cfg}
	c.noCopy.Init()
	c.platformContext = NewPlatformContext(native)
	c.submitQueue = NewQueue(QueueTypeSubmission, c.platformContext, cfg)
	if !cfg.DisablePresentationQueue {
		c.presentQueue = NewQueue(QueueTypePresentation, c.platformContext, cfg)
	}
	return c
}

// SubmitQueue returns the command submission queue, which is also the
// lifetime queue for objects created against this context.
func (c *Context) SubmitQueue() *Queue {
	c.noCopy.Check()
	return c.submitQueue
}

// PresentQueue returns the presentation queue, nil when disabled.
func (c *Context) PresentQueue() *Queue {
	c.noCopy.Check()
	return c.presentQueue
}

// PlatformContext returns the shared context of this share group.
func (c *Context) PlatformContext() *PlatformContext {
	c.noCopy.Check()
	return c.platformContext
}

// SubmitCommandBuffers enqueues recorded command buffers on the submission
// queue. Non blocking.
func (c *Context) SubmitCommandBuffers(waitFences []*QueueFence, commandBuffers []CommandBuffer,
	signalFences []*QueueFence, signalHandle chan<- struct{},
) {
	c.noCopy.Check()
	c.submitQueue.EnqueueCommandBuffers(waitFences, commandBuffers, signalFences, signalHandle)
}

// EnqueuePresent runs callback on the presentation queue under an exclusive
// lock of the swap chain's context. Non blocking.
func (c *Context) EnqueuePresent(exclusiveContext *PlatformContext, waitFences []*QueueFence,
	callback func(lock *ContextLock), signalFences []*QueueFence, signalHandle chan<- struct{},
) {
	c.noCopy.Check()
	if c.presentQueue == nil {
		abort("EnqueuePresent on a context without a presentation queue")
	}
	c.presentQueue.EnqueueCallback(exclusiveContext, waitFences, callback, signalFences, signalHandle)
}

// CreateQueueFence makes a fence managed by the submission queue.
func (c *Context) CreateQueueFence() *QueueFence {
	c.noCopy.Check()
	return NewQueueFence(c.submitQueue)
}

// WaitUntilIdle blocks until both queues are drained. Returns false if
// either queue was lost.
func (c *Context) WaitUntilIdle() bool {
	c.noCopy.Check()
	ok := c.submitQueue.WaitUntilIdle()
	if c.presentQueue != nil {
		ok = c.presentQueue.WaitUntilIdle() && ok
	}
	return ok
}

// Destroy drains and joins the queues, then drops the context reference.
// Object lifetime entries already enqueued still run during the drain so no
// driver handles leak.
func (c *Context) Destroy() {
	c.noCopy.Check()
	c.WaitUntilIdle()
	if c.presentQueue != nil {
		c.presentQueue.Destroy()
	}
	c.submitQueue.Destroy()
	c.platformContext.Release()
	c.noCopy.Close()
	instance.logger.IPrintf("gles destroyed")
}
