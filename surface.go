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

import "goarrg.com/rhi/gles/internal/util"

// Surface is a presentation target: a window system context in the share
// group whose default framebuffer presents get drawn into. Presents lock the
// surface context exclusively since the window system may also bind it
// outside the presentation thread, and unbind it afterwards so it never
// stays current on a thread it does not own.
type Surface struct {
	noCopy util.NoCopy
	ctx    *PlatformContext
}

// NewSurface wraps a window system context. Takes over the caller's
// ownership of native; drop it with Destroy.
func NewSurface(native NativeContext) *Surface {
	s := &Surface{ctx: NewPlatformContext(native)}
	s.noCopy.Init()
	return s
}

// PlatformContext returns the surface's context for callers that need to
// lock it outside a present, such as swap interval changes.
func (s *Surface) PlatformContext() *PlatformContext {
	s.noCopy.Check()
	return s.ctx
}

// Present runs callback on c's presentation queue with the surface context
// locked exclusively, after waitFences signal on the GPU. The callback does
// the buffer swap through whatever window system binding owns the surface.
// Non blocking; signalHandle closes once the present completes or is
// discarded in shutdown.
func (s *Surface) Present(c *Context, waitFences []*QueueFence,
	callback func(lock *ContextLock), signalFences []*QueueFence, signalHandle chan<- struct{},
) {
	s.noCopy.Check()
	c.EnqueuePresent(s.ctx, waitFences, callback, signalFences, signalHandle)
}

// Destroy releases the surface context. Queue entries still holding it keep
// it alive until they complete.
func (s *Surface) Destroy() {
	s.noCopy.Check()
	s.ctx.Release()
	s.noCopy.Close()
}
