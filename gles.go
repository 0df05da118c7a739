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

// Package gles is the OpenGL ES 3 rendering hardware interface core. A GL
// context only accepts commands from the thread it is current on, so this
// package serializes every driver touching operation onto a queue owned
// thread: clients record and enqueue from anywhere, the queue thread is the
// only place GL calls happen, and queue fences carry completion back across
// threads.
package gles

import (
	"goarrg.com"
	"goarrg.com/debug"

	"goarrg.com/rhi/gles/internal/util"
)

type platform struct{}

func (platform) Abort()                           { panic("Fatal Error") }
func (platform) AbortPopup(f string, args ...any) { panic("Fatal Error") }

var instance = struct {
	platform goarrg.PlatformInterface
	logger   *debug.Logger
}{
	platform: platform{},
	logger:   debug.NewLogger("gles"),
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	instance.platform.Abort()
}

func SetLogLevel(l uint32) {
	instance.logger.SetLevel(l)
}

// InitPlatform routes fatal aborts through the host platform layer. Optional,
// the default platform panics.
func InitPlatform(platform goarrg.PlatformInterface) {
	instance.platform = platform
	util.Init(platform)
}

// Destroyer is implemented by objects owning driver resources that must be
// explicitly released.
type Destroyer interface {
	Destroy()
}

// ErrorDeviceLost signals that the driver or its context is gone and no
// future operation on the owning queue can complete.
type ErrorDeviceLost struct{}

func (ErrorDeviceLost) Is(target error) bool {
	_, ok := target.(ErrorDeviceLost)
	return ok
}

func (ErrorDeviceLost) Error() string {
	return "Device Lost"
}
