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

// Package container holds the generic list/pool primitives used by the queue
// and by higher level object collections. Precondition violations abort, they
// are never returned as errors.
package container

import (
	"goarrg.com/debug"
)

var instance = struct {
	logger *debug.Logger
}{
	logger: debug.NewLogger("gles", "internal", "container"),
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	panic("Fatal Error")
}

// Destroyer is any element owning a driver resource that must be explicitly
// released. OwnedList destroys elements it still owns when they are erased.
type Destroyer interface {
	Destroy()
}

// Referenced is any element whose driver handle lifetime is reference
// counted. RefList holds one reference per linked element.
type Referenced interface {
	Acquire()
	Release()
}
