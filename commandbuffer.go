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
	"goarrg.com/debug"
	"goarrg.com/rhi/gles/internal/util"
)

// Command is one recorded driver operation. It runs on a queue thread with
// the queue's context current, proven by lock.
type Command func(lock *ContextLock) error

// RecordedCommandBuffer is a CommandBuffer that records commands on any
// thread for deferred execution on a queue thread. Recording is not safe
// concurrently with itself or with submission; the usual pattern is record,
// submit, then record again once the queue's completion handle closes.
//
// The queue resets the buffer after replay, so resubmitting the same buffer
// in one batch replays it once.
type RecordedCommandBuffer struct {
	noCopy   util.NoCopy
	commands []Command
}

var _ CommandBuffer = (*RecordedCommandBuffer)(nil)

func NewRecordedCommandBuffer() *RecordedCommandBuffer {
	cb := &RecordedCommandBuffer{}
	cb.noCopy.Init()
	return cb
}

// Record appends cmd to the buffer.
func (cb *RecordedCommandBuffer) Record(cmd Command) {
	cb.noCopy.Check()
	if cmd == nil {
		abort("Record called with a nil command")
	}
	cb.commands = append(cb.commands, cmd)
}

// Len returns the number of recorded commands.
func (cb *RecordedCommandBuffer) Len() int {
	cb.noCopy.Check()
	return len(cb.commands)
}

// Replay runs the recorded commands in record order, stopping at the first
// failure.
func (cb *RecordedCommandBuffer) Replay(lock *ContextLock) error {
	cb.noCopy.Check()
	if !lock.Held() {
		abort("Replay without a locked context")
	}
	for i, cmd := range cb.commands {
		if err := cmd(lock); err != nil {
			return debug.ErrorWrapf(err, "Command %d of %d failed", i, len(cb.commands))
		}
	}
	return nil
}

// Reset discards the recorded commands, keeping the storage for the next
// recording.
func (cb *RecordedCommandBuffer) Reset() {
	cb.noCopy.Check()
	for i := range cb.commands {
		cb.commands[i] = nil
	}
	cb.commands = cb.commands[:0]
}

// Destroy invalidates the buffer. Must not be called while submitted.
func (cb *RecordedCommandBuffer) Destroy() {
	cb.noCopy.Check()
	cb.commands = nil
	cb.noCopy.Close()
}
