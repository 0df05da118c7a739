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
	"bytes"
	"fmt"
)

type Config struct {
	// QueueEntryPoolMinFree/MaxFree bound each queue's entry freelist.
	// Zero values pick the defaults {16, 32}.
	QueueEntryPoolMinFree int32
	QueueEntryPoolMaxFree int32

	// DisablePresentationQueue skips the presentation queue for headless
	// contexts.
	DisablePresentationQueue bool
}

func (c *Config) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"QueueEntryPoolMinFree\": %d,", c.QueueEntryPoolMinFree))
	buff.WriteString(fmt.Sprintf("\"QueueEntryPoolMaxFree\": %d,", c.QueueEntryPoolMaxFree))
	buff.WriteString(fmt.Sprintf("\"DisablePresentationQueue\": %t", c.DisablePresentationQueue))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func (c *Config) validate() {
	if c.QueueEntryPoolMinFree < 0 || c.QueueEntryPoolMaxFree < 0 {
		abort("Config.QueueEntryPool bounds must not be negative")
	}
	if c.QueueEntryPoolMinFree == 0 && c.QueueEntryPoolMaxFree == 0 {
		c.QueueEntryPoolMinFree = 16
		c.QueueEntryPoolMaxFree = 32
	}
	if c.QueueEntryPoolMinFree > c.QueueEntryPoolMaxFree {
		abort("Config.QueueEntryPoolMinFree [%d] is larger than Config.QueueEntryPoolMaxFree [%d]",
			c.QueueEntryPoolMinFree, c.QueueEntryPoolMaxFree)
	}
}
