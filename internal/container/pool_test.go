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

//go:build !container_nopool

package container

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolee struct {
	id      int
	payload [16]byte
}

func TestPoolConstructDestructPairing(t *testing.T) {
	constructs, destructs := 0, 0
	p := NewPool[poolee](0, PoolUnbounded)
	p.Construct = func(v *poolee) { constructs++; v.id = constructs }
	p.Destruct = func(v *poolee) { destructs++ }

	rng := rand.New(rand.NewSource(1))
	var outstanding []*poolee
	for i := 0; i < 500; i++ {
		if len(outstanding) > 0 && rng.Intn(2) == 0 {
			n := rng.Intn(len(outstanding))
			p.Release(outstanding[n])
			outstanding = append(outstanding[:n], outstanding[n+1:]...)
		} else {
			outstanding = append(outstanding, p.Allocate())
		}
	}
	for _, v := range outstanding {
		p.Release(v)
	}
	assert.Equal(t, constructs, destructs)
	assert.Greater(t, constructs, 0)
}

func TestPoolNoReuseWhenUnbuffered(t *testing.T) {
	p := NewPool[poolee](0, 0)
	assert.Equal(t, 0, p.FreeLen())
	v := p.Allocate()
	p.Release(v)
	// With a zero cap every release drops the block immediately.
	assert.Equal(t, 0, p.FreeLen())
}

func TestPoolPrewarmAndReuse(t *testing.T) {
	const n = 4
	p := NewPool[poolee](n, n)
	// Pre-warmed blocks are unconstructed storage.
	require.Equal(t, n, p.FreeLen())

	seen := map[*poolee]bool{}
	var blocks []*poolee
	for i := 0; i < n; i++ {
		v := p.Allocate()
		seen[v] = true
		blocks = append(blocks, v)
	}
	assert.Equal(t, 0, p.FreeLen())
	for _, v := range blocks {
		p.Release(v)
	}
	assert.Equal(t, n, p.FreeLen())

	// As long as outstanding allocations stay <= n the same storage cycles
	// forever.
	for i := 0; i < 64; i++ {
		v := p.Allocate()
		assert.True(t, seen[v], "allocation escaped the pre-warmed set")
		p.Release(v)
	}
}

func TestPoolReleaseZeroesStorage(t *testing.T) {
	p := NewPool[poolee](0, 1)
	v := p.Allocate()
	v.id = 42
	v.payload[0] = 0xFF
	p.Release(v)
	w := p.Allocate()
	require.Same(t, v, w)
	assert.Equal(t, 0, w.id)
	assert.Equal(t, byte(0), w.payload[0])
}

func TestPoolInvalidBoundsAbort(t *testing.T) {
	assert.Panics(t, func() { NewPool[poolee](2, 1) })
	assert.Panics(t, func() { NewPool[poolee](-1, 1) })
}

func TestPoolDrain(t *testing.T) {
	p := NewPool[poolee](8, 8)
	require.Equal(t, 8, p.FreeLen())
	p.Drain()
	assert.Equal(t, 0, p.FreeLen())
	// Still usable afterwards, just cold.
	v := p.Allocate()
	p.Release(v)
	assert.Equal(t, 1, p.FreeLen())
}
