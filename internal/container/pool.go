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

package container

// PoolUnbounded lets the freelist grow without limit.
const PoolUnbounded = int(^uint(0) >> 1)

// Pool recycles *T blocks through a freelist bounded by [minFree, maxFree].
// Blocks on the freelist are always zeroed; Allocate runs the Construct hook
// on every block it hands out and Release runs the Destruct hook exactly once
// per outstanding allocation, so the hooks pair like constructor/destructor
// calls regardless of reuse. Not safe for concurrent use, callers guard the
// pool with a mutex matched to their own locking granularity.
//
// Building with the container_nopool tag turns every Allocate/Release into a
// plain allocate/drop, which keeps each logical object at a unique address
// for leak and corruption hunts under the race detector or sanitizers.
type Pool[T any] struct {
	free      Stack[*T]
	minFree   int
	maxFree   int
	Construct func(*T)
	Destruct  func(*T)
}

// NewPool makes a pool pre-warmed with minFree zeroed blocks and a freelist
// capped at maxFree. NewPool(0, PoolUnbounded) grows on demand and never
// frees.
func NewPool[T any](minFree, maxFree int) Pool[T] {
	if minFree < 0 || maxFree < 0 || minFree > maxFree {
		abort("invalid pool bounds [%d, %d]", minFree, maxFree)
	}
	p := Pool[T]{minFree: minFree, maxFree: maxFree}
	if poolingEnabled {
		p.free.Grow(minFree)
		for i := 0; i < minFree; i++ {
			p.free.Push(new(T))
		}
	}
	return p
}

// Allocate returns a constructed block, reusing freelist storage when
// available.
func (p *Pool[T]) Allocate() *T {
	var v *T
	if poolingEnabled && !p.free.Empty() {
		v = p.free.Pop()
	} else {
		v = new(T)
	}
	if p.Construct != nil {
		p.Construct(v)
	}
	return v
}

// Release destructs the block and either stashes the zeroed storage for reuse
// or drops it once the freelist is at maxFree.
func (p *Pool[T]) Release(v *T) {
	if v == nil {
		abort("release of nil block")
	}
	if p.Destruct != nil {
		p.Destruct(v)
	}
	if poolingEnabled && p.free.Len() < p.maxFree {
		var zero T
		*v = zero
		p.free.Push(v)
	}
}

// FreeLen returns the current freelist size.
func (p *Pool[T]) FreeLen() int {
	return p.free.Len()
}

// Drain frees all pooled storage.
func (p *Pool[T]) Drain() {
	p.free.Clear()
}
