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

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listValues[T any](l *List[T]) []T {
	var out []T
	for n := l.Front(); n != nil; n = n.Next() {
		out = append(out, n.Value)
	}
	return out
}

func listValuesReverse[T any](l *List[T]) []T {
	var out []T
	for n := l.Back(); n != nil; n = n.Prev() {
		out = append(out, n.Value)
	}
	return out
}

func TestListPushPopSymmetry(t *testing.T) {
	l := List[int]{}
	assert.True(t, l.Empty())
	assert.Equal(t, 0, l.Len())

	for i := 0; i < 5; i++ {
		l.PushBack(i)
		assert.Equal(t, i+1, l.Len())
	}
	assert.False(t, l.Empty())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, listValues(&l))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, listValuesReverse(&l))

	l.PushFront(-1)
	assert.Equal(t, []int{-1, 0, 1, 2, 3, 4}, listValues(&l))

	require.NotNil(t, l.PopFront())
	require.NotNil(t, l.PopBack())
	assert.Equal(t, []int{0, 1, 2, 3}, listValues(&l))
	assert.Equal(t, 4, l.Len())

	for !l.Empty() {
		l.PopFront()
	}
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.PopFront())
	assert.Nil(t, l.PopBack())
}

func TestListEraseReturnsNext(t *testing.T) {
	l := List[int]{}
	n1 := l.PushBack(1)
	n2 := l.PushBack(2)
	n3 := l.PushBack(3)

	next := l.Erase(n2)
	require.Same(t, n3, next)
	assert.Equal(t, []int{1, 3}, listValues(&l))
	assert.False(t, n2.Linked())

	next = l.Erase(n3)
	assert.Nil(t, next)
	assert.Equal(t, []int{1}, listValues(&l))

	assert.Panics(t, func() { l.Erase(n3) })
	assert.Same(t, n1, l.Front())
	assert.Same(t, n1, l.Back())
}

func TestListInsert(t *testing.T) {
	l := List[int]{}
	n2 := l.PushBack(2)
	l.InsertBefore(n2, 1)
	l.InsertAfter(n2, 3)
	l.InsertBefore(nil, 4)
	l.InsertAfter(nil, 0)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, listValues(&l))
	assert.Equal(t, 5, l.Len())
}

func TestListReplace(t *testing.T) {
	l := List[int]{}
	l.PushBack(1)
	n2 := l.PushBack(2)
	l.PushBack(3)

	n9 := &Node[int]{Value: 9}
	l.Replace(n2, n9)
	assert.Equal(t, []int{1, 9, 3}, listValues(&l))
	assert.Equal(t, []int{3, 9, 1}, listValuesReverse(&l))
	assert.False(t, n2.Linked())
	assert.True(t, l.Contains(n9))
	assert.Equal(t, 3, l.Len())

	// Replacing at the ends must update head/tail.
	head := &Node[int]{Value: -1}
	tail := &Node[int]{Value: -3}
	l.Replace(l.Front(), head)
	l.Replace(l.Back(), tail)
	assert.Equal(t, []int{-1, 9, -3}, listValues(&l))
	assert.Same(t, head, l.Front())
	assert.Same(t, tail, l.Back())
}

func TestListDoubleLinkAborts(t *testing.T) {
	a := List[int]{}
	b := List[int]{}
	n := a.PushBack(1)
	assert.Panics(t, func() { a.PushBackNode(n) })
	assert.Panics(t, func() { b.PushFrontNode(n) })
	assert.Panics(t, func() { b.Erase(n) })
}

func TestListNodeReuse(t *testing.T) {
	l := List[int]{}
	n := l.PushBack(1)
	l.Erase(n)
	l.PushFrontNode(n)
	assert.Equal(t, []int{1}, listValues(&l))
	l.Clear()
	assert.False(t, n.Linked())
	l.PushBackNode(n)
	assert.Equal(t, 1, l.Len())
}

type item struct {
	value int
	a     Node[*item]
	b     Node[*item]
}

func TestListMultiListIndependence(t *testing.T) {
	listA := List[*item]{}
	listB := List[*item]{}

	items := make([]*item, 4)
	for i := range items {
		items[i] = &item{value: i + 1}
		items[i].a.Value = items[i]
		items[i].b.Value = items[i]
		listA.PushBackNode(&items[i].a)
		listB.PushFrontNode(&items[i].b)
	}

	values := func(l *List[*item]) []int {
		var out []int
		for n := l.Front(); n != nil; n = n.Next() {
			out = append(out, n.Value.value)
		}
		return out
	}
	assert.Equal(t, []int{1, 2, 3, 4}, values(&listA))
	assert.Equal(t, []int{4, 3, 2, 1}, values(&listB))

	listB.Erase(&items[2].b)
	assert.Equal(t, []int{4, 2, 1}, values(&listB))
	assert.Equal(t, []int{1, 2, 3, 4}, values(&listA))
	assert.True(t, listA.Contains(&items[2].a))
	assert.False(t, listB.Contains(&items[2].b))
}

func TestListSort(t *testing.T) {
	less := func(a, b int) bool { return a <= b }

	t.Run("empty", func(t *testing.T) {
		l := List[int]{}
		l.Sort(less)
		assert.True(t, l.Empty())
	})
	t.Run("single", func(t *testing.T) {
		l := List[int]{}
		l.PushBack(7)
		l.Sort(less)
		assert.Equal(t, []int{7}, listValues(&l))
	})

	cases := map[string][]int{
		"sorted":  {1, 2, 3, 4},
		"reverse": {4, 3, 2, 1},
		"random":  {3, 1, 4, 2},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			l := List[int]{}
			for _, v := range in {
				l.PushBack(v)
			}
			l.Sort(less)
			assert.Equal(t, []int{1, 2, 3, 4}, listValues(&l))
			assert.Equal(t, []int{4, 3, 2, 1}, listValuesReverse(&l))
			assert.Equal(t, 4, l.Len())
		})
	}

	t.Run("large", func(t *testing.T) {
		l := List[int]{}
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 1000; i++ {
			l.PushBack(rng.Intn(100))
		}
		SortOrdered(&l)
		prev := -1
		count := 0
		for n := l.Front(); n != nil; n = n.Next() {
			assert.GreaterOrEqual(t, n.Value, prev)
			prev = n.Value
			count++
		}
		assert.Equal(t, 1000, count)
	})
}

func TestListSortStability(t *testing.T) {
	type tagged struct {
		value int
		tag   string
	}
	l := List[tagged]{}
	for _, e := range []tagged{
		{2, "2"}, {4, "4"}, {1, "1"}, {3, "3"}, {1, "1a"}, {2, "2a"},
	} {
		l.PushBack(e)
	}
	l.Sort(func(a, b tagged) bool { return a.value <= b.value })

	var tags []string
	for n := l.Front(); n != nil; n = n.Next() {
		tags = append(tags, n.Value.tag)
	}
	assert.Equal(t, []string{"1", "1a", "2", "2a", "3", "4"}, tags)
}

type countedOwned struct {
	live *int
}

func (c *countedOwned) Destroy() { *c.live-- }

func TestOwnedListTakeClear(t *testing.T) {
	live := 0
	l := OwnedList[*countedOwned]{}
	nodes := make([]*Node[*countedOwned], 4)
	for i := range nodes {
		live++
		nodes[i] = l.PushBack(&countedOwned{live: &live})
	}
	require.Equal(t, 4, live)
	require.Equal(t, 4, l.Len())

	// Take transfers ownership without destroying.
	taken := l.Take(nodes[0])
	assert.Equal(t, 4, live)
	assert.Equal(t, 3, l.Len())
	taken.Destroy()
	assert.Equal(t, 3, live)

	popped := l.PopBack()
	assert.Equal(t, 3, live)
	popped.Destroy()
	assert.Equal(t, 2, live)

	l.Erase(l.Front())
	assert.Equal(t, 1, live)

	l.Clear()
	assert.Equal(t, 0, live)
	assert.True(t, l.Empty())
}

type countedRef struct {
	refs int
	live *int
}

func (c *countedRef) Acquire() { c.refs++ }

func (c *countedRef) Release() {
	c.refs--
	if c.refs == 0 {
		*c.live--
	}
}

func TestRefListProtocol(t *testing.T) {
	live := 1
	v := &countedRef{refs: 1, live: &live}

	l := RefList[*countedRef]{}
	n := l.PushBack(v)
	assert.Equal(t, 2, v.refs)

	l2 := RefList[*countedRef]{}
	l2.PushFront(v)
	assert.Equal(t, 3, v.refs)

	l.Erase(n)
	assert.Equal(t, 2, v.refs)
	assert.True(t, l.Empty())

	l2.Clear()
	assert.Equal(t, 1, v.refs)
	assert.Equal(t, 1, live)

	// Caller dropping its own reference is what finally kills it.
	v.Release()
	assert.Equal(t, 0, live)
}
