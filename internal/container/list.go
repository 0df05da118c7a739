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

import "golang.org/x/exp/constraints"

// Node links a value into exactly one List at a time. A detached node has
// nil prev/next/list and may be relinked into any list, which is what lets
// the queue reuse pooled nodes without allocating per enqueue.
type Node[T any] struct {
	prev, next *Node[T]
	list       *List[T]
	Value      T
}

// Next returns the following node or nil at the back of the list.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// Prev returns the preceding node or nil at the front of the list.
func (n *Node[T]) Prev() *Node[T] {
	return n.prev
}

// Linked reports whether the node is currently in a list.
func (n *Node[T]) Linked() bool {
	return n.list != nil
}

func (n *Node[T]) detach() {
	n.prev = nil
	n.next = nil
	n.list = nil
}

// List is a doubly linked list of nodes. It does not own the values, the
// OwnedList/RefList wrappers layer ownership semantics on top of it.
// The zero value is an empty list ready for use. Not safe for concurrent use.
type List[T any] struct {
	head, tail *Node[T]
	count      int
}

func (l *List[T]) Len() int {
	return l.count
}

func (l *List[T]) Empty() bool {
	return l.head == nil
}

// Front returns the first node or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	return l.head
}

// Back returns the last node or nil if the list is empty.
func (l *List[T]) Back() *Node[T] {
	return l.tail
}

// Contains reports whether n is linked in this list.
func (l *List[T]) Contains(n *Node[T]) bool {
	return n != nil && n.list == l
}

func (l *List[T]) checkUnlinked(n *Node[T]) {
	if n == nil {
		abort("nil node")
	}
	if n.list != nil || n.prev != nil || n.next != nil {
		abort("node is already linked in a list")
	}
}

// PushFrontNode links a detached node at the front of the list.
func (l *List[T]) PushFrontNode(n *Node[T]) {
	l.checkUnlinked(n)
	n.list = l
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	} else {
		l.tail = n
	}
	l.head = n
	l.count++
}

// PushBackNode links a detached node at the back of the list.
func (l *List[T]) PushBackNode(n *Node[T]) {
	l.checkUnlinked(n)
	n.list = l
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.count++
}

func (l *List[T]) PushFront(v T) *Node[T] {
	n := &Node[T]{Value: v}
	l.PushFrontNode(n)
	return n
}

func (l *List[T]) PushBack(v T) *Node[T] {
	n := &Node[T]{Value: v}
	l.PushBackNode(n)
	return n
}

// InsertBefore links v immediately before at. A nil at appends to the back.
func (l *List[T]) InsertBefore(at *Node[T], v T) *Node[T] {
	if at == nil {
		return l.PushBack(v)
	}
	if at.list != l {
		abort("insertion point is not linked in this list")
	}
	if at.prev == nil {
		return l.PushFront(v)
	}
	n := &Node[T]{Value: v, prev: at.prev, next: at, list: l}
	at.prev.next = n
	at.prev = n
	l.count++
	return n
}

// InsertAfter links v immediately after at. A nil at prepends to the front.
func (l *List[T]) InsertAfter(at *Node[T], v T) *Node[T] {
	if at == nil {
		return l.PushFront(v)
	}
	if at.list != l {
		abort("insertion point is not linked in this list")
	}
	if at.next == nil {
		return l.PushBack(v)
	}
	n := &Node[T]{Value: v, prev: at, next: at.next, list: l}
	at.next.prev = n
	at.next = n
	l.count++
	return n
}

// Erase detaches n and returns the node that followed it, nil if n was last.
func (l *List[T]) Erase(n *Node[T]) *Node[T] {
	if n == nil || n.list != l {
		abort("node is not linked in this list")
	}
	next := n.next
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.detach()
	l.count--
	return next
}

// PopFront detaches and returns the first node, nil if the list is empty.
func (l *List[T]) PopFront() *Node[T] {
	n := l.head
	if n == nil {
		return nil
	}
	l.Erase(n)
	return n
}

// PopBack detaches and returns the last node, nil if the list is empty.
func (l *List[T]) PopBack() *Node[T] {
	n := l.tail
	if n == nil {
		return nil
	}
	l.Erase(n)
	return n
}

// Replace splices the detached node new into old's position and detaches old.
func (l *List[T]) Replace(old, new *Node[T]) {
	if old == nil || old.list != l {
		abort("node is not linked in this list")
	}
	l.checkUnlinked(new)
	new.prev = old.prev
	new.next = old.next
	new.list = l
	if old.prev != nil {
		old.prev.next = new
	} else {
		l.head = new
	}
	if old.next != nil {
		old.next.prev = new
	} else {
		l.tail = new
	}
	old.detach()
}

// Clear detaches every node. Detached nodes may be relinked afterwards.
func (l *List[T]) Clear() {
	for n := l.head; n != nil; {
		next := n.next
		n.detach()
		n = next
	}
	l.head = nil
	l.tail = nil
	l.count = 0
}

// Sort orders the list with a bottom-up merge sort over the nodes themselves,
// O(n log n) time and O(1) space. The merge takes from the earlier run while
// compare(a, b) holds, so a less-or-equal predicate keeps equal elements in
// their original relative order.
//
// https://www.chiark.greenend.org.uk/~sgtatham/algorithms/listsort.html
func (l *List[T]) Sort(compare func(a, b T) bool) {
	if compare == nil {
		abort("nil compare func")
	}
	if l.head == nil {
		return
	}
	inSize := 1
	for {
		p := l.head
		var tail *Node[T]
		l.head = nil
		l.tail = nil
		mergeCount := 0
		for p != nil {
			mergeCount++
			q := p
			pSize := 0
			for i := 0; i < inSize; i++ {
				pSize++
				q = q.next
				if q == nil {
					break
				}
			}
			qSize := inSize
			for pSize > 0 || (qSize > 0 && q != nil) {
				var e *Node[T]
				switch {
				case pSize == 0:
					e, q = q, q.next
					qSize--
				case qSize == 0 || q == nil:
					e, p = p, p.next
					pSize--
				case compare(p.Value, q.Value):
					e, p = p, p.next
					pSize--
				default:
					e, q = q, q.next
					qSize--
				}
				if tail != nil {
					tail.next = e
				} else {
					l.head = e
				}
				e.prev = tail
				tail = e
			}
			p = q
		}
		tail.next = nil
		if mergeCount <= 1 {
			l.tail = tail
			return
		}
		inSize *= 2
	}
}

// SortOrdered sorts ascending using the natural order of T. Stable.
func SortOrdered[T constraints.Ordered](l *List[T]) {
	l.Sort(func(a, b T) bool { return a <= b })
}
