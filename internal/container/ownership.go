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

// OwnedList is a List that owns its elements: erasing or clearing destroys
// them. Take and the Pop variants detach without destroying, handing
// ownership back to the caller. Not safe for concurrent use.
type OwnedList[T Destroyer] struct {
	list List[T]
}

func (l *OwnedList[T]) Len() int    { return l.list.Len() }
func (l *OwnedList[T]) Empty() bool { return l.list.Empty() }

func (l *OwnedList[T]) Front() *Node[T] { return l.list.Front() }
func (l *OwnedList[T]) Back() *Node[T]  { return l.list.Back() }

func (l *OwnedList[T]) Contains(n *Node[T]) bool { return l.list.Contains(n) }

func (l *OwnedList[T]) PushFront(v T) *Node[T] { return l.list.PushFront(v) }
func (l *OwnedList[T]) PushBack(v T) *Node[T]  { return l.list.PushBack(v) }

// Erase destroys the element and returns the node that followed it.
func (l *OwnedList[T]) Erase(n *Node[T]) *Node[T] {
	v := n.Value
	next := l.list.Erase(n)
	v.Destroy()
	return next
}

// Take detaches n without destroying it and returns the element.
func (l *OwnedList[T]) Take(n *Node[T]) T {
	if n == nil || !l.list.Contains(n) {
		abort("node is not linked in this list")
	}
	l.list.Erase(n)
	return n.Value
}

// PopFront detaches the first element and transfers ownership to the caller.
// Aborts if the list is empty.
func (l *OwnedList[T]) PopFront() T {
	return l.Take(l.list.Front())
}

// PopBack detaches the last element and transfers ownership to the caller.
// Aborts if the list is empty.
func (l *OwnedList[T]) PopBack() T {
	return l.Take(l.list.Back())
}

// Clear destroys every owned element.
func (l *OwnedList[T]) Clear() {
	for n := l.list.Front(); n != nil; n = l.list.Front() {
		l.Erase(n)
	}
}

func (l *OwnedList[T]) Sort(compare func(a, b T) bool) { l.list.Sort(compare) }

// RefList is a List that holds one reference on each linked element,
// acquiring on push and releasing on erase/clear. Elements are shared with
// any other holder. Iteration yields plain values; unlike a refcounted
// smart-pointer iterator there is no transient acquire/release per access
// since the garbage collector keeps the value itself alive.
// Not safe for concurrent use.
type RefList[T Referenced] struct {
	list List[T]
}

func (l *RefList[T]) Len() int    { return l.list.Len() }
func (l *RefList[T]) Empty() bool { return l.list.Empty() }

func (l *RefList[T]) Front() *Node[T] { return l.list.Front() }
func (l *RefList[T]) Back() *Node[T]  { return l.list.Back() }

func (l *RefList[T]) Contains(n *Node[T]) bool { return l.list.Contains(n) }

func (l *RefList[T]) PushFront(v T) *Node[T] {
	v.Acquire()
	return l.list.PushFront(v)
}

func (l *RefList[T]) PushBack(v T) *Node[T] {
	v.Acquire()
	return l.list.PushBack(v)
}

// Erase drops the list's reference and returns the node that followed.
func (l *RefList[T]) Erase(n *Node[T]) *Node[T] {
	v := n.Value
	next := l.list.Erase(n)
	v.Release()
	return next
}

// Clear drops the list's reference on every element.
func (l *RefList[T]) Clear() {
	for n := l.list.Front(); n != nil; n = l.list.Front() {
		l.Erase(n)
	}
}

func (l *RefList[T]) Sort(compare func(a, b T) bool) { l.list.Sort(compare) }
