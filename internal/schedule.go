package internal

import (
	"fmt"
	"iter"
)

// Schedule is the doubly linked list of every scheduled action,
// kept in ascending (priority, seq) order regardless of owning node.
type Schedule struct {
	arena *arena

	head  int32
	tail  int32
	count int

	// position of the running pass, nil-like when no pass is running
	cursor cursor
}

func NewSchedule(ar *arena) *Schedule {
	return &Schedule{
		arena:  ar,
		head:   nilIndex,
		tail:   nilIndex,
		cursor: newCursor(),
	}
}

// Insert links an idle action into the schedule.
// The search walks backward from the tail since new actions usually sort last.
func (s *Schedule) Insert(i int32) {
	a := s.arena.at(i)
	invariant(a.state == StateIdle, "inserting action %d in state %s", i, a.state)

	a.state = StateScheduled
	s.count++
	defer s.cursor.inserted(s.arena, i)

	// empty schedule
	if s.head == nilIndex {
		invariant(s.tail == nilIndex, "empty schedule with tail %d", s.tail)
		a.prev, a.next = nilIndex, nilIndex
		s.head = i
		s.tail = i
		return
	}

	for p := s.tail; p != nilIndex; p = s.arena.at(p).prev {
		ptr := s.arena.at(p)
		if !sortsAfter(a, ptr) {
			continue
		}

		// a goes right after ptr
		a.next = ptr.next
		if ptr.next != nilIndex {
			s.arena.at(ptr.next).prev = i
		} else {
			invariant(p == s.tail, "action %d has no successor but is not the tail", p)
			s.tail = i
		}
		a.prev = p
		ptr.next = i
		return
	}

	// a goes at the front
	head := s.arena.at(s.head)
	invariant(head.prev == nilIndex, "head %d has a predecessor", s.head)
	a.prev = nilIndex
	a.next = s.head
	head.prev = i
	s.head = i
}

// Remove unlinks a scheduled action, leaving it idle.
func (s *Schedule) Remove(i int32) {
	a := s.arena.at(i)
	invariant(a.state == StateScheduled, "removing action %d in state %s", i, a.state)

	s.cursor.removing(i, a)

	if a.next != nilIndex {
		s.arena.at(a.next).prev = a.prev
	} else {
		invariant(s.tail == i, "action %d has no successor but is not the tail", i)
		s.tail = a.prev
	}

	if a.prev != nilIndex {
		s.arena.at(a.prev).next = a.next
	} else {
		invariant(s.head == i, "action %d has no predecessor but is not the head", i)
		s.head = a.next
	}

	a.prev, a.next = nilIndex, nilIndex
	a.state = StateIdle
	s.count--
}

// IsScheduled reports whether the action at i is in the schedule.
func (s *Schedule) IsScheduled(i int32) bool {
	return s.arena.at(i).state == StateScheduled
}

// linked derives membership from the links alone.
// A sole scheduled action has no links, so it has to be recognised as both head and tail.
func (s *Schedule) linked(i int32) bool {
	a := s.arena.at(i)
	if a.prev != nilIndex || a.next != nilIndex {
		return true
	}

	if s.head == i {
		invariant(s.tail == i, "sole action %d is head but not tail", i)
		return true
	}

	return false
}

func (s *Schedule) Len() int { return s.count }

// All iterates the schedule from head to tail.
// The schedule must not be mutated while iterating.
func (s *Schedule) All() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		for i := s.head; i != nilIndex; i = s.arena.at(i).next {
			if !yield(i) {
				return
			}
		}
	}
}

// Verify walks the whole schedule and checks ordering, back links, sentinels and count.
func (s *Schedule) Verify() error {
	if s.head == nilIndex || s.tail == nilIndex {
		if s.head != s.tail {
			return fmt.Errorf("act: schedule head %d and tail %d disagree", s.head, s.tail)
		}
		if s.count != 0 {
			return fmt.Errorf("act: empty schedule counts %d actions", s.count)
		}
		return nil
	}

	n := 0
	prev := nilIndex
	for i := s.head; i != nilIndex; i = s.arena.at(i).next {
		a := s.arena.at(i)
		if a.state != StateScheduled {
			return fmt.Errorf("act: action %d reachable from head in state %s", i, a.state)
		}
		if a.prev != prev {
			return fmt.Errorf("act: action %d links back to %d, expected %d", i, a.prev, prev)
		}
		if prev != nilIndex && !sortsAfter(a, s.arena.at(prev)) {
			return fmt.Errorf("act: action %d is out of order after %d", i, prev)
		}
		if !s.linked(i) {
			return fmt.Errorf("act: scheduled action %d is not linked", i)
		}

		prev = i
		n++
		if n > s.count {
			return fmt.Errorf("act: schedule holds more than %d actions", s.count)
		}
	}

	if prev != s.tail {
		return fmt.Errorf("act: schedule ends at %d but tail is %d", prev, s.tail)
	}
	if n != s.count {
		return fmt.Errorf("act: schedule holds %d actions, counted %d", n, s.count)
	}

	return nil
}

func (s *Schedule) reset() {
	s.head = nilIndex
	s.tail = nilIndex
	s.count = 0
	s.cursor = newCursor()
}
