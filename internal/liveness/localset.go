package liveness

import "ferrite/internal/mir"

type localSet map[mir.LocalID]struct{}

func (s localSet) has(id mir.LocalID) bool {
	_, ok := s[id]
	return ok
}

func (s localSet) add(id mir.LocalID) {
	s[id] = struct{}{}
}

// cloneSet creates a copy of a localSet.
func cloneSet(s localSet) localSet {
	out := localSet{}
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// unionSet returns a ∪ b without mutating either.
func unionSet(a, b localSet) localSet {
	out := cloneSet(a)
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

// subtractSet returns a \ b without mutating either.
func subtractSet(a, b localSet) localSet {
	out := localSet{}
	for id := range a {
		if !b.has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

func setEqual(a, b localSet) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b.has(id) {
			return false
		}
	}
	return true
}
