package domain

import (
	"path/filepath"
	"slices"
)

// NavigationState holds the current location and the back/forward history.
// Stacks are ordered most recent last and never contain Current.
type NavigationState struct {
	Current string
	Back    []string
	Forward []string
}

// IsIdle reports whether nothing has been visited yet
func (s *NavigationState) IsIdle() bool {
	return s.Current == ""
}

// Visit moves to path. When record is set the previous location is pushed onto
// the back stack and the forward stack is cleared.
func (s *NavigationState) Visit(path string, record bool) {
	if record {
		if s.Current != "" && s.Current != path {
			s.Back = append(s.Back, s.Current)
		}
		s.Forward = nil
	}
	s.Current = path
	s.normalize()
}

// StepBack pops the back stack and moves there, pushing the old location onto
// the forward stack.
func (s *NavigationState) StepBack() (string, error) {
	if len(s.Back) == 0 {
		return "", ErrNotAvailable
	}
	target := s.Back[len(s.Back)-1]
	s.Back = s.Back[:len(s.Back)-1]
	if s.Current != "" {
		s.Forward = append(s.Forward, s.Current)
	}
	s.Current = target
	s.normalize()
	return target, nil
}

// StepForward is the mirror of StepBack
func (s *NavigationState) StepForward() (string, error) {
	if len(s.Forward) == 0 {
		return "", ErrNotAvailable
	}
	target := s.Forward[len(s.Forward)-1]
	s.Forward = s.Forward[:len(s.Forward)-1]
	if s.Current != "" {
		s.Back = append(s.Back, s.Current)
	}
	s.Current = target
	s.normalize()
	return target, nil
}

// ClearHistory empties both stacks
func (s *NavigationState) ClearHistory() {
	s.Back = nil
	s.Forward = nil
}

// Prune drops every history entry at or below removed. Reports whether the
// current location itself was removed; the caller decides where to go.
func (s *NavigationState) Prune(removed string) bool {
	gone := func(p string) bool { return IsWithin(removed, p) }
	s.Back = slices.DeleteFunc(s.Back, gone)
	s.Forward = slices.DeleteFunc(s.Forward, gone)
	s.Back = compactRuns(s.Back)
	s.Forward = compactRuns(s.Forward)
	return IsWithin(removed, s.Current)
}

// Rewrite replaces the oldPrefix of every recorded path with newPrefix, used
// after a rename or move so history follows the node.
func (s *NavigationState) Rewrite(oldPrefix, newPrefix string) {
	rewrite := func(p string) string {
		if !IsWithin(oldPrefix, p) {
			return p
		}
		rel, err := filepath.Rel(oldPrefix, p)
		if err != nil {
			return p
		}
		return filepath.Join(newPrefix, rel)
	}
	for i, p := range s.Back {
		s.Back[i] = rewrite(p)
	}
	for i, p := range s.Forward {
		s.Forward[i] = rewrite(p)
	}
	s.Current = rewrite(s.Current)
	s.normalize()
}

func (s *NavigationState) normalize() {
	isCurrent := func(p string) bool { return p == s.Current }
	s.Back = compactRuns(slices.DeleteFunc(s.Back, isCurrent))
	s.Forward = compactRuns(slices.DeleteFunc(s.Forward, isCurrent))
}

// compactRuns collapses consecutive duplicates left behind by removals
func compactRuns(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return slices.Compact(paths)
}
