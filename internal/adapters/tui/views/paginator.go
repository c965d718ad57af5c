package views

// Scroller tracks a cursor over a list of total rows and the slice of rows
// that fits on screen. The cursor row is always inside the visible slice.
type Scroller struct {
	height int
	offset int
	cursor int
	total  int
}

// NewScroller creates a scroller showing height rows at a time
func NewScroller(height int) *Scroller {
	s := &Scroller{}
	s.SetHeight(height)
	return s
}

// SetHeight changes the number of visible rows
func (s *Scroller) SetHeight(height int) {
	s.height = max(height, 1)
	s.follow()
}

// SetTotal sets the number of rows, clamping the cursor
func (s *Scroller) SetTotal(total int) {
	s.total = max(total, 0)
	s.SetCursor(s.cursor)
}

// Total returns the number of rows
func (s *Scroller) Total() int {
	return s.total
}

// Cursor returns the current cursor position (absolute index)
func (s *Scroller) Cursor() int {
	return s.cursor
}

// SetCursor moves the cursor to pos, clamped to the list
func (s *Scroller) SetCursor(pos int) {
	s.cursor = max(min(pos, s.total-1), 0)
	s.follow()
}

// Up moves the cursor up by one
func (s *Scroller) Up() bool {
	if s.cursor == 0 {
		return false
	}
	s.SetCursor(s.cursor - 1)
	return true
}

// Down moves the cursor down by one
func (s *Scroller) Down() bool {
	if s.cursor >= s.total-1 {
		return false
	}
	s.SetCursor(s.cursor + 1)
	return true
}

// PageUp moves the cursor up by a screen
func (s *Scroller) PageUp() {
	s.SetCursor(s.cursor - s.height)
}

// PageDown moves the cursor down by a screen
func (s *Scroller) PageDown() {
	s.SetCursor(s.cursor + s.height)
}

// VisibleRange returns the start and end indices of the rows on screen
func (s *Scroller) VisibleRange() (start, end int) {
	return s.offset, min(s.offset+s.height, s.total)
}

// RowAt maps a screen row, relative to the first visible row, to a list
// index. It returns -1 when the row shows nothing.
func (s *Scroller) RowAt(row int) int {
	if row < 0 || row >= s.height {
		return -1
	}
	if index := s.offset + row; index < s.total {
		return index
	}
	return -1
}

// Reset resets the scroller to its initial state
func (s *Scroller) Reset() {
	s.cursor = 0
	s.offset = 0
	s.total = 0
}

// follow scrolls just enough to keep the cursor visible
func (s *Scroller) follow() {
	if s.cursor < s.offset {
		s.offset = s.cursor
	} else if s.cursor >= s.offset+s.height {
		s.offset = s.cursor - s.height + 1
	}
	s.offset = max(min(s.offset, s.total-s.height), 0)
}
