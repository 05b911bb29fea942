package app

// SearchData is the header search input: a rune buffer and an insertion cursor
type SearchData struct {
	chars []rune
	pos   int
}

// Insert adds r at the cursor and moves the cursor past it
func (s *SearchData) Insert(r rune) {
	s.chars = append(s.chars, 0)
	copy(s.chars[s.pos+1:], s.chars[s.pos:])
	s.chars[s.pos] = r
	s.pos++
}

// DeleteBackward removes the rune before the cursor
func (s *SearchData) DeleteBackward() {
	if len(s.chars) == 0 || s.pos == 0 {
		return
	}
	s.chars = append(s.chars[:s.pos-1], s.chars[s.pos:]...)
	s.pos--
}

// Move shifts the cursor by delta, clamped to the text
func (s *SearchData) Move(delta int) {
	if len(s.chars) == 0 {
		return
	}
	s.pos = max(0, min(s.pos+delta, len(s.chars)))
}

// Query returns the current text
func (s *SearchData) Query() string { return string(s.chars) }

// Cursor returns the cursor position in runes
func (s *SearchData) Cursor() int { return s.pos }
