package buffer

type Cursor struct {
	Line, Col int
}

func (c Cursor) Before(other Cursor) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Col < other.Col
}

func (c Cursor) Equal(other Cursor) bool {
	return c.Line == other.Line && c.Col == other.Col
}

// Selection is an anchor plus a live end that follows the active cursor.
// Use Normalized for document-order (start <= end) coordinates.
type Selection struct {
	Anchor Cursor
	Live   Cursor
}

func (s Selection) Normalized() (Cursor, Cursor) {
	if s.Anchor.Before(s.Live) || s.Anchor.Equal(s.Live) {
		return s.Anchor, s.Live
	}
	return s.Live, s.Anchor
}

func (s Selection) Contains(c Cursor) bool {
	start, end := s.Normalized()
	if c.Before(start) || end.Before(c) {
		return false
	}
	return true
}

func (s Selection) Empty() bool {
	return s.Anchor.Equal(s.Live)
}
