package buffer

import "testing"

func TestMultiInsertSameLineColumns(t *testing.T) {
	b := bufferFrom("0123456789abcdef")
	b.Cursors.Primary = Cursor{Line: 0, Col: 8}
	b.Cursors.Extras = []Cursor{{0, 0}, {0, 3}, {0, 5}}

	b.InsertChar('-')

	if got := b.RowText(0); got != "-012-34-567-89abcdef" {
		t.Fatalf("unexpected text: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 12}) {
		t.Fatalf("expected primary at col 12, got %+v", b.Cursors.Primary)
	}
	want := []Cursor{{0, 1}, {0, 5}, {0, 8}}
	if len(b.Cursors.Extras) != len(want) {
		t.Fatalf("expected %d secondaries, got %d", len(want), len(b.Cursors.Extras))
	}
	for i, c := range want {
		if b.Cursors.Extras[i] != c {
			t.Fatalf("secondary %d: expected %+v, got %+v", i, c, b.Cursors.Extras[i])
		}
	}
}

func TestMultiInsertAcrossLinesSingleUndoGroup(t *testing.T) {
	b := bufferFrom("abc", "def")
	b.Cursors.Primary = Cursor{Line: 0, Col: 3}
	b.Cursors.Extras = []Cursor{{1, 3}}

	b.InsertChar('!')
	if got := b.Contents(); got != "abc!\ndef!" {
		t.Fatalf("unexpected contents: %q", got)
	}

	count, err := b.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries undone, got %d", count)
	}
	if got := b.Contents(); got != "abc\ndef" {
		t.Fatalf("expected both inserts undone together, got %q", got)
	}
}

func TestMultiBackspaceWithLineMerge(t *testing.T) {
	b := bufferFrom("ab", "cd", "ef")
	b.Cursors.Primary = Cursor{Line: 2, Col: 1}
	b.Cursors.Extras = []Cursor{{1, 0}}

	b.DeleteChar()

	if got := b.Contents(); got != "abcd\nf" {
		t.Fatalf("unexpected contents: %q", got)
	}
	// The merged cursor lands at the old end of the previous line.
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected secondary at (0,2), got %+v", b.Cursors.Extras)
	}
	if b.Cursors.Primary != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected primary at (1,0), got %+v", b.Cursors.Primary)
	}

	b.Undo()
	if got := b.Contents(); got != "ab\ncd\nef" {
		t.Fatalf("expected whole batch undone, got %q", got)
	}
}

func TestMultiNewlineAtomicUndo(t *testing.T) {
	b := bufferFrom("aa bb", "cc dd")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}
	b.Cursors.Extras = []Cursor{{1, 2}}

	b.InsertNewline()
	if got := b.Contents(); got != "aa\n bb\ncc\n dd" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected primary at (1,0), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 3, Col: 0}) {
		t.Fatalf("expected secondary at (3,0), got %+v", b.Cursors.Extras)
	}

	count, err := b.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected both splits in one group, undid %d", count)
	}
	if got := b.Contents(); got != "aa bb\ncc dd" {
		t.Fatalf("expected original lines after undo, got %q", got)
	}
}

func TestRemoveDuplicatesKeepsPrimaryOverlapOnce(t *testing.T) {
	cs := CursorSet{Primary: Cursor{0, 2}}
	cs.Extras = []Cursor{{0, 2}, {0, 2}, {0, 5}}
	cs.allowPrimaryOverlap = true
	cs.RemoveDuplicates()

	if len(cs.Extras) != 2 {
		t.Fatalf("expected overlap kept once plus distinct cursor, got %+v", cs.Extras)
	}

	// Without the flag all overlapping secondaries drop.
	cs.allowPrimaryOverlap = false
	cs.Extras = []Cursor{{0, 2}, {0, 5}}
	cs.RemoveDuplicates()
	if len(cs.Extras) != 1 || cs.Extras[0] != (Cursor{0, 5}) {
		t.Fatalf("expected only (0,5) left, got %+v", cs.Extras)
	}
}

func TestAddCursorAtPrimaryDetachesOnNextMove(t *testing.T) {
	b := bufferFrom("abcdef")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}

	b.AddCursorAtPrimary()
	if len(b.Cursors.Extras) != 1 {
		t.Fatalf("expected one secondary, got %+v", b.Cursors.Extras)
	}

	// First move detaches the primary only.
	b.MoveRight()
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 3}) {
		t.Fatalf("expected primary (0,3), got %+v", b.Cursors.Primary)
	}
	if b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected secondary left at (0,2), got %+v", b.Cursors.Extras[0])
	}

	// From then on secondaries follow.
	b.MoveRight()
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 4}) {
		t.Fatalf("expected primary (0,4), got %+v", b.Cursors.Primary)
	}
	if b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 3}) {
		t.Fatalf("expected secondary following to (0,3), got %+v", b.Cursors.Extras[0])
	}
}

func TestAddCursorAboveBelow(t *testing.T) {
	b := bufferFrom("one", "two", "three")
	b.Cursors.Primary = Cursor{Line: 1, Col: 2}

	b.AddCursorAbove()
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected secondary at (0,2), got %+v", b.Cursors.Extras)
	}

	b.AddCursorBelow()
	if len(b.Cursors.Extras) != 2 || b.Cursors.Extras[1] != (Cursor{Line: 2, Col: 2}) {
		t.Fatalf("expected secondary at (2,2), got %+v", b.Cursors.Extras)
	}
}

func TestMoveRightWrapsAtLineEnd(t *testing.T) {
	b := bufferFrom("ab", "ab")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}
	b.Cursors.Extras = []Cursor{{1, 1}}

	// Both move right; the secondary hits end of its line, the primary
	// wraps to the next line start.
	b.MoveRight()
	if b.Cursors.Primary != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected primary (1,0), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 1, Col: 2}) {
		t.Fatalf("expected secondary (1,2), got %+v", b.Cursors.Extras)
	}
}

func TestMultiDeleteWordBackward(t *testing.T) {
	b := bufferFrom("foo bar", "baz qux")
	b.Cursors.Primary = Cursor{Line: 0, Col: 7}
	b.Cursors.Extras = []Cursor{{1, 7}}

	b.DeleteWordBackward()
	if got := b.Contents(); got != "foo \nbaz " {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 4}) {
		t.Fatalf("expected primary (0,4), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 1, Col: 4}) {
		t.Fatalf("expected secondary (1,4), got %+v", b.Cursors.Extras)
	}
}

func TestMultiDeleteWordBackwardAcrossMerge(t *testing.T) {
	b := bufferFrom("ab", "cd ef")
	b.Cursors.Primary = Cursor{Line: 1, Col: 0}
	b.Cursors.Extras = []Cursor{{1, 5}}

	b.DeleteWordBackward()
	if got := b.Contents(); got != "abcd " {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected primary (0,2), got %+v", b.Cursors.Primary)
	}
	// The sibling rode the merged line up and keeps its offset into it.
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 5}) {
		t.Fatalf("expected secondary (0,5), got %+v", b.Cursors.Extras)
	}
}

func TestMultiDeleteWordForwardAcrossMerge(t *testing.T) {
	b := bufferFrom("ab", "cd ef")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}
	b.Cursors.Extras = []Cursor{{1, 3}}

	b.DeleteWordForward()
	if got := b.Contents(); got != "abcd " {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected primary (0,2), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 5}) {
		t.Fatalf("expected secondary (0,5), got %+v", b.Cursors.Extras)
	}
}

func TestMultiClosingBraceUnindents(t *testing.T) {
	b := bufferFrom("        ", "        ")
	b.Cursors.Primary = Cursor{Line: 0, Col: 8}
	b.Cursors.Extras = []Cursor{{1, 8}}

	b.InsertChar('}')
	if b.RowText(0) != "    }" || b.RowText(1) != "    }" {
		t.Fatalf("expected both lines pulled back, got %q / %q", b.RowText(0), b.RowText(1))
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 5}) {
		t.Fatalf("expected primary (0,5), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 1, Col: 5}) {
		t.Fatalf("expected secondary (1,5), got %+v", b.Cursors.Extras)
	}

	count, err := b.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if count != 10 {
		t.Fatalf("expected one group of 10 entries, undid %d", count)
	}
	if b.RowText(0) != "        " || b.RowText(1) != "        " {
		t.Fatalf("expected indentation restored, got %q / %q", b.RowText(0), b.RowText(1))
	}
}

func TestMultiDeleteForwardMergesLines(t *testing.T) {
	b := bufferFrom("ab", "cd", "ef")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}
	b.Cursors.Extras = []Cursor{{1, 2}}

	b.DeleteCharForward()
	if got := b.Contents(); got != "abcdef" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected primary (0,2), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 4}) {
		t.Fatalf("expected secondary (0,4), got %+v", b.Cursors.Extras)
	}

	b.Undo()
	if got := b.Contents(); got != "ab\ncd\nef" {
		t.Fatalf("expected batch undone, got %q", got)
	}
}
