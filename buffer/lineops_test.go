package buffer

import "testing"

func TestDuplicateLines(t *testing.T) {
	b := bufferFrom("a", "b")
	b.Cursors.Primary = Cursor{Line: 1, Col: 1}
	b.Cursors.Extras = []Cursor{{0, 0}}

	b.DuplicateLines()

	if got := b.Contents(); got != "a\na\nb\nb" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 3, Col: 1}) {
		t.Fatalf("expected primary (3,1), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected secondary (1,0), got %+v", b.Cursors.Extras)
	}
}

func TestDeleteLines(t *testing.T) {
	b := bufferFrom("a", "b", "c")
	b.Cursors.Primary = Cursor{Line: 1, Col: 0}

	b.DeleteLines()
	if got := b.Contents(); got != "a\nc" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected primary (1,0), got %+v", b.Cursors.Primary)
	}
}

func TestDeleteLastLineClearsIt(t *testing.T) {
	b := bufferFrom("only")
	b.DeleteLines()
	if b.RowCount() != 1 || b.RowText(0) != "" {
		t.Fatalf("expected one empty row, got %d rows %q", b.RowCount(), b.Contents())
	}
}

func TestMoveLinesUpAsBlock(t *testing.T) {
	b := bufferFrom("a", "b", "c")
	b.Cursors.Primary = Cursor{Line: 1, Col: 0}
	b.Cursors.Extras = []Cursor{{2, 0}}

	b.MoveLinesUp()
	if got := b.Contents(); got != "b\nc\na" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 0}) {
		t.Fatalf("expected primary (0,0), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected secondary (1,0), got %+v", b.Cursors.Extras)
	}

	// Block already at the top stays put.
	b.MoveLinesUp()
	b.MoveLinesUp()
	if got := b.Contents(); got != "b\nc\na" {
		t.Fatalf("expected top block pinned, got %q", got)
	}
}

func TestMoveLinesDownAsBlock(t *testing.T) {
	b := bufferFrom("a", "b", "c")
	b.Cursors.Primary = Cursor{Line: 0, Col: 0}
	b.Cursors.Extras = []Cursor{{1, 0}}

	b.MoveLinesDown()
	if got := b.Contents(); got != "c\na\nb" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 1, Col: 0}) {
		t.Fatalf("expected primary (1,0), got %+v", b.Cursors.Primary)
	}
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 2, Col: 0}) {
		t.Fatalf("expected secondary (2,0), got %+v", b.Cursors.Extras)
	}

	b.MoveLinesDown()
	if got := b.Contents(); got != "c\na\nb" {
		t.Fatalf("expected bottom block pinned, got %q", got)
	}
}

func TestJoinLinesInsertsSpace(t *testing.T) {
	b := bufferFrom("foo", "bar")
	b.Cursors.Primary = Cursor{Line: 0, Col: 0}
	b.Cursors.Extras = []Cursor{{1, 1}}

	b.JoinLines()
	if got := b.Contents(); got != "foo bar" {
		t.Fatalf("unexpected contents: %q", got)
	}
	// The cursor that sat on the pulled-up line keeps its place.
	if len(b.Cursors.Extras) != 1 || b.Cursors.Extras[0] != (Cursor{Line: 0, Col: 5}) {
		t.Fatalf("expected secondary (0,5), got %+v", b.Cursors.Extras)
	}
}

func TestJoinLinesNoDoubleSpace(t *testing.T) {
	b := bufferFrom("foo ", "bar")
	b.JoinLines()
	if got := b.Contents(); got != "foo bar" {
		t.Fatalf("unexpected contents: %q", got)
	}
}

func TestIndentUnindentLines(t *testing.T) {
	b := bufferFrom("ab")
	b.Cursors.Primary = Cursor{Line: 0, Col: 1}

	b.IndentLines()
	if b.RowText(0) != "    ab" {
		t.Fatalf("unexpected indent: %q", b.RowText(0))
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 5}) {
		t.Fatalf("expected cursor (0,5), got %+v", b.Cursors.Primary)
	}

	b.UnindentLines()
	if b.RowText(0) != "ab" {
		t.Fatalf("unexpected unindent: %q", b.RowText(0))
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 1}) {
		t.Fatalf("expected cursor (0,1), got %+v", b.Cursors.Primary)
	}
}

func TestUnindentPartialLeadingSpaces(t *testing.T) {
	b := bufferFrom("  ab")
	b.Cursors.Primary = Cursor{Line: 0, Col: 2}
	b.UnindentLines()
	if b.RowText(0) != "ab" {
		t.Fatalf("unexpected unindent: %q", b.RowText(0))
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 0}) {
		t.Fatalf("expected cursor (0,0), got %+v", b.Cursors.Primary)
	}
}

func TestToggleLineCommentsAddsMarkers(t *testing.T) {
	b := bufferFrom("func main() {", "", "\tcall()")
	b.Cursors.Primary = Cursor{Line: 0, Col: 0}
	b.Cursors.Extras = []Cursor{{1, 0}, {2, 1}}

	b.ToggleLineComments()
	if b.RowText(0) != "// func main() {" {
		t.Fatalf("unexpected line 0: %q", b.RowText(0))
	}
	if b.RowText(1) != "" {
		t.Fatalf("blank line should stay blank, got %q", b.RowText(1))
	}
	if b.RowText(2) != "\t// call()" {
		t.Fatalf("unexpected line 2: %q", b.RowText(2))
	}
}

func TestToggleLineCommentsRemovesMarkers(t *testing.T) {
	b := bufferFrom("// a", "//b")
	b.Cursors.Primary = Cursor{Line: 0, Col: 4}
	b.Cursors.Extras = []Cursor{{1, 3}}

	b.ToggleLineComments()
	if got := b.Contents(); got != "a\nb" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if b.Cursors.Primary != (Cursor{Line: 0, Col: 1}) {
		t.Fatalf("expected primary (0,1), got %+v", b.Cursors.Primary)
	}
}

func TestToggleLineCommentsMixedCommentsAll(t *testing.T) {
	b := bufferFrom("// a", "b")
	b.Cursors.Primary = Cursor{Line: 0, Col: 0}
	b.Cursors.Extras = []Cursor{{1, 0}}

	b.ToggleLineComments()
	if got := b.Contents(); got != "// // a\n// b" {
		t.Fatalf("unexpected contents: %q", got)
	}
}

func TestToggleBlockCommentWrapsCurrentLine(t *testing.T) {
	b := bufferFrom("  code")
	b.Cursors.Primary = Cursor{Line: 0, Col: 3}

	b.ToggleBlockComment()
	if b.RowText(0) != "  /* code */" {
		t.Fatalf("unexpected contents: %q", b.RowText(0))
	}
	if b.Selection == nil {
		t.Fatalf("expected selection over the wrapped text")
	}
	start, end := b.Selection.Normalized()
	if start != (Cursor{Line: 0, Col: 2}) || end != (Cursor{Line: 0, Col: 12}) {
		t.Fatalf("unexpected selection %+v-%+v", start, end)
	}
}

func TestToggleBlockCommentUnwraps(t *testing.T) {
	b := bufferFrom("/* code */")
	b.Cursors.Primary = Cursor{Line: 0, Col: 0}

	b.ToggleBlockComment()
	if b.RowText(0) != "code" {
		t.Fatalf("unexpected contents: %q", b.RowText(0))
	}
}

func TestToggleBlockCommentMultilineSelection(t *testing.T) {
	b := bufferFrom("abc", "def")
	b.Selection = &Selection{Anchor: Cursor{Line: 0, Col: 1}, Live: Cursor{Line: 1, Col: 2}}

	b.ToggleBlockComment()
	if got := b.Contents(); got != "a/* bc\nde */f" {
		t.Fatalf("unexpected contents: %q", got)
	}
	start, end := b.Selection.Normalized()
	if start != (Cursor{Line: 0, Col: 1}) || end != (Cursor{Line: 1, Col: 5}) {
		t.Fatalf("unexpected selection %+v-%+v", start, end)
	}
}
