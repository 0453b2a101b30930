package sourcemap

import (
	"fmt"
	"testing"
)

func TestLineIndexEmpty(t *testing.T) {
	idx := NewLineIndex("")
	if idx.LineCount() != 1 {
		t.Errorf("Empty source LineCount() = %d, want 1", idx.LineCount())
	}

	pos := idx.Position(0)
	if pos.Line != 1 || pos.Column != 1 {
		t.Errorf("Empty source offset 0: got %+v, want (1,1)", pos)
	}
}

func TestLineIndexSingleLine(t *testing.T) {
	source := "const x = 1;"
	idx := NewLineIndex(source)

	if idx.LineCount() != 1 {
		t.Errorf("Single line LineCount() = %d, want 1", idx.LineCount())
	}

	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 1, 1},   // 'c'
		{6, 1, 7},   // 'x'
		{11, 1, 12}, // ';'
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset_%d", tt.offset), func(t *testing.T) {
			pos := idx.Position(tt.offset)
			if pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("offset %d: got (%d, %d), want (%d, %d)",
					tt.offset, pos.Line, pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestLineIndexMultiLine(t *testing.T) {
	source := "namespace a;\nstruct S {}\nfunc f() {}"
	idx := NewLineIndex(source)

	if idx.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", idx.LineCount())
	}

	// Offset of 'struct' on line 2.
	pos := idx.Position(13)
	if pos.Line != 2 || pos.Column != 1 {
		t.Errorf("got %+v, want (2,1)", pos)
	}

	// Offset of 'func' on line 3.
	pos = idx.Position(25)
	if pos.Line != 3 || pos.Column != 1 {
		t.Errorf("got %+v, want (3,1)", pos)
	}
}

func TestLineIndexCRLF(t *testing.T) {
	source := "a;\r\nb;\r\nc;"
	idx := NewLineIndex(source)
	if idx.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", idx.LineCount())
	}
	pos := idx.Position(4) // 'b'
	if pos.Line != 2 || pos.Column != 1 {
		t.Errorf("got %+v, want (2,1)", pos)
	}
}

func TestLineColumnToByteOffsetRoundTrip(t *testing.T) {
	source := "one\ntwo\nthree"
	idx := NewLineIndex(source)
	offset := idx.LineColumnToByteOffset(1, 0) // 0-based line 1 = "two"
	if source[offset:offset+3] != "two" {
		t.Errorf("LineColumnToByteOffset(1,0) = %d, source there is %q", offset, source[offset:])
	}
}
