package source

import (
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.em", []byte("first\r\nsecond line\nthird"))
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalisation flag")
	}
	// "second" starts right after "first\n"
	start, end := fs.Resolve(Span{File: id, Start: 6, End: 12})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("unexpected start %+v", start)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Fatalf("unexpected end %+v", end)
	}
	if got := f.GetLine(2); got != "second line" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Fatalf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q", got)
	}
}

func TestInternerNormalizesNames(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("expected NFC-equal names to share an ID: %d vs %d", composed, decomposed)
	}
	if s := in.MustLookup(composed); s != "caf\u00e9" {
		t.Fatalf("lookup returned %q", s)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 12}
	b := Span{File: 1, Start: 4, End: 11}
	if got := a.Cover(b); got.Start != 4 || got.End != 12 {
		t.Fatalf("cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 50}); got != a {
		t.Fatalf("cross-file cover must keep receiver, got %v", got)
	}
}
