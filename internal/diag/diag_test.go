package diag

import (
	"errors"
	"fmt"
	"testing"

	"ember/internal/source"
)

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	base := Errorf(SemaCyclicDependency, source.Span{File: 0, Start: 3, End: 4}, "cyclic dependency on %q", "A").
		WithNote(source.Span{Start: 0, End: 1}, "first referenced here")
	wrapped := fmt.Errorf("unit main: %w", base)

	var de *Error
	if !errors.As(wrapped, &de) {
		t.Fatalf("expected *Error in chain")
	}
	if de.Code() != SemaCyclicDependency {
		t.Fatalf("code = %v", de.Code())
	}
	if de.Error() != `cyclic dependency on "A"` {
		t.Fatalf("message = %q", de.Error())
	}
	if len(de.Diag.Notes) != 1 {
		t.Fatalf("notes = %+v", de.Diag.Notes)
	}
}

func TestReportErrorIntoBag(t *testing.T) {
	bag := NewBag(4)
	r := &BagReporter{Bag: bag}
	if ReportError(r, errors.New("plain")) {
		t.Fatalf("plain errors must not be reported")
	}
	if !ReportError(r, Errorf(SemaTypeMismatch, source.Span{}, "mismatch")) {
		t.Fatalf("expected fault to be reported")
	}
	if !bag.HasErrors() || bag.Len() != 1 {
		t.Fatalf("bag = %+v", bag.Items())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.em", []byte("fn main() {\n  goto end;\n}\n"))
	d := NewError(SemaUnresolvedGoto, source.Span{File: id, Start: 14, End: 22}, "unresolved goto\ntarget \"end\"").
		WithNote(source.Span{File: id, Start: 0, End: 2}, "in function main")
	got := FormatShort([]Diagnostic{d}, fs, true)
	want := "error SEM3011 main.em:2:3 unresolved goto target \"end\"\n" +
		"note SEM3011 main.em:1:1 in function main"
	if got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewError(SemaNoOverload, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(NewError(SemaNoOverload, source.Span{}, "b")) {
		t.Fatalf("second add must be dropped")
	}
	other := NewBag(2)
	other.Add(NewError(SemaNoOverload, source.Span{}, "c"))
	bag.Merge(other)
	if bag.Len() != 2 {
		t.Fatalf("merge must grow the limit, len=%d", bag.Len())
	}
}
