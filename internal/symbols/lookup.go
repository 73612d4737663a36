package symbols

import (
	"ember/internal/diag"
	"ember/internal/source"
)

// Found is the outcome of a name lookup: either one non-function
// declaration or the visible members of one or more overload sets.
type Found struct {
	Decl  DeclID
	Funcs []DeclID
}

// IsOverloadSet reports whether the lookup produced functions.
func (f Found) IsOverloadSet() bool {
	return len(f.Funcs) > 0
}

// Lookup resolves name as seen from module from. An empty qualifier searches
// the current module first and then the exported declarations of its
// imports; overload sets found in several imports merge, any other multiple
// hit is ambiguous. A qualifier must name the current module or an import.
func (t *Table) Lookup(from ModuleID, qualifier, name source.StringID, sp source.Span) (Found, error) {
	cur := t.Module(from)
	if cur == nil {
		return Found{}, diag.Errorf(diag.SemaUnknownSymbol, sp, "unknown module #%d", from)
	}
	if qualifier != source.NoStringID {
		return t.lookupQualified(cur, qualifier, name, sp)
	}
	if id, ok := cur.Member(name); ok {
		return t.visible(id, true), nil
	}

	var (
		hits  []DeclID
		funcs []DeclID
	)
	for _, imp := range cur.Imports {
		id, ok := t.Module(imp).Member(name)
		if !ok {
			continue
		}
		f := t.visible(id, false)
		switch {
		case f.IsOverloadSet():
			funcs = append(funcs, f.Funcs...)
			hits = append(hits, id)
		case f.Decl.IsValid():
			hits = append(hits, id)
		}
	}
	if len(hits) == 0 {
		return Found{}, diag.Errorf(diag.SemaUnknownSymbol, sp, "unknown symbol %q", t.Strings.MustLookup(name))
	}
	if len(hits) == 1 || len(funcs) > 0 && allSets(t, hits) {
		if len(funcs) > 0 {
			return Found{Funcs: funcs}, nil
		}
		return Found{Decl: hits[0]}, nil
	}
	err := diag.Errorf(diag.SemaAmbiguousSymbol, sp, "symbol %q is ambiguous", t.Strings.MustLookup(name))
	for _, h := range hits {
		err = err.WithNote(t.Decl(h).Span, "candidate %s", t.QualifiedName(h))
	}
	return Found{}, err
}

func allSets(t *Table, ids []DeclID) bool {
	for _, id := range ids {
		if t.Decl(id).Kind != DeclOverloadSet {
			return false
		}
	}
	return true
}

func (t *Table) lookupQualified(cur *Module, qualifier, name source.StringID, sp source.Span) (Found, error) {
	mid, ok := t.ModuleByName(qualifier)
	if !ok || (mid != cur.ID && !cur.ImportsModule(mid)) {
		return Found{}, diag.Errorf(diag.SemaUnknownSymbol, sp, "module %q is not imported", t.Strings.MustLookup(qualifier))
	}
	id, ok := t.Module(mid).Member(name)
	if ok {
		if f := t.visible(id, mid == cur.ID); f.Decl.IsValid() || f.IsOverloadSet() {
			return f, nil
		}
	}
	return Found{}, diag.Errorf(diag.SemaUnknownSymbol, sp, "unknown symbol %s::%s",
		t.Strings.MustLookup(qualifier), t.Strings.MustLookup(name))
}

// visible filters a declaration by export status. Inside its own module
// everything is visible.
func (t *Table) visible(id DeclID, local bool) Found {
	d := t.Decl(id)
	if d.Kind == DeclOverloadSet {
		if local {
			return Found{Funcs: append([]DeclID(nil), d.Members...)}
		}
		var out []DeclID
		for _, m := range d.Members {
			if t.Decl(m).Exported {
				out = append(out, m)
			}
		}
		return Found{Funcs: out}
	}
	if local || d.Exported {
		return Found{Decl: id}
	}
	return Found{}
}
