package driver

import (
	"ember/internal/diag"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/symbols"
)

// ResolveEntry finds the function named by a qualified name such as
// "main::main". Overloaded names are rejected: the entry point must be
// unique.
func ResolveEntry(res *sema.Result, qname string) (symbols.DeclID, error) {
	var (
		found []symbols.DeclID
		sp    source.Span
	)
	for _, id := range res.Order {
		if res.Table.QualifiedName(id) != qname {
			continue
		}
		d := res.Table.Decl(id)
		if d.Kind != symbols.DeclFunc {
			return symbols.NoDeclID, diag.Errorf(diag.CodegenEntryPoint, d.Span, "entry point %s is not a function", qname)
		}
		found = append(found, id)
		sp = d.Span
	}
	switch len(found) {
	case 0:
		return symbols.NoDeclID, diag.Errorf(diag.CodegenEntryPoint, source.Span{}, "entry point %s is not defined", qname)
	case 1:
		return found[0], nil
	}
	err := diag.Errorf(diag.CodegenEntryPoint, sp, "entry point %s is overloaded", qname)
	for _, id := range found {
		err = err.WithNote(res.Table.Decl(id).Span, "candidate %s", res.Table.QualifiedName(id))
	}
	return symbols.NoDeclID, err
}
