package symbols

// DeclID identifies a declaration in the table arena.
type DeclID uint32

const (
	// NoDeclID marks the absence of a declaration.
	NoDeclID DeclID = 0
)

// IsValid reports whether the declaration ID refers to an allocated slot.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// ModuleID identifies a module in the table.
type ModuleID uint32

const (
	// NoModuleID marks the absence of a module.
	NoModuleID ModuleID = 0
)

// IsValid reports whether the module ID refers to an allocated module.
func (id ModuleID) IsValid() bool { return id != NoModuleID }
