package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Semantic faults.
	SemaInfo              Code = 3000
	SemaRedefinition      Code = 3001
	SemaUnknownSymbol     Code = 3002
	SemaAmbiguousSymbol   Code = 3003
	SemaCyclicDependency  Code = 3004
	SemaTypeMismatch      Code = 3005
	SemaInvalidCast       Code = 3006
	SemaNoOverload        Code = 3007
	SemaAmbiguousOverload Code = 3008
	SemaLiteralRange      Code = 3009
	SemaZeroSizeOperation Code = 3010
	SemaUnresolvedGoto    Code = 3011
	SemaNotAssignable     Code = 3012
	SemaNotConstant       Code = 3013
	SemaInvalidOperand    Code = 3014
	SemaMisplacedControl  Code = 3015

	// Code generation.
	CodegenUnsupported Code = 4001
	CodegenEntryPoint  Code = 4002

	// Input / configuration.
	IOLoadFailed      Code = 5001
	ProjectBadConfig  Code = 5002
	ProjectBadPayload Code = 5003

	// Observability.
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	SemaInfo:              "Semantic information",
	SemaRedefinition:      "Redefinition",
	SemaUnknownSymbol:     "Unknown symbol",
	SemaAmbiguousSymbol:   "Ambiguous symbol",
	SemaCyclicDependency:  "Cyclic interface dependency",
	SemaTypeMismatch:      "Type mismatch",
	SemaInvalidCast:       "Invalid cast",
	SemaNoOverload:        "No matching overload found",
	SemaAmbiguousOverload: "Ambiguous overload resolution",
	SemaLiteralRange:      "Literal out of range",
	SemaZeroSizeOperation: "Invalid operation on sizeless type",
	SemaUnresolvedGoto:    "Unresolved goto target",
	SemaNotAssignable:     "Expression is not assignable",
	SemaNotConstant:       "Initializer is not constant",
	SemaInvalidOperand:    "Invalid operand",
	SemaMisplacedControl:  "Misplaced control statement",
	CodegenUnsupported:    "Unsupported construct in code generation",
	CodegenEntryPoint:     "Invalid entry point",
	IOLoadFailed:          "Failed to load input",
	ProjectBadConfig:      "Invalid project configuration",
	ProjectBadPayload:     "Malformed syntax tree payload",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
