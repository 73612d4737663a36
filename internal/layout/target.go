package layout

import (
	"fmt"
	"math/bits"
	"slices"
)

// Target describes the data model of the compilation target: pointer size
// and the alignment of every fixed-width scalar.
type Target struct {
	Name         string
	Triple       string
	PtrSize      int
	PtrAlign     int
	IntAlign     [4]int // int8, int16, int32, int64
	Float32Align int
	Float64Align int
	ExitCodeBits int
	EntrySymbol  string
}

func X86_64LinuxGNU() Target {
	return Target{
		Name:         "x86_64-linux-gnu",
		Triple:       "x86_64-unknown-linux-gnu",
		PtrSize:      8,
		PtrAlign:     8,
		IntAlign:     [4]int{1, 2, 4, 8},
		Float32Align: 4,
		Float64Align: 8,
		ExitCodeBits: 32,
		EntrySymbol:  "main",
	}
}

func AArch64LinuxGNU() Target {
	t := X86_64LinuxGNU()
	t.Name = "aarch64-linux-gnu"
	t.Triple = "aarch64-unknown-linux-gnu"
	return t
}

// I686LinuxGNU follows the i386 System V ABI: 64-bit scalars are only
// 4-byte aligned inside aggregates.
func I686LinuxGNU() Target {
	return Target{
		Name:         "i686-linux-gnu",
		Triple:       "i686-unknown-linux-gnu",
		PtrSize:      4,
		PtrAlign:     4,
		IntAlign:     [4]int{1, 2, 4, 4},
		Float32Align: 4,
		Float64Align: 4,
		ExitCodeBits: 32,
		EntrySymbol:  "main",
	}
}

func Wasm32() Target {
	return Target{
		Name:         "wasm32-unknown-unknown",
		Triple:       "wasm32-unknown-unknown",
		PtrSize:      4,
		PtrAlign:     4,
		IntAlign:     [4]int{1, 2, 4, 8},
		Float32Align: 4,
		Float64Align: 8,
		ExitCodeBits: 32,
		EntrySymbol:  "_start",
	}
}

// Default is the target used when nothing else is configured.
func Default() Target {
	return X86_64LinuxGNU()
}

var presets = map[string]func() Target{
	"x86_64-linux-gnu":       X86_64LinuxGNU,
	"aarch64-linux-gnu":      AArch64LinuxGNU,
	"i686-linux-gnu":         I686LinuxGNU,
	"wasm32-unknown-unknown": Wasm32,
}

// Preset returns a named built-in target.
func Preset(name string) (Target, bool) {
	mk, ok := presets[name]
	if !ok {
		return Target{}, false
	}
	return mk(), true
}

// PresetNames lists built-in targets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IntAlignFor returns the alignment of a fixed-width integer.
func (t Target) IntAlignFor(widthBits int) int {
	switch widthBits {
	case 8:
		return t.IntAlign[0]
	case 16:
		return t.IntAlign[1]
	case 32:
		return t.IntAlign[2]
	case 64:
		return t.IntAlign[3]
	}
	return 1
}

// PtrBits is the width of isize/usize.
func (t Target) PtrBits() int {
	return t.PtrSize * 8
}

func isPow2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// Validate rejects descriptors that cannot produce a consistent layout.
func (t Target) Validate() error {
	if t.Triple == "" {
		return fmt.Errorf("target: empty triple")
	}
	if t.PtrSize != 2 && t.PtrSize != 4 && t.PtrSize != 8 {
		return fmt.Errorf("target %s: pointer size %d not supported", t.Triple, t.PtrSize)
	}
	check := func(what string, v int) error {
		if !isPow2(v) {
			return fmt.Errorf("target %s: %s alignment %d is not a power of two", t.Triple, what, v)
		}
		return nil
	}
	if err := check("pointer", t.PtrAlign); err != nil {
		return err
	}
	for i, name := range [...]string{"i8", "i16", "i32", "i64"} {
		if err := check(name, t.IntAlign[i]); err != nil {
			return err
		}
	}
	if err := check("f32", t.Float32Align); err != nil {
		return err
	}
	if err := check("f64", t.Float64Align); err != nil {
		return err
	}
	switch t.ExitCodeBits {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("target %s: exit code width %d not supported", t.Triple, t.ExitCodeBits)
	}
	if t.EntrySymbol == "" {
		return fmt.Errorf("target %s: empty entry symbol", t.Triple)
	}
	return nil
}
