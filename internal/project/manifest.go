package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ember/internal/layout"
)

// Manifest is a decoded ember.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config

	meta toml.MetaData
}

type Config struct {
	Target TargetConfig `toml:"target"`
	Build  BuildConfig  `toml:"build"`
}

// TargetConfig overrides fields of a platform preset. Keys that are absent
// from the file keep the preset value.
type TargetConfig struct {
	Preset       string      `toml:"preset"`
	Triple       string      `toml:"triple"`
	PointerSize  int         `toml:"pointer_size"`
	PointerAlign int         `toml:"pointer_align"`
	ExitCodeBits int         `toml:"exit_code_bits"`
	EntrySymbol  string      `toml:"entry_symbol"`
	Align        AlignConfig `toml:"align"`
}

type AlignConfig struct {
	I8  int `toml:"i8"`
	I16 int `toml:"i16"`
	I32 int `toml:"i32"`
	I64 int `toml:"i64"`
	F32 int `toml:"f32"`
	F64 int `toml:"f64"`
}

type BuildConfig struct {
	// Entry is the qualified name of the function wrapped into the platform
	// entry symbol, e.g. "main::main".
	Entry  string `toml:"entry"`
	Output string `toml:"output"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// FindAndLoad locates ember.toml above startDir and loads it.
func FindAndLoad(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// ParseManifest decodes manifest text; path is used for messages and to
// resolve relative outputs.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("build", "entry") && !strings.Contains(cfg.Build.Entry, "::") {
		return nil, fmt.Errorf("%s: [build].entry must be a qualified name like main::main, got %q", path, cfg.Build.Entry)
	}
	m := &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg, meta: meta}
	if _, err := m.Target(); err != nil {
		return nil, err
	}
	return m, nil
}

// Target builds the platform descriptor: the preset (x86_64-linux-gnu when
// none is named) with every key present in [target] applied on top.
func (m *Manifest) Target() (layout.Target, error) {
	tc := m.Config.Target
	name := tc.Preset
	if name == "" {
		name = layout.Default().Name
	}
	t, ok := layout.Preset(name)
	if !ok {
		return layout.Target{}, fmt.Errorf("%s: unknown target preset %q (known: %s)", m.Path, name, strings.Join(layout.PresetNames(), ", "))
	}
	if m.defined("triple") {
		t.Triple = tc.Triple
		t.Name = tc.Triple
	}
	setInt := func(dst *int, v int, keys ...string) {
		if m.defined(keys...) {
			*dst = v
		}
	}
	setInt(&t.PtrSize, tc.PointerSize, "pointer_size")
	setInt(&t.PtrAlign, tc.PointerAlign, "pointer_align")
	setInt(&t.ExitCodeBits, tc.ExitCodeBits, "exit_code_bits")
	setInt(&t.IntAlign[0], tc.Align.I8, "align", "i8")
	setInt(&t.IntAlign[1], tc.Align.I16, "align", "i16")
	setInt(&t.IntAlign[2], tc.Align.I32, "align", "i32")
	setInt(&t.IntAlign[3], tc.Align.I64, "align", "i64")
	setInt(&t.Float32Align, tc.Align.F32, "align", "f32")
	setInt(&t.Float64Align, tc.Align.F64, "align", "f64")
	if m.defined("entry_symbol") {
		t.EntrySymbol = tc.EntrySymbol
	}
	if err := t.Validate(); err != nil {
		return layout.Target{}, fmt.Errorf("%s: %w", m.Path, err)
	}
	return t, nil
}

func (m *Manifest) defined(keys ...string) bool {
	return m.meta.IsDefined(append([]string{"target"}, keys...)...)
}

// OutputPath resolves [build].output against the manifest directory.
func (m *Manifest) OutputPath() string {
	out := m.Config.Build.Output
	if out == "" || filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}
