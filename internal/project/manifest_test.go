package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/layout"
)

func TestManifestDefaultsToHostPreset(t *testing.T) {
	m, err := ParseManifest("ember.toml", []byte("[build]\nentry = \"main::main\"\n"))
	require.NoError(t, err)
	tgt, err := m.Target()
	require.NoError(t, err)
	require.Equal(t, layout.X86_64LinuxGNU(), tgt)
	require.Equal(t, "main::main", m.Config.Build.Entry)
}

func TestManifestOverridesPreset(t *testing.T) {
	src := `
[target]
preset = "i686-linux-gnu"
exit_code_bits = 8
entry_symbol = "_start"

[target.align]
i64 = 8
`
	m, err := ParseManifest("ember.toml", []byte(src))
	require.NoError(t, err)
	tgt, err := m.Target()
	require.NoError(t, err)

	want := layout.I686LinuxGNU()
	want.ExitCodeBits = 8
	want.EntrySymbol = "_start"
	want.IntAlign[3] = 8
	require.Equal(t, want, tgt)
}

func TestManifestCustomTriple(t *testing.T) {
	src := `
[target]
triple = "riscv32-unknown-elf"
pointer_size = 4
pointer_align = 4
`
	m, err := ParseManifest("ember.toml", []byte(src))
	require.NoError(t, err)
	tgt, err := m.Target()
	require.NoError(t, err)
	require.Equal(t, "riscv32-unknown-elf", tgt.Triple)
	require.Equal(t, 4, tgt.PtrSize)
	require.Equal(t, 32, tgt.PtrBits())
}

func TestManifestRejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "[target\n", "failed to parse TOML"},
		{"unknown key", "[target]\nfoo = 1\n", "unknown keys: target.foo"},
		{"unknown preset", "[target]\npreset = \"pdp11\"\n", "unknown target preset"},
		{"bad alignment", "[target.align]\ni32 = 3\n", "not a power of two"},
		{"zero alignment", "[target.align]\nf64 = 0\n", "not a power of two"},
		{"bad pointer", "[target]\npointer_size = 3\n", "pointer size 3"},
		{"bad exit width", "[target]\nexit_code_bits = 12\n", "exit code width"},
		{"unqualified entry", "[build]\nentry = \"main\"\n", "qualified name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest("ember.toml", []byte(tt.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ManifestName), []byte("[build]\noutput = \"out/prog.ll\"\n"), 0o600))

	m, ok, err := FindAndLoad(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "out", "prog.ll"), m.OutputPath())

	dir, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, dir)
}

func TestFindManifestMissing(t *testing.T) {
	_, ok, err := FindManifest(t.TempDir())
	require.NoError(t, err)
	require.False(t, ok)
}
