package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/driver"
	"ember/internal/layout"
	"ember/internal/project"
	"ember/internal/source"
)

func writeMainUnit(t *testing.T, dir, name string) string {
	t.Helper()
	b := ast.NewBuilder()
	b.File("main.em", []byte("fn main() -> int32 { return 7; }\n"))
	b.Module("main")
	b.Func("main", nil, b.Named("int32"), b.Block(b.Return(b.Int("7"))))
	path := filepath.Join(dir, name)
	require.NoError(t, driver.WriteUnit(path, b.Prog))
	return path
}

func writeBrokenUnit(t *testing.T, dir, name string) string {
	t.Helper()
	b := ast.NewBuilder()
	fid := b.File("bad.em", []byte("fn get(p: P) { p.z; }\n"))
	b.Module("main")
	b.Struct("P", b.F("x", b.Named("int32")))
	b.At(source.Span{File: fid, Start: 15, End: 18})
	b.Func("get", []ast.Param{b.P("p", b.Named("P"))}, ast.NoTypeID,
		b.Block(b.Do(b.Member(b.Ident("p"), "z"))))
	path := filepath.Join(dir, name)
	require.NoError(t, driver.WriteUnit(path, b.Prog))
	return path
}

// execute runs the CLI with args; every call resets the flags it relies on.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--color", "off", "--quiet=false", "--timings=false", "--manifest", ""}
	rootCmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err = rootCmd.ExecuteContext(context.Background())
	stopSession(rootCmd)
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeMainUnit(t, dir, "good.emb")

	_, stderr, err := execute(t, "check", "--format", "pretty", "--ui", "off", "--emit=false", good)
	require.NoError(t, err)
	require.Contains(t, stderr, "checked 1 unit(s): 0 errors, 0 warnings")

	writeBrokenUnit(t, dir, "bad.emb")
	stdout, stderr, err := execute(t, "check", "--format", "pretty", "--ui", "off", "--emit=false", dir)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, stdout, "ERROR SEM3002")
	require.Contains(t, stdout, "bad.em:1:16: ERROR SEM3002")
	require.Contains(t, stderr, "checked 2 unit(s): 1 error, 0 warnings")
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	good := writeMainUnit(t, dir, "a.emb")
	bad := writeBrokenUnit(t, dir, "b.emb")

	stdout, _, err := execute(t, "check", "--format", "json", "--ui", "off", "--emit=false", good, bad)
	require.ErrorIs(t, err, errDiagnostics)

	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Units, 2)
	require.Equal(t, good, report.Units[0].Path)
	require.Zero(t, report.Units[0].Count)
	require.Equal(t, "SEM3002", report.Units[1].Diagnostics[0].Code)
}

func TestEmitCommand(t *testing.T) {
	dir := t.TempDir()
	unit := writeMainUnit(t, dir, "main.emb")

	stdout, _, err := execute(t, "emit", "--format", "pretty", "--output", "", "--no-entry=false", "--target", "", "--entry", "main::main", unit)
	require.NoError(t, err)
	require.Contains(t, stdout, "define i32 @main.main$()")
	require.Contains(t, stdout, "define i32 @main() {")

	out := filepath.Join(dir, "out.ll")
	stdout, _, err = execute(t, "emit", "--format", "pretty", "--output", out, "--no-entry=false", "--target", "i686-linux-gnu", "--entry", "", unit)
	require.NoError(t, err)
	require.Empty(t, stdout)
	ir, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(ir), `target triple = "i686-unknown-linux-gnu"`)
	require.NotContains(t, string(ir), "define i32 @main() {")

	_, stderr, err := execute(t, "emit", "--format", "pretty", "--output", "", "--no-entry=false", "--target", "", "--entry", "main::start", unit)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, stderr, "GEN4002")
}

func TestEmitUsesManifest(t *testing.T) {
	dir := t.TempDir()
	unit := writeMainUnit(t, dir, "main.emb")
	manifest := filepath.Join(dir, project.ManifestName)
	require.NoError(t, os.WriteFile(manifest, []byte(defaultManifest("wasm32-unknown-unknown", "main::main")), 0o600))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"emit", "--color", "off", "--quiet", "--manifest", manifest,
		"--format", "pretty", "--output", "", "--no-entry=false", "--target", "", "--entry", "", unit})
	err := rootCmd.ExecuteContext(context.Background())
	stopSession(rootCmd)
	require.NoError(t, err)

	ir, err := os.ReadFile(filepath.Join(dir, "out.ll"))
	require.NoError(t, err)
	require.Contains(t, string(ir), layout.Wasm32().Triple)
	require.Contains(t, string(ir), "@"+layout.Wasm32().EntrySymbol)
}

func TestBadManifestIsReported(t *testing.T) {
	dir := t.TempDir()
	unit := writeMainUnit(t, dir, "main.emb")
	manifest := filepath.Join(dir, project.ManifestName)
	require.NoError(t, os.WriteFile(manifest, []byte("[target]\npreset = \"pdp11\"\n"), 0o600))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"check", "--color", "off", "--quiet=false", "--manifest", manifest,
		"--format", "short", "--ui", "off", "--target", "", unit})
	err := rootCmd.ExecuteContext(context.Background())
	stopSession(rootCmd)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, out.String(), "PRJ5002")
	require.Contains(t, out.String(), "pdp11")
}

func TestTargetsCommand(t *testing.T) {
	stdout, _, err := execute(t, "targets", "--format", "json")
	require.NoError(t, err)
	var targets []targetJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &targets))
	require.Len(t, targets, len(layout.PresetNames()))

	defaults := 0
	for _, tgt := range targets {
		if tgt.Default {
			defaults++
			require.Equal(t, layout.Default().Name, tgt.Name)
		}
	}
	require.Equal(t, 1, defaults)

	stdout, _, err = execute(t, "targets", "--format", "pretty")
	require.NoError(t, err)
	require.Contains(t, stdout, layout.Default().Triple)
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	_, _, err := execute(t, "init", "--target", "i686-linux-gnu", "--entry", "main::main", dir)
	require.NoError(t, err)

	m, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
	require.NoError(t, err)
	tgt, err := m.Target()
	require.NoError(t, err)
	require.Equal(t, layout.I686LinuxGNU(), tgt)
	require.Equal(t, "main::main", m.Config.Build.Entry)

	_, _, err = execute(t, "init", "--target", "", "--entry", "main::main", dir)
	require.ErrorContains(t, err, "already initialized")

	_, _, err = execute(t, "init", "--target", "", "--entry", "main", filepath.Join(t.TempDir(), "other"))
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, "ember", payload.Tool)

	stdout, _, err = execute(t, "version", "--format", "pretty")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "ember "))
}

func TestCollectUnits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))
	for _, name := range []string{"b.emb", "sub/a.emb", ".cache/x.emb", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	got, err := collectUnits([]string{dir, filepath.Join(dir, "b.emb")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "b.emb"), filepath.Join(dir, "sub", "a.emb")}, got)

	_, err = collectUnits([]string{filepath.Join(dir, "missing.emb")})
	require.Error(t, err)
}

func TestFlagParsing(t *testing.T) {
	mode, err := readToggle("color", "ON")
	require.NoError(t, err)
	require.Equal(t, toggleOn, mode)
	require.True(t, mode.enabled(nil))
	_, err = readToggle("color", "sometimes")
	require.Error(t, err)

	_, err = readFormat("sarif")
	require.Error(t, err)

	tgt, err := resolveTarget("wasm32-unknown-unknown", nil)
	require.NoError(t, err)
	require.Equal(t, layout.Wasm32(), tgt)
	_, err = resolveTarget("pdp11", nil)
	require.Error(t, err)
	tgt, err = resolveTarget("", nil)
	require.NoError(t, err)
	require.Equal(t, layout.Default(), tgt)
}
