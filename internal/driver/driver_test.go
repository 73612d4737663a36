package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/layout"
	"ember/internal/trace"
)

func mainProgram() *ast.Program {
	b := ast.NewBuilder()
	b.File("main.em", []byte("fn main() -> int32 { return 7; }\n"))
	b.Module("main")
	b.Func("main", nil, b.Named("int32"), b.Block(b.Return(b.Int("7"))))
	return b.Prog
}

func brokenProgram() *ast.Program {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("P", b.F("x", b.Named("int32")))
	b.Func("get", []ast.Param{b.P("p", b.Named("P"))}, ast.NoTypeID,
		b.Block(b.Do(b.Member(b.Ident("p"), "z"))))
	return b.Prog
}

func TestCompileEmitsIR(t *testing.T) {
	res, err := Compile(context.Background(), mainProgram(), Options{Stage: StageEmit, Entry: "main::main"})
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.NotNil(t, res.Sema)
	require.Equal(t, 1, res.Files.Len())
	require.Contains(t, res.IR, "target triple = \"x86_64-unknown-linux-gnu\"")
	require.Contains(t, res.IR, "define i32 @main.main$()")
	require.Contains(t, res.IR, "define i32 @main() {")

	names := make([]string, len(res.Timing.Phases))
	for i, p := range res.Timing.Phases {
		names[i] = p.Name
	}
	require.Equal(t, []string{"register", "check", "emit"}, names)
}

func TestCompileCheckOnlySkipsEmission(t *testing.T) {
	res, err := Compile(context.Background(), mainProgram(), Options{Target: layout.I686LinuxGNU()})
	require.NoError(t, err)
	require.Empty(t, res.IR)
	require.Equal(t, "i686-unknown-linux-gnu", res.Sema.Target.Triple)
	require.Len(t, res.Timing.Phases, 2)
}

func TestCompileRecordsFaultInBag(t *testing.T) {
	res, err := Compile(context.Background(), brokenProgram(), Options{Stage: StageEmit})
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Nil(t, res.Sema)
	require.Empty(t, res.IR)
	require.Equal(t, 1, res.Bag.Len())
	require.Equal(t, diag.SemaUnknownSymbol, res.Bag.Items()[0].Code)
	require.Equal(t, "failed", res.Timing.Phases[len(res.Timing.Phases)-1].Note)
}

func TestCompileRejectsBadTarget(t *testing.T) {
	tgt := layout.X86_64LinuxGNU()
	tgt.PtrSize = 3
	_, err := Compile(context.Background(), mainProgram(), Options{Target: tgt})
	require.Error(t, err)

	_, err = Compile(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestCompileTimingsDiagnostic(t *testing.T) {
	res, err := Compile(context.Background(), mainProgram(), Options{Timings: true, MaxDiagnostics: 1})
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Equal(t, 1, res.Bag.Len())

	d := res.Bag.Items()[0]
	require.Equal(t, diag.ObsTimings, d.Code)
	require.Equal(t, diag.SevInfo, d.Severity)
	require.Len(t, d.Notes, 1)
	var payload timingPayload
	require.NoError(t, json.Unmarshal([]byte(d.Notes[0].Msg), &payload))
	require.Len(t, payload.Phases, 2)
	require.Equal(t, "register", payload.Phases[0].Name)
}

func TestCompileTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	_, err := Compile(ctx, mainProgram(), Options{Stage: StageEmit})
	require.NoError(t, err)

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	require.Equal(t, []string{"compile", "register", "check", "resolve", "validate", "emit"}, names)
}

func TestResolveEntry(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("f", []ast.Param{b.P("x", b.Named("int32"))}, ast.NoTypeID, b.Block())
	b.Func("f", []ast.Param{b.P("x", b.Named("int64"))}, ast.NoTypeID, b.Block())
	b.Global("g", b.Named("int32"), ast.NoExprID)
	b.Func("main", nil, ast.NoTypeID, b.Block())
	res, err := Compile(context.Background(), b.Prog, Options{})
	require.NoError(t, err)
	require.False(t, res.Failed())

	id, err := ResolveEntry(res.Sema, "main::main")
	require.NoError(t, err)
	require.Equal(t, "main::main", res.Sema.Table.QualifiedName(id))

	for _, name := range []string{"main::f", "main::g", "main::nope"} {
		_, err := ResolveEntry(res.Sema, name)
		var de *diag.Error
		require.ErrorAs(t, err, &de, name)
		require.Equal(t, diag.CodegenEntryPoint, de.Code(), name)
	}
	_, err = ResolveEntry(res.Sema, "main::f")
	require.Contains(t, err.Error(), "overloaded")
}

func TestCompileUnknownEntry(t *testing.T) {
	res, err := Compile(context.Background(), mainProgram(), Options{Stage: StageEmit, Entry: "main::start"})
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Equal(t, diag.CodegenEntryPoint, res.Bag.Items()[0].Code)
}

func TestUnitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.emb")
	require.NoError(t, WriteUnit(path, mainProgram()))

	prog, err := LoadUnit(path)
	require.NoError(t, err)
	require.Len(t, prog.Files, 1)
	require.Equal(t, "main.em", prog.Files[0].Path)

	_, err = LoadUnit(filepath.Join(t.TempDir(), "missing.emb"))
	require.Error(t, err)
}

func TestCheckUnits(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.emb")
	bad := filepath.Join(dir, "bad.emb")
	garbage := filepath.Join(dir, "garbage.emb")
	require.NoError(t, WriteUnit(good, mainProgram()))
	require.NoError(t, WriteUnit(bad, brokenProgram()))
	require.NoError(t, os.WriteFile(garbage, []byte("not msgpack"), 0o600))

	paths := []string{good, bad, garbage, good}
	results, err := CheckUnits(context.Background(), paths, Options{Stage: StageEmit}, 2)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, res := range results {
		require.Equal(t, paths[i], res.Path)
	}
	require.False(t, results[0].Failed())
	require.True(t, strings.Contains(results[3].IR, "@main.main$"))
	require.True(t, results[1].Failed())
	require.True(t, results[2].Failed())
	require.Equal(t, diag.IOLoadFailed, results[2].Bag.Items()[0].Code)

	empty, err := CheckUnits(context.Background(), nil, Options{}, 0)
	require.NoError(t, err)
	require.Nil(t, empty)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) byFile() map[string][]Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]Event)
	for _, ev := range s.events {
		out[ev.File] = append(out[ev.File], ev)
	}
	return out
}

func TestCheckUnitsProgress(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.emb")
	bad := filepath.Join(dir, "bad.emb")
	missing := filepath.Join(dir, "missing.emb")
	require.NoError(t, WriteUnit(good, mainProgram()))
	require.NoError(t, WriteUnit(bad, brokenProgram()))

	sink := &recordingSink{}
	_, err := CheckUnits(context.Background(), []string{good, bad, missing}, Options{Progress: sink}, 3)
	require.NoError(t, err)

	events := sink.byFile()
	require.Len(t, events, 3)

	phases := func(evs []Event) []string {
		var out []string
		for _, ev := range evs {
			if ev.Status == StatusWorking {
				out = append(out, ev.Phase)
			}
		}
		return out
	}
	require.Equal(t, StatusQueued, events[good][0].Status)
	require.Equal(t, StatusDone, events[good][len(events[good])-1].Status)
	require.Equal(t, []string{"load", "register", "check"}, phases(events[good]))

	require.Equal(t, StatusError, events[bad][len(events[bad])-1].Status)
	require.Equal(t, []string{"load"}, phases(events[missing]))
	require.Equal(t, StatusError, events[missing][len(events[missing])-1].Status)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a", Status: StatusDone})
	require.Equal(t, "a", (<-ch).File)
	ChannelSink{}.OnEvent(Event{})
}
