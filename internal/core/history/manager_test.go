package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/scene"
)

// fakeGraph is a scene whose whole state is one string.
type fakeGraph struct {
	state   string
	renders int
	loads   int

	fail    error  // returned through onComplete
	async   bool   // park completions in pending
	onLoad  func() // runs inside Deserialize before completion
	pending []func()
}

func (g *fakeGraph) Serialize(exclude []string) scene.Snapshot {
	return scene.Snapshot(g.state)
}

func (g *fakeGraph) Deserialize(snap scene.Snapshot, onComplete func(error)) {
	g.loads++
	complete := func() {
		if g.fail == nil {
			g.state = string(snap)
		}
		if g.onLoad != nil {
			g.onLoad()
		}
		onComplete(g.fail)
	}
	if g.async {
		g.pending = append(g.pending, complete)
		return
	}
	complete()
}

func (g *fakeGraph) Render() { g.renders++ }

func (g *fakeGraph) finish() {
	pending := g.pending
	g.pending = nil
	for _, f := range pending {
		f()
	}
}

func (m *Manager) top() scene.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undo[len(m.undo)-1]
}

func (m *Manager) undoStates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.undo))
	for i, s := range m.undo {
		out[i] = string(s)
	}
	return out
}

func mutate(t *testing.T, m *Manager, g *fakeGraph, state string) {
	t.Helper()
	g.state = state
	if !m.Record() {
		t.Fatalf("Record(%s) rejected", state)
	}
}

func assertDepths(t *testing.T, m *Manager, undo, redo int) {
	t.Helper()
	if got := m.UndoDepth(); got != undo {
		t.Errorf("UndoDepth = %d, want %d", got, undo)
	}
	if got := m.RedoDepth(); got != redo {
		t.Errorf("RedoDepth = %d, want %d", got, redo)
	}
}

func TestSeedInvariant(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})

	assertDepths(t, m, 1, 0)
	if !m.top().Equal(scene.Snapshot("S0")) {
		t.Fatalf("top = %q, want S0", m.top())
	}
	if m.Capacity() != DefaultCapacity {
		t.Fatalf("Capacity = %d", m.Capacity())
	}
	if m.Mode() != Idle {
		t.Fatalf("Mode = %v", m.Mode())
	}
}

func TestRecordClearsRedo(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})
	mutate(t, m, g, "S1")
	mutate(t, m, g, "S2")

	if ok, err := m.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	assertDepths(t, m, 2, 1)

	mutate(t, m, g, "S3")
	assertDepths(t, m, 3, 0)
	if m.CanRedo() {
		t.Fatal("CanRedo after a new record")
	}
}

func TestUndoRedoAreInverses(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})
	for i := 1; i <= 4; i++ {
		mutate(t, m, g, fmt.Sprintf("S%d", i))
	}

	if _, err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.state != "S3" {
		t.Fatalf("after undo state = %s, want S3", g.state)
	}
	if _, err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if g.state != "S4" {
		t.Fatalf("after redo state = %s, want S4", g.state)
	}
	if !m.top().Equal(scene.Snapshot("S4")) {
		t.Fatalf("top = %s", m.top())
	}
	if g.renders != 2 {
		t.Fatalf("renders = %d, want 2", g.renders)
	}
}

func TestBoundaryNoOps(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})

	ok, err := m.Undo()
	if ok || err != nil {
		t.Fatalf("Undo at seed = %v, %v", ok, err)
	}
	ok, err = m.Redo()
	if ok || err != nil {
		t.Fatalf("Redo with empty stack = %v, %v", ok, err)
	}
	assertDepths(t, m, 1, 0)
	if g.loads != 0 || g.renders != 0 {
		t.Fatalf("scene touched: loads=%d renders=%d", g.loads, g.renders)
	}
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("CanUndo/CanRedo at the boundary")
	}
}

func TestCapacityBound(t *testing.T) {
	const k = 10
	g := &fakeGraph{state: "seed"}
	m := NewManager(g, Config{Capacity: k})

	for i := 1; i <= k+5; i++ {
		mutate(t, m, g, fmt.Sprintf("r%d", i))
	}

	states := m.undoStates()
	if len(states) != k {
		t.Fatalf("undo length = %d, want %d", len(states), k)
	}
	if states[0] != "r6" {
		t.Fatalf("oldest surviving = %s, want r6", states[0])
	}
	if states[k-1] != fmt.Sprintf("r%d", k+5) {
		t.Fatalf("newest = %s", states[k-1])
	}

	// Undo stops at the oldest survivor.
	undone := 0
	for {
		ok, err := m.Undo()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		undone++
	}
	if undone != k-1 || g.state != "r6" {
		t.Fatalf("undone %d steps to %s", undone, g.state)
	}
}

func TestReentrantRecordIsRejected(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})
	mutate(t, m, g, "S1")

	var accepted []bool
	g.onLoad = func() {
		// The scene's own notifications fire before completion.
		accepted = append(accepted, m.Record())
		m.TextChanged()
	}

	if _, err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if len(accepted) != 1 || accepted[0] {
		t.Fatalf("Record during restore accepted: %v", accepted)
	}
	assertDepths(t, m, 1, 1)
	if m.Mode() != Idle {
		t.Fatalf("Mode = %v after completion", m.Mode())
	}
}

func TestAsyncRestore(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})
	mutate(t, m, g, "S1")
	mutate(t, m, g, "S2")

	g.async = true
	ok, err := m.Undo()
	if !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if m.Mode() != Restoring {
		t.Fatalf("Mode = %v, want restoring", m.Mode())
	}
	if m.Record() {
		t.Fatal("Record accepted while restoring")
	}
	if ok, _ := m.Undo(); ok {
		t.Fatal("Undo accepted while restoring")
	}
	if ok, _ := m.Redo(); ok {
		t.Fatal("Redo accepted while restoring")
	}
	assertDepths(t, m, 2, 1)

	g.finish()
	if m.Mode() != Idle {
		t.Fatalf("Mode = %v after completion", m.Mode())
	}
	if g.state != "S1" {
		t.Fatalf("state = %s", g.state)
	}
}

func TestRestoreFailureClearsGuard(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})
	mutate(t, m, g, "S1")

	loadErr := errors.New("corrupt snapshot")
	g.fail = loadErr
	ok, err := m.Undo()
	if !ok {
		t.Fatal("Undo reported no-op")
	}
	if !errors.Is(err, loadErr) {
		t.Fatalf("err = %v, want wrapped %v", err, loadErr)
	}
	if m.Mode() != Idle {
		t.Fatalf("Mode = %v after failed restore", m.Mode())
	}

	g.fail = nil
	mutate(t, m, g, "S2")
	assertDepths(t, m, 2, 0)
}

func TestEndToEndScenario(t *testing.T) {
	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{})

	mutate(t, m, g, "S1") // add text
	mutate(t, m, g, "S2") // change colour

	steps := []struct {
		op   func() (bool, error)
		want string
	}{
		{m.Undo, "S1"},
		{m.Undo, "S0"},
		{m.Redo, "S1"},
		{m.Redo, "S2"},
	}
	for i, step := range steps {
		if ok, err := step.op(); !ok || err != nil {
			t.Fatalf("step %d: %v, %v", i, ok, err)
		}
		if g.state != step.want {
			t.Fatalf("step %d: state = %s, want %s", i, g.state, step.want)
		}
	}

	mutate(t, m, g, "S3") // add shape
	assertDepths(t, m, 4, 0)
	want := []string{"S0", "S1", "S2", "S3"}
	got := m.undoStates()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("undo stack = %v, want %v", got, want)
		}
	}
}

func TestSessionGranularity(t *testing.T) {
	g := &fakeGraph{state: "Hello"}
	m := NewManager(g, Config{Granularity: GranularitySession})

	m.BeginEdit()
	assertDepths(t, m, 1, 0)
	for _, s := range []string{"Hello!", "Hello!!", "Hello!!!"} {
		g.state = s
		m.TextChanged()
	}
	assertDepths(t, m, 1, 0)
	if !m.CanUndo() {
		t.Fatal("pending session text should be undoable")
	}
	if !m.EndEdit() {
		t.Fatal("EndEdit did not record a dirty session")
	}
	assertDepths(t, m, 2, 0)

	// A session without changes adds nothing.
	m.BeginEdit()
	if m.EndEdit() {
		t.Fatal("EndEdit recorded an unchanged session")
	}
	assertDepths(t, m, 2, 0)

	if _, err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.state != "Hello" {
		t.Fatalf("one undo should revert the whole session, state = %s", g.state)
	}
}

func TestUndoDuringSessionCommitsFirst(t *testing.T) {
	g := &fakeGraph{state: "A"}
	m := NewManager(g, Config{Granularity: GranularitySession})

	m.BeginEdit()
	g.state = "AB"
	m.TextChanged()

	if ok, err := m.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if g.state != "A" {
		t.Fatalf("state = %s, want A", g.state)
	}
	if _, err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if g.state != "AB" {
		t.Fatalf("redo state = %s, want AB", g.state)
	}
	if m.EndEdit() {
		t.Fatal("EndEdit recorded after the session was already committed")
	}
}

func TestKeystrokeGranularity(t *testing.T) {
	g := &fakeGraph{state: ""}
	m := NewManager(g, Config{Granularity: GranularityKeystroke})

	m.BeginEdit()
	for _, s := range []string{"a", "ab", "abc"} {
		g.state = s
		m.TextChanged()
	}
	if m.EndEdit() {
		t.Fatal("EndEdit recorded in keystroke mode")
	}
	assertDepths(t, m, 4, 0)

	if _, err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.state != "ab" {
		t.Fatalf("state = %s, want ab", g.state)
	}
}

func TestHistoryChangedEvents(t *testing.T) {
	events := event.NewManager()
	var last event.HistoryChangedData
	count := 0
	events.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		last = e.Data.(event.HistoryChangedData)
		count++
		return false
	})

	g := &fakeGraph{state: "S0"}
	m := NewManager(g, Config{Events: events})
	mutate(t, m, g, "S1")
	if _, err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("events = %d, want 2", count)
	}
	if last.UndoDepth != 1 || last.RedoDepth != 1 {
		t.Fatalf("last = %+v", last)
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"", GranularitySession, false},
		{"session", GranularitySession, false},
		{" Keystroke ", GranularityKeystroke, false},
		{"word", GranularitySession, true},
	}
	for _, tt := range tests {
		got, err := ParseGranularity(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseGranularity(%q) = %v, %v", tt.in, got, err)
		}
	}
}
