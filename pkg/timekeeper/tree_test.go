package timekeeper

import (
	"context"
	"testing"
)

func TestTreeAdd(t *testing.T) {
	tree := NewTree("main")

	baz, err := tree.Add("main/bar/baz")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if baz.Name() != "baz" {
		t.Errorf("expected baz, got %s", baz.Name())
	}

	bar, ok := tree.Node("main/bar")
	if !ok {
		t.Fatal("intermediate node main/bar was not created")
	}
	if bar.Len() != 1 {
		t.Errorf("expected bar to have 1 child, got %d", bar.Len())
	}

	again, err := tree.Add("main/bar/baz")
	if err != nil || again != baz {
		t.Errorf("adding an existing path should return the same node")
	}

	tree.MustAdd("main/foo")
	want := []string{"main", "main/bar", "main/bar/baz", "main/foo"}
	got := tree.Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTreeAddErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"wrong root", "other/foo"},
		{"empty element", "main//foo"},
		{"trailing separator", "main/foo/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewTree("main")
			if _, err := tree.Add(tt.path); err == nil {
				t.Errorf("Add(%q) should fail", tt.path)
			}
		})
	}
}

func TestTreeLookupPanicsOnUnknownPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Lookup of an unknown path should panic")
		}
	}()
	NewTree("main").Lookup("main/nope")
}

func TestTimeContext(t *testing.T) {
	src := newManual()
	tree := NewTree("main", WithSource(src))
	foo := tree.MustAdd("main/foo")

	ctx := NewContext(context.Background(), tree)
	got, ok := FromContext(ctx)
	if !ok || got != tree {
		t.Fatal("FromContext did not return the stored tree")
	}

	stop := TimeContext(ctx, "main/foo")
	src.AdvanceBy(dur(4, 0, 0))
	stop()

	if foo.Count() != 1 || foo.Elapsed() != dur(4, 0, 0) {
		t.Errorf("unexpected foo timing: count=%d elapsed=%+v", foo.Count(), foo.Elapsed())
	}

	// No tree or unknown path: no-op
	TimeContext(context.Background(), "main/foo")()
	TimeContext(ctx, "main/unknown")()
	if foo.Count() != 1 {
		t.Errorf("no-op scopes must not touch foo, count=%d", foo.Count())
	}

	snap := tree.Snapshot()
	if snap.Duration != foo.Elapsed() {
		t.Errorf("root group should aggregate foo")
	}
	tree.Reset()
	if foo.Count() != 0 {
		t.Error("Reset should clear the whole tree")
	}
}
