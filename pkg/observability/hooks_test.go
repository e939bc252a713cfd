package observability

import (
	"context"
	"testing"
	"time"
)

type recordingEnumeratorHooks struct {
	firsts   int
	advances int
}

func (r *recordingEnumeratorHooks) OnFirst(context.Context, string, int, int) { r.firsts++ }
func (r *recordingEnumeratorHooks) OnAdvance(context.Context, string, bool)   { r.advances++ }

type recordingTreeHooks struct {
	builds int
}

func (r *recordingTreeHooks) OnBuild(context.Context, int, int, int, time.Duration, error) {
	r.builds++
}
func (r *recordingTreeHooks) OnResolve(context.Context, int, int, int64, time.Duration) {}
func (r *recordingTreeHooks) OnTrace(context.Context, string, int)                      {}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	Enumerator().OnFirst(context.Background(), "all", 5, 0)
	Enumerator().OnAdvance(context.Background(), "next", true)
	Tree().OnBuild(context.Background(), 4, 2, 11, time.Millisecond, nil)
	Tree().OnResolve(context.Background(), 4, 2, 7, time.Millisecond)
	Tree().OnTrace(context.Background(), "dfs", 11)
	Cache().OnMemoHit(4, 2)
	Cache().OnMemoMiss(4, 2)
}

func TestSetAndResetHooks(t *testing.T) {
	t.Cleanup(Reset)

	enum := &recordingEnumeratorHooks{}
	tree := &recordingTreeHooks{}
	SetEnumeratorHooks(enum)
	SetTreeHooks(tree)

	Enumerator().OnFirst(context.Background(), "exact", 4, 2)
	Enumerator().OnAdvance(context.Background(), "previous", false)
	Tree().OnBuild(context.Background(), 4, 2, 11, 0, nil)

	if enum.firsts != 1 || enum.advances != 1 {
		t.Errorf("enumerator hooks got firsts=%d advances=%d, want 1 and 1", enum.firsts, enum.advances)
	}
	if tree.builds != 1 {
		t.Errorf("tree hooks got builds=%d, want 1", tree.builds)
	}

	Reset()
	Tree().OnBuild(context.Background(), 4, 2, 11, 0, nil)
	if tree.builds != 1 {
		t.Errorf("builds=%d after Reset, want 1", tree.builds)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	enum := &recordingEnumeratorHooks{}
	SetEnumeratorHooks(enum)
	SetEnumeratorHooks(nil)

	Enumerator().OnFirst(context.Background(), "all", 3, 0)
	if enum.firsts != 1 {
		t.Errorf("firsts=%d after SetEnumeratorHooks(nil), want 1", enum.firsts)
	}
}
