package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelShouldEmit(t *testing.T) {
	assert.True(t, LevelPhase.ShouldEmit(ScopeDriver))
	assert.False(t, LevelPhase.ShouldEmit(ScopeType))
	assert.True(t, LevelDetail.ShouldEmit(ScopeType))
	assert.False(t, LevelDetail.ShouldEmit(ScopeMember))
	assert.True(t, LevelDebug.ShouldEmit(ScopeMember))
	assert.False(t, LevelError.ShouldEmit(ScopeDriver))
}

func TestParseLevelAndMode(t *testing.T) {
	l, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, l)
	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	m, err := ParseMode("both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Enter(ctx, ScopeDriver, "decl")
	_, inner := Enter(ctx, ScopeType, "type:System.String")
	inner.WithExtra("members", "3").End("ok")
	Point(tr, ScopeMember, "member:Length", "", outer.ID())
	outer.End("")
	require.NoError(t, tr.Flush())

	out := buf.String()
	assert.Contains(t, out, "begin decl\n")
	assert.Regexp(t, `end   type:System\.String \(ok\) \d+\.\d\dms \{members=3\}`, out)
	assert.NotContains(t, out, "member:Length")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeMember, "member:Item", "indexer", 0)
	require.NoError(t, tr.Close())

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "point", got["kind"])
	assert.Equal(t, "member", got["scope"])
	assert.Equal(t, "indexer", got["detail"])
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeMember, name, "", 0)
	}
	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Name)
	assert.Equal(t, "c", snap[1].Name)
}

func TestNewErrorLevelKeepsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError})
	require.NoError(t, err)
	ring := FindRing(tr)
	require.NotNil(t, ring)

	Begin(tr, ScopeType, "type:T", 0).End("")
	assert.Len(t, ring.Snapshot(), 2)
}

func TestFromContextDefaultsToNop(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	span := Begin(Nop, ScopeDriver, "x", 0)
	assert.Zero(t, span.End(""))
}

func TestWorkerSlotPropagates(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), r)
	ctx, run := Enter(ctx, ScopeDriver, "project all")

	wctx := WithWorker(ctx, 3)
	_, span := Enter(wctx, ScopeType, "declare type")
	span.End("ok")
	run.End("")

	snap := r.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, 0, snap[0].Worker)
	assert.Equal(t, 3, snap[1].Worker)
	assert.Equal(t, run.ID(), snap[1].ParentID)
	assert.Equal(t, KindSpanEnd, snap[2].Kind)
	assert.Equal(t, 3, snap[2].Worker)

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, FormatText))
	assert.Contains(t, buf.String(), "w3  begin declare type")
}

func TestEndEventCarriesDuration(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	span := Begin(r, ScopeDriver, "load", 0)
	d := span.End("")

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Zero(t, snap[0].Dur)
	assert.Equal(t, d, snap[1].Dur)
	assert.Less(t, snap[0].Seq, snap[1].Seq)
}

func TestMultiTracerSharesSequence(t *testing.T) {
	a := NewRingTracer(4, LevelDebug)
	b := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelDebug, a, b)
	Begin(m, ScopeDriver, "check", 0).End("")
	Point(m, ScopeMember, "entity", "", 0)

	require.Len(t, a.Snapshot(), 3)
	require.Len(t, b.Snapshot(), 2)
	assert.Equal(t, a.Snapshot()[1].Seq, b.Snapshot()[1].Seq)
	assert.NoError(t, m.Close())
}
