package graph

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// vectorEmbedder maps each text to a fixed vector.
type vectorEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *vectorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func (e *vectorEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// orthogonalEmbedder returns a distinct basis vector per new text, so all
// pairwise similarities are zero.
func orthogonalEmbedder(texts ...string) *vectorEmbedder {
	vectors := make(map[string][]float32)
	for i, t := range texts {
		v := make([]float32, len(texts))
		v[i] = 1
		vectors[t] = v
	}
	return &vectorEmbedder{vectors: vectors}
}

func TestGraph_RecordAndScore_VolumeFlag(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e", "f"}
	g := New(orthogonalEmbedder(texts...), 0.8, 0, testLogger())

	for i, text := range texts {
		score := g.RecordAndScore(context.Background(), text)
		if i < 5 && score != 0.0 {
			t.Errorf("claim %d: score = %v, want 0.0", i+1, score)
		}
		if i == 5 && score != 1.0 {
			t.Errorf("claim 6: score = %v, want 1.0 once history exceeds 5", score)
		}
	}
}

func TestGraph_EdgesOnlyAboveThreshold(t *testing.T) {
	vectors := map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},     // identical to a, similarity 1.0
		"c": {0.8, 0.6}, // similarity 0.8 to a, not strictly greater
		"d": {0, 1},     // orthogonal
	}
	g := New(&vectorEmbedder{vectors: vectors}, 0.8, 0, testLogger())

	for _, text := range []string{"a", "b", "c", "d"} {
		g.RecordAndScore(context.Background(), text)
	}

	clusters := g.Clusters()

	sizes := make(map[int]int)
	for _, c := range clusters {
		sizes[c.Size]++
	}
	// a-b connected; c and d isolated.
	if sizes[2] != 1 || sizes[1] != 2 {
		t.Errorf("cluster sizes = %v, want one pair and two singletons", sizes)
	}
}

func TestGraph_Clusters_RiskLabel(t *testing.T) {
	vectors := map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},
		"c": {1, 0},
		"d": {0, 1},
	}
	g := New(&vectorEmbedder{vectors: vectors}, 0.8, 0, testLogger())

	for _, text := range []string{"a", "b", "c", "d"} {
		g.RecordAndScore(context.Background(), text)
	}

	for _, c := range g.Clusters() {
		want := "low"
		if c.Size >= 3 {
			want = "high"
		}
		if c.Risk != want {
			t.Errorf("cluster size %d risk = %q, want %q", c.Size, c.Risk, want)
		}
	}
}

func TestGraph_EmbedFailureStillRecords(t *testing.T) {
	g := New(&vectorEmbedder{err: errors.New("provider down")}, 0.8, 0, testLogger())

	for i := 0; i < 6; i++ {
		g.RecordAndScore(context.Background(), "claim")
	}

	if g.Len() != 6 {
		t.Errorf("history length = %d, want 6 despite embedding failures", g.Len())
	}
	if score := g.RecordAndScore(context.Background(), "claim"); score != 1.0 {
		t.Errorf("volume flag should still fire without embeddings, got %v", score)
	}
}

func TestGraph_MaxClaimsBoundsComparisons(t *testing.T) {
	vectors := map[string][]float32{
		"old": {1, 0},
		"x1":  {0, 1},
		"x2":  {0, 1},
		"new": {1, 0}, // identical to "old", but "old" is outside the window
	}
	g := New(&vectorEmbedder{vectors: vectors}, 0.8, 2, testLogger())

	for _, text := range []string{"old", "x1", "x2", "new"} {
		g.RecordAndScore(context.Background(), text)
	}

	for _, c := range g.Clusters() {
		for _, claim := range c.Claims {
			if claim == "old" && c.Size > 1 {
				t.Error("claim outside the comparison window gained an edge")
			}
		}
	}
}
