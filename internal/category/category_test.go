package category

import (
	"context"
	"io"
	"log"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClassify_KeywordsWithoutEmbedder(t *testing.T) {
	c := NewClassifier(nil, testLogger())

	cases := []struct {
		text string
		want string
	}{
		{"minister announces election schedule for the state", "politics"},
		{"new vaccine approved by the hospital board", "health"},
		{"flood warning and rescue operations underway", "disaster"},
		{"win a lottery prize by sending money to this bank account", "finance"},
		{"completely unrelated text about gardening", Uncategorized},
	}

	for _, tc := range cases {
		if got := c.Classify(context.Background(), tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifyByKeywords_MostHitsWins(t *testing.T) {
	// One politics keyword vs two health keywords.
	got := classifyByKeywords("the minister visited the hospital to meet the doctor")
	if got != "health" {
		t.Errorf("got %q, want health (more keyword hits)", got)
	}
}

// anchorEmbedder returns a distinct one-hot vector per anchor prompt and a
// chosen anchor's vector for any other text.
type anchorEmbedder struct {
	match int
}

func (e *anchorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	for i, a := range anchors {
		if text == a.prompt {
			return oneHot(i), nil
		}
	}
	return oneHot(e.match), nil
}

func (e *anchorEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func oneHot(i int) []float32 {
	v := make([]float32, len(anchors))
	v[i] = 1
	return v
}

func TestClassify_EmbeddingPath(t *testing.T) {
	c := NewClassifier(&anchorEmbedder{match: 1}, testLogger())

	got := c.Classify(context.Background(), "some claim text")
	if got != anchors[1].name {
		t.Errorf("got %q, want %q from embedding similarity", got, anchors[1].name)
	}
}
