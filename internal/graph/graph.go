package graph

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Gokul1734/factsense/internal/embed"
	"github.com/Gokul1734/factsense/internal/model"
)

// node is one recorded claim with its embedding. A nil vector marks a claim
// whose embedding failed; it participates in history but never gains edges.
type node struct {
	text   string
	vector []float32
	at     time.Time
}

// Cluster is one connected component of the similarity graph.
type Cluster struct {
	ID     int      `json:"id"`
	Size   int      `json:"size"`
	Risk   string   `json:"risk"`
	Claims []string `json:"claims"`
}

// Graph tracks observed claims, linking near-duplicate claims by embedding
// similarity. All methods are safe for concurrent use; the graph owns its
// lock and no caller-visible state escapes by reference.
type Graph struct {
	mu        sync.Mutex
	nodes     []node
	adjacency map[int][]int
	embedder  embed.Embedder
	threshold float64
	maxClaims int
	logger    *log.Logger
	now       func() time.Time
}

// New creates an empty claim graph. embedder may be nil; claims are then
// recorded without similarity edges. maxClaims bounds how many recent
// claims each insertion is compared against (0 means unbounded).
func New(embedder embed.Embedder, threshold float64, maxClaims int, logger *log.Logger) *Graph {
	if threshold <= 0 {
		threshold = 0.8
	}
	return &Graph{
		adjacency: make(map[int][]int),
		embedder:  embedder,
		threshold: threshold,
		maxClaims: maxClaims,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordAndScore appends the claim to history, links it to similar prior
// claims, and returns a coarse volume risk score: 1.0 once more than 5
// claims have been observed, else 0.0.
func (g *Graph) RecordAndScore(ctx context.Context, claimText string) float64 {
	var vector []float32
	if g.embedder != nil {
		v, err := g.embedder.Embed(ctx, claimText)
		if err != nil {
			g.logger.Printf("claim embedding failed, recording without edges: %v", err)
		} else {
			vector = v
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := len(g.nodes)
	g.nodes = append(g.nodes, node{text: claimText, vector: vector, at: g.now()})

	if vector != nil {
		start := 0
		if g.maxClaims > 0 && id > g.maxClaims {
			start = id - g.maxClaims
		}
		for prior := start; prior < id; prior++ {
			pv := g.nodes[prior].vector
			if pv == nil {
				continue
			}
			if embed.Cosine(vector, pv) > g.threshold {
				g.adjacency[id] = append(g.adjacency[id], prior)
				g.adjacency[prior] = append(g.adjacency[prior], id)
			}
		}
	}

	if len(g.nodes) > 5 {
		return 1.0
	}
	return 0.0
}

// Len returns the number of recorded claims.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// History returns a copy of the timestamped claim history in insertion
// order.
func (g *Graph) History() []model.Claim {
	g.mu.Lock()
	defer g.mu.Unlock()

	claims := make([]model.Claim, len(g.nodes))
	for i, n := range g.nodes {
		claims[i] = model.Claim{Text: n.text, Timestamp: n.at}
	}
	return claims
}

// Clusters returns the connected components of the graph, largest first in
// discovery order. Components with at least 3 claims are labeled high risk.
func (g *Graph) Clusters() []Cluster {
	g.mu.Lock()
	defer g.mu.Unlock()

	visited := make([]bool, len(g.nodes))
	var clusters []Cluster

	for start := range g.nodes {
		if visited[start] {
			continue
		}

		var members []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)
			for _, next := range g.adjacency[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}

		risk := "low"
		if len(members) >= 3 {
			risk = "high"
		}

		claims := make([]string, 0, len(members))
		for _, m := range members {
			claims = append(claims, g.nodes[m].text)
		}
		clusters = append(clusters, Cluster{
			ID:     len(clusters),
			Size:   len(members),
			Risk:   risk,
			Claims: claims,
		})
	}
	return clusters
}
