// Package ringgraph turns fraud-ring membership lists into the node/edge sets
// the network renderer draws. Construction is pure and total: any ring shape
// produces a graph, degenerate rings just produce fewer edges.
package ringgraph

import (
	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	"github.com/davidleathers/muletrace-analytics/internal/domain/values"
)

// Node is one account in the rendered network. Score is the authoritative
// suspicion score from the upstream engine, nil when the account was never
// scored (skipped, or a ring member absent from suspicious_accounts).
type Node struct {
	AccountID string                 `json:"account_id"`
	RingID    string                 `json:"ring_id,omitempty"`
	Score     *values.SuspicionScore `json:"score"`
	Flagged   bool                   `json:"flagged"`
}

// Edge is a directed money-movement hop between two ring members.
type Edge struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	RingID   string          `json:"ring_id"`
	RingType values.RingType `json:"ring_type"`
}

// Graph is the full render set for one payload. Nodes are the union of ring
// members, ordered by first appearance across rings in sorted ring-id order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Builder assembles graphs from ring membership.
type Builder struct{}

func New() *Builder {
	return &Builder{}
}

// Build links each ring's ordered members into edges and unions the members
// into nodes. CYCLE rings close the loop (last member back to the first);
// every other type is a simple path in member order. Account records supply
// node scores; members with no record render unscored.
func (b *Builder) Build(rings []detection.Ring, accounts []detection.AccountRecord) Graph {
	byID := make(map[string]detection.AccountRecord, len(accounts))
	for _, acct := range accounts {
		byID[acct.AccountID] = acct
	}

	var graph Graph
	seen := make(map[string]bool)

	for _, ring := range rings {
		for _, member := range ring.Accounts {
			if seen[member] {
				continue
			}
			seen[member] = true
			node := Node{AccountID: member}
			if acct, ok := byID[member]; ok {
				node.Score = acct.Score
				node.Flagged = acct.Flagged()
				if acct.RingID != nil {
					node.RingID = *acct.RingID
				}
			}
			graph.Nodes = append(graph.Nodes, node)
		}
		graph.Edges = append(graph.Edges, ringEdges(ring)...)
	}

	return graph
}

func ringEdges(ring detection.Ring) []Edge {
	n := len(ring.Accounts)
	if n < 2 {
		return nil
	}

	edges := make([]Edge, 0, n)
	for i := 0; i < n-1; i++ {
		edges = append(edges, Edge{
			From:     ring.Accounts[i],
			To:       ring.Accounts[i+1],
			RingID:   ring.RingID,
			RingType: ring.Type,
		})
	}
	if ring.Type.IsCycle() {
		edges = append(edges, Edge{
			From:     ring.Accounts[n-1],
			To:       ring.Accounts[0],
			RingID:   ring.RingID,
			RingType: ring.Type,
		})
	}
	return edges
}
