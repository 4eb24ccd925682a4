package ringgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	"github.com/davidleathers/muletrace-analytics/internal/domain/values"
)

func ring(id string, rt values.RingType, members ...string) detection.Ring {
	return detection.Ring{RingID: id, Type: rt, Accounts: members}
}

func TestBuild_CycleWrapsAround(t *testing.T) {
	b := New()

	graph := b.Build([]detection.Ring{
		ring("CYCLE-0001", values.RingTypeCycle, "A", "B", "C"),
	}, nil)

	require.Len(t, graph.Edges, 3)
	assert.Equal(t, Edge{From: "A", To: "B", RingID: "CYCLE-0001", RingType: values.RingTypeCycle}, graph.Edges[0])
	assert.Equal(t, Edge{From: "B", To: "C", RingID: "CYCLE-0001", RingType: values.RingTypeCycle}, graph.Edges[1])
	assert.Equal(t, Edge{From: "C", To: "A", RingID: "CYCLE-0001", RingType: values.RingTypeCycle}, graph.Edges[2])
}

func TestBuild_PathTypes(t *testing.T) {
	b := New()

	tests := []struct {
		name string
		rt   values.RingType
	}{
		{"fan-in", values.RingTypeFanIn},
		{"fan-out", values.RingTypeFanOut},
		{"shell", values.RingTypeShell},
		{"structuring", values.RingTypeStructuring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := b.Build([]detection.Ring{ring("R1", tt.rt, "A", "B", "C")}, nil)

			require.Len(t, graph.Edges, 2, "path rings must not close the loop")
			assert.Equal(t, "A", graph.Edges[0].From)
			assert.Equal(t, "B", graph.Edges[0].To)
			assert.Equal(t, "B", graph.Edges[1].From)
			assert.Equal(t, "C", graph.Edges[1].To)
		})
	}
}

func TestBuild_DegenerateRings(t *testing.T) {
	b := New()

	t.Run("single member has nodes but no edges", func(t *testing.T) {
		graph := b.Build([]detection.Ring{ring("SHELL-0001", values.RingTypeShell, "A")}, nil)
		assert.Len(t, graph.Nodes, 1)
		assert.Empty(t, graph.Edges)
	})

	t.Run("empty ring", func(t *testing.T) {
		graph := b.Build([]detection.Ring{ring("SHELL-0002", values.RingTypeShell)}, nil)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
	})
}

func TestBuild_NodeUnionAndScores(t *testing.T) {
	b := New()
	ringID := "CYCLE-0001"
	scoreA := values.MustNewSuspicionScore(82.5)

	rings := []detection.Ring{
		ring("CYCLE-0001", values.RingTypeCycle, "A", "B"),
		ring("FAN-IN-0001", values.RingTypeFanIn, "B", "C"),
	}
	accounts := []detection.AccountRecord{
		{AccountID: "A", RingID: &ringID, Score: &scoreA, HasCycle: true},
		{AccountID: "B", Skipped: true},
	}

	graph := b.Build(rings, accounts)

	require.Len(t, graph.Nodes, 3, "shared member B appears once")
	assert.Equal(t, []string{"A", "B", "C"}, nodeIDs(graph))

	require.NotNil(t, graph.Nodes[0].Score)
	assert.Equal(t, 82.5, graph.Nodes[0].Score.Value())
	assert.Equal(t, ringID, graph.Nodes[0].RingID)
	assert.True(t, graph.Nodes[0].Flagged)

	assert.Nil(t, graph.Nodes[1].Score, "skipped account stays unscored")
	assert.False(t, graph.Nodes[1].Flagged)
	assert.Nil(t, graph.Nodes[2].Score, "member without account record stays unscored")
}

func nodeIDs(g Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.AccountID
	}
	return ids
}
