package similarity

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/panbanda/gauge/pkg/models"
)

// Cluster compares every pair of corpus entries and groups entries whose
// scores reach the threshold into connected components. Only pairs at or
// above the threshold are reported. Entries with no such pair are left out
// of every cluster.
func (e *Engine) Cluster(ctx context.Context, corpus []models.CorpusEntry) (models.ClusterReport, error) {
	report := models.ClusterReport{
		Threshold: e.threshold,
		Entries:   len(corpus),
		Pairs:     []models.PairScore{},
		Clusters:  []models.SimilarityCluster{},
	}
	if len(corpus) < 2 {
		return report, nil
	}

	docs, err := e.prepareAll(ctx, corpus)
	if err != nil {
		return report, err
	}

	// best pair score per node
	best := make(map[int]int)

	g := simple.NewUndirectedGraph()
	for i := range docs {
		g.AddNode(simple.Node(i))
	}

	for i := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for j := i + 1; j < len(docs); j++ {
			m := e.score(&docs[i], &docs[j])
			if !m.Flagged {
				continue
			}
			report.Pairs = append(report.Pairs, models.PairScore{A: docs[i].id, B: docs[j].id, Score: m.Score})
			g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			best[i] = max(best[i], m.Score)
			best[j] = max(best[j], m.Score)
		}
	}

	for _, comp := range topo.ConnectedComponents(g) {
		if len(comp) < 2 {
			continue
		}
		idx := make([]int, len(comp))
		for k, n := range comp {
			idx[k] = int(n.ID())
		}
		sort.Ints(idx)

		c := models.SimilarityCluster{Members: make([]string, len(idx))}
		for k, i := range idx {
			c.Members[k] = docs[i].id
		}
		for _, i := range idx {
			c.MaxScore = max(c.MaxScore, best[i])
		}
		report.Clusters = append(report.Clusters, c)
	}

	sort.SliceStable(report.Pairs, func(a, b int) bool {
		return report.Pairs[a].Score > report.Pairs[b].Score
	})
	sort.SliceStable(report.Clusters, func(a, b int) bool {
		if len(report.Clusters[a].Members) != len(report.Clusters[b].Members) {
			return len(report.Clusters[a].Members) > len(report.Clusters[b].Members)
		}
		return report.Clusters[a].Members[0] < report.Clusters[b].Members[0]
	})
	return report, nil
}
