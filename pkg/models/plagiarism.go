package models

// CorpusEntry is one reference snippet supplied by the caller.
type CorpusEntry struct {
	ID       string `json:"id"`
	Text     string `json:"-"`
	Language string `json:"language,omitempty"`
}

// Match is the similarity of the candidate against one corpus entry.
type Match struct {
	ID string `json:"id"`
	// Score is the Jaccard similarity scaled to an integer in [0, 100].
	Score          int     `json:"score"`
	Jaccard        float64 `json:"jaccard"`
	SharedShingles uint64  `json:"shared_shingles"`
	Exact          bool    `json:"exact,omitempty"`
	Flagged        bool    `json:"flagged,omitempty"`
}

// SimilaritySummary describes the score distribution across the corpus.
type SimilaritySummary struct {
	Entries int     `json:"entries"`
	Flagged int     `json:"flagged"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
}

// PlagiarismResult is the comparison of one candidate against a corpus.
type PlagiarismResult struct {
	// Score is the maximum per-entry score; 0 for an empty candidate or corpus.
	Score     int               `json:"score"`
	BestMatch string            `json:"best_match,omitempty"`
	Threshold float64           `json:"threshold"`
	Shingles  int               `json:"candidate_shingles"`
	Matches   []Match           `json:"matches"`
	Summary   SimilaritySummary `json:"summary"`
}

// PairScore is the similarity between two corpus entries.
type PairScore struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Score int    `json:"score"`
}

// SimilarityCluster is a connected group of entries whose pairwise
// scores reach the threshold, directly or through other members.
type SimilarityCluster struct {
	Members  []string `json:"members"`
	MaxScore int      `json:"max_score"`
}

// ClusterReport groups a corpus by mutual similarity.
type ClusterReport struct {
	Threshold float64             `json:"threshold"`
	Entries   int                 `json:"entries"`
	Pairs     []PairScore         `json:"pairs"`
	Clusters  []SimilarityCluster `json:"clusters"`
}
