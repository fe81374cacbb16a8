package models

import "sort"

// AggregateResults builds a ComplexityReport from per-file results. Files
// are sorted by descending time class, then path.
func AggregateResults(files []FileComplexity) *ComplexityReport {
	summary := ComplexitySummary{
		TotalFiles:     len(files),
		TimeHistogram:  make(map[ComplexityClass]int),
		SpaceHistogram: make(map[ComplexityClass]int),
		WorstTime:      ClassConstant,
		WorstSpace:     ClassConstant,
	}

	for _, f := range files {
		est := f.Estimate
		summary.TimeHistogram[est.Time]++
		summary.SpaceHistogram[est.Space]++
		if est.Confidence == ConfidenceLow {
			summary.LowConfidence++
		}
		if f.Fallback {
			summary.FallbackFiles++
		}
		summary.WorstTime = MaxClass(summary.WorstTime, est.Time)
		summary.WorstSpace = MaxClass(summary.WorstSpace, est.Space)
	}

	if len(files) == 0 {
		summary.WorstTime = ClassUnknown
		summary.WorstSpace = ClassUnknown
	}

	sorted := make([]FileComplexity, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Estimate.Time, sorted[j].Estimate.Time
		if ti != tj {
			// unknown results go last
			if !ti.Known() || !tj.Known() {
				return ti.Known()
			}
			return tj.Less(ti)
		}
		return sorted[i].Path < sorted[j].Path
	})

	return &ComplexityReport{Files: sorted, Summary: summary}
}

// CountAtLeast returns how many files have a time class at or above c.
func (r *ComplexityReport) CountAtLeast(c ComplexityClass) int {
	n := 0
	for _, f := range r.Files {
		if f.Estimate.Time.Known() && !f.Estimate.Time.Less(c) {
			n++
		}
	}
	return n
}
