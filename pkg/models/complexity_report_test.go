package models

import "testing"

func file(path string, time, space ComplexityClass, conf Confidence) FileComplexity {
	return FileComplexity{
		Path: path,
		ComplexityResult: ComplexityResult{
			Language: "go",
			Estimate: Estimate{Time: time, Space: space, Confidence: conf},
		},
	}
}

func TestAggregateResults_Empty(t *testing.T) {
	report := AggregateResults(nil)

	if report.Summary.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", report.Summary.TotalFiles)
	}
	if report.Summary.WorstTime != ClassUnknown {
		t.Errorf("WorstTime = %s, want O(?)", report.Summary.WorstTime)
	}
	if len(report.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(report.Files))
	}
}

func TestAggregateResults_Histogram(t *testing.T) {
	files := []FileComplexity{
		file("b.go", ClassLinear, ClassConstant, ConfidenceHigh),
		file("a.go", ClassLinear, ClassLinear, ConfidenceHigh),
		file("c.go", ClassQuadratic, ClassConstant, ConfidenceLow),
		file("d.txt", ClassUnknown, ClassUnknown, ConfidenceLow),
	}
	files[3].Fallback = true

	report := AggregateResults(files)

	if report.Summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", report.Summary.TotalFiles)
	}
	if got := report.Summary.TimeHistogram[ClassLinear]; got != 2 {
		t.Errorf("TimeHistogram[O(n)] = %d, want 2", got)
	}
	if got := report.Summary.SpaceHistogram[ClassConstant]; got != 2 {
		t.Errorf("SpaceHistogram[O(1)] = %d, want 2", got)
	}
	if report.Summary.LowConfidence != 2 {
		t.Errorf("LowConfidence = %d, want 2", report.Summary.LowConfidence)
	}
	if report.Summary.FallbackFiles != 1 {
		t.Errorf("FallbackFiles = %d, want 1", report.Summary.FallbackFiles)
	}
	if report.Summary.WorstTime != ClassQuadratic {
		t.Errorf("WorstTime = %s, want O(n^2)", report.Summary.WorstTime)
	}
	if report.Summary.WorstSpace != ClassLinear {
		t.Errorf("WorstSpace = %s, want O(n)", report.Summary.WorstSpace)
	}

	wantOrder := []string{"c.go", "a.go", "b.go", "d.txt"}
	for i, want := range wantOrder {
		if report.Files[i].Path != want {
			t.Errorf("Files[%d] = %s, want %s", i, report.Files[i].Path, want)
		}
	}

	if files[0].Path != "b.go" {
		t.Error("AggregateResults must not reorder its input")
	}
}

func TestComplexityReport_CountAtLeast(t *testing.T) {
	report := AggregateResults([]FileComplexity{
		file("a", ClassConstant, ClassConstant, ConfidenceHigh),
		file("b", ClassLinear, ClassConstant, ConfidenceHigh),
		file("c", ClassExponential, ClassConstant, ConfidenceHigh),
		file("d", ClassUnknown, ClassUnknown, ConfidenceLow),
	})

	if got := report.CountAtLeast(ClassLinear); got != 2 {
		t.Errorf("CountAtLeast(O(n)) = %d, want 2", got)
	}
	if got := report.CountAtLeast(ClassConstant); got != 3 {
		t.Errorf("CountAtLeast(O(1)) = %d, want 3", got)
	}
}
