package models

import (
	"fmt"
	"strings"
)

// ComplexityClass is an asymptotic complexity class. Known classes form a
// strict total order; ClassUnknown means the estimate is undetermined and
// sorts after every known class.
type ComplexityClass string

const (
	ClassConstant     ComplexityClass = "O(1)"
	ClassLogarithmic  ComplexityClass = "O(log n)"
	ClassLinear       ComplexityClass = "O(n)"
	ClassLinearithmic ComplexityClass = "O(n log n)"
	ClassQuadratic    ComplexityClass = "O(n^2)"
	ClassExponential  ComplexityClass = "O(2^n)"
	ClassUnknown      ComplexityClass = "O(?)"
)

var classOrder = []ComplexityClass{
	ClassConstant,
	ClassLogarithmic,
	ClassLinear,
	ClassLinearithmic,
	ClassQuadratic,
	ClassExponential,
	ClassUnknown,
}

// Classes returns every class in ascending order, ClassUnknown last.
func Classes() []ComplexityClass {
	out := make([]ComplexityClass, len(classOrder))
	copy(out, classOrder)
	return out
}

// Rank returns the position of c in the class order. Unrecognized values
// rank with ClassUnknown.
func (c ComplexityClass) Rank() int {
	for i, k := range classOrder {
		if k == c {
			return i
		}
	}
	return len(classOrder) - 1
}

// Known reports whether c is a determined class.
func (c ComplexityClass) Known() bool {
	return c.Rank() < len(classOrder)-1
}

// Less reports whether c ranks strictly below o.
func (c ComplexityClass) Less(o ComplexityClass) bool {
	return c.Rank() < o.Rank()
}

// MaxClass returns the higher of two known classes. An unknown class only
// wins when both are unknown.
func MaxClass(a, b ComplexityClass) ComplexityClass {
	switch {
	case !a.Known():
		if b.Known() {
			return b
		}
		return ClassUnknown
	case !b.Known():
		return a
	case a.Less(b):
		return b
	default:
		return a
	}
}

// ParseClass parses a class from its display form. Matching ignores case
// and whitespace, and accepts "²" for "^2".
func ParseClass(s string) (ComplexityClass, error) {
	key := canonicalClass(s)
	for _, c := range classOrder {
		if canonicalClass(string(c)) == key {
			return c, nil
		}
	}
	return ClassUnknown, fmt.Errorf("unknown complexity class %q", s)
}

func canonicalClass(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "²", "^2")
	return strings.Join(strings.Fields(s), "")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ComplexityClass) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Confidence flags whether exactly one classification rule matched.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Estimate is the classifier output for one snippet.
type Estimate struct {
	Time       ComplexityClass `json:"time"`
	Space      ComplexityClass `json:"space"`
	Confidence Confidence      `json:"confidence"`
	// Rules lists the decision-table rows that matched, in table order.
	Rules []string `json:"rules,omitempty"`
}

// StructuralProfile summarizes the loop and recursion shape of a snippet.
type StructuralProfile struct {
	MaxLoopNestingDepth  int  `json:"max_loop_nesting_depth"`
	LoopCount            int  `json:"loop_count"`
	HasRecursion         bool `json:"has_recursion"`
	RecursionArity       int  `json:"recursion_arity"`
	HasHalvingHint       bool `json:"has_halving_hint"`
	ContainerAllocations int  `json:"container_allocations"`
	LoopSizedAllocations int  `json:"loop_sized_allocations"`
	BranchCount          int  `json:"branch_count"`
	Functions            int  `json:"functions"`
	// RecursionInsideLoop is set when the dominant recursive call sits in a
	// loop of its own function; loop depth then drives the class.
	RecursionInsideLoop bool `json:"recursion_inside_loop"`
	// ExclusiveRecursion is set when every recursive call site of the
	// dominant function is the head of its own return statement, so at most
	// one of them runs per invocation.
	ExclusiveRecursion bool `json:"exclusive_recursion"`
	Tokens             int  `json:"tokens"`
	// Fallback is set when the snippet was profiled with the generic table entry.
	Fallback bool `json:"fallback"`
}

// HasStructure reports whether any loop, recursion, branch or function
// signal was found.
func (p StructuralProfile) HasStructure() bool {
	return p.LoopCount > 0 || p.HasRecursion || p.BranchCount > 0 || p.Functions > 0
}

// ComplexityResult is the full analysis of one snippet.
type ComplexityResult struct {
	Language string            `json:"language"`
	Fallback bool              `json:"fallback"`
	Lines    int               `json:"lines"`
	Estimate Estimate          `json:"estimate"`
	Profile  StructuralProfile `json:"profile"`
}

// FileComplexity is the analysis of one source file.
type FileComplexity struct {
	Path string `json:"path"`
	ComplexityResult
}

// ComplexitySummary aggregates a batch of file analyses.
type ComplexitySummary struct {
	TotalFiles     int                     `json:"total_files"`
	TimeHistogram  map[ComplexityClass]int `json:"time_histogram"`
	SpaceHistogram map[ComplexityClass]int `json:"space_histogram"`
	LowConfidence  int                     `json:"low_confidence"`
	FallbackFiles  int                     `json:"fallback_files"`
	WorstTime      ComplexityClass         `json:"worst_time"`
	WorstSpace     ComplexityClass         `json:"worst_space"`
}

// ComplexityReport is the batch result of the complexity command.
type ComplexityReport struct {
	Files   []FileComplexity  `json:"files"`
	Summary ComplexitySummary `json:"summary"`
}
