package complexity

import "github.com/panbanda/gauge/pkg/models"

// Rule is one row of the classification decision table.
type Rule struct {
	ID    string
	Time  models.ComplexityClass
	Match func(p models.StructuralProfile) bool
}

// Rule ids.
const (
	RuleConstant        = "constant"
	RuleSingleLoop      = "single-loop"
	RuleNestedLoop      = "nested-loop"
	RuleDeepNesting     = "deep-nesting"
	RuleHalvingSingle   = "halving-single"
	RuleDivideConquer   = "divide-conquer"
	RuleTreeRecursion   = "tree-recursion"
	RuleLinearRecursion = "linear-recursion"
	RuleAmbiguous       = "ambiguous"
)

// Rules is the decision table, in evaluation order. It is an approximation:
// the classes it assigns are estimates, not proven bounds. Three or more
// nested loops are deliberately reported as O(2^n).
var Rules = []Rule{
	{RuleConstant, models.ClassConstant, func(p models.StructuralProfile) bool {
		return p.MaxLoopNestingDepth == 0 && !p.HasRecursion
	}},
	{RuleSingleLoop, models.ClassLinear, func(p models.StructuralProfile) bool {
		return p.MaxLoopNestingDepth == 1 && !recursionDrives(p)
	}},
	{RuleNestedLoop, models.ClassQuadratic, func(p models.StructuralProfile) bool {
		return p.MaxLoopNestingDepth == 2
	}},
	{RuleDeepNesting, models.ClassExponential, func(p models.StructuralProfile) bool {
		return p.MaxLoopNestingDepth >= 3
	}},
	{RuleHalvingSingle, models.ClassLogarithmic, func(p models.StructuralProfile) bool {
		return recursionDrives(p) && effectiveArity(p) == 1 && p.HasHalvingHint
	}},
	{RuleDivideConquer, models.ClassLinearithmic, func(p models.StructuralProfile) bool {
		return recursionDrives(p) && effectiveArity(p) >= 2 && p.HasHalvingHint
	}},
	{RuleTreeRecursion, models.ClassExponential, func(p models.StructuralProfile) bool {
		return recursionDrives(p) && effectiveArity(p) >= 2 && !p.HasHalvingHint
	}},
	{RuleLinearRecursion, models.ClassLinear, func(p models.StructuralProfile) bool {
		return recursionDrives(p) && effectiveArity(p) == 1 && !p.HasHalvingHint
	}},
	{RuleAmbiguous, models.ClassUnknown, Ambiguous},
}

// recursionDrives applies the tie-break: loop depth dominates unless the
// recursion has no enclosing loop inside its own function.
func recursionDrives(p models.StructuralProfile) bool {
	return p.HasRecursion && !p.RecursionInsideLoop
}

// effectiveArity treats mutually exclusive call sites (each heading its own
// return) as a single call per invocation.
func effectiveArity(p models.StructuralProfile) int {
	if p.ExclusiveRecursion {
		return 1
	}
	return p.RecursionArity
}

// Ambiguous reports whether a profile carries too little signal to classify:
// the language was not recognized and no structure was found in non-empty input.
func Ambiguous(p models.StructuralProfile) bool {
	return p.Fallback && p.Tokens > 0 && !p.HasStructure()
}

// Classify maps a structural profile to an estimate. Every row of Rules is
// evaluated; the time class is the highest among matching rows, and
// confidence is high only when exactly one row matched. An ambiguous
// profile yields O(?) for both time and space.
func Classify(p models.StructuralProfile) models.Estimate {
	if Ambiguous(p) {
		return models.Estimate{
			Time:       models.ClassUnknown,
			Space:      models.ClassUnknown,
			Confidence: models.ConfidenceLow,
			Rules:      []string{RuleAmbiguous},
		}
	}

	est := models.Estimate{
		Time:       models.ClassUnknown,
		Space:      spaceClass(p),
		Confidence: models.ConfidenceLow,
	}
	for _, r := range Rules {
		if r.ID == RuleAmbiguous || !r.Match(p) {
			continue
		}
		est.Rules = append(est.Rules, r.ID)
		est.Time = models.MaxClass(est.Time, r.Time)
	}
	if len(est.Rules) == 1 {
		est.Confidence = models.ConfidenceHigh
	}
	return est
}

// spaceClass: input-sized allocation or recursion stack is O(n), else O(1).
func spaceClass(p models.StructuralProfile) models.ComplexityClass {
	switch {
	case p.LoopSizedAllocations > 0:
		return models.ClassLinear
	case p.HasRecursion:
		return models.ClassLinear
	default:
		return models.ClassConstant
	}
}
