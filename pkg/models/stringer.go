package models

// String methods for the custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// ComplexityClass
func (c ComplexityClass) String() string { return string(c) }

// Confidence
func (c Confidence) String() string { return string(c) }
