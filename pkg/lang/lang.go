// Package lang holds the read-only table of per-language lexical patterns
// used by the normalizer and the structural profiler.
//
// The table is built once at package initialization and never mutated, so
// lookups are safe from any number of goroutines without locking.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language is the canonical tag of a supported programming language.
type Language string

const (
	Go         Language = "go"
	Rust       Language = "rust"
	Python     Language = "python"
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "csharp"
	Generic    Language = "generic"
)

// HeaderStyle describes how a loop header is delimited from its body.
type HeaderStyle int

const (
	// HeaderParen headers are wrapped in parentheses: for (...) body.
	HeaderParen HeaderStyle = iota
	// HeaderColon headers end with a colon: for x in xs:
	HeaderColon
	// HeaderBlock headers run until the opening brace: for x := range xs {
	HeaderBlock
)

// Alloc is a token sequence that allocates a container. "*" matches any
// single token. Sized allocations always hold one element per input item
// (for example xs.map(...) or Array.from(...)).
type Alloc struct {
	Seq   []string
	Sized bool
}

// Profile is the lexical and structural descriptor of one language.
type Profile struct {
	Language   Language
	Name       string
	Aliases    []string
	Extensions []string

	LineComments []string
	BlockComment [2]string
	StringDelims string
	// CharLiterals treats ' as a short character literal ('a', '\n')
	// instead of a string delimiter.
	CharLiterals bool
	TripleQuotes bool
	// IndentBlocks derives blocks from indentation after a trailing colon.
	IndentBlocks bool

	HeaderStyle      HeaderStyle
	LoopKeywords     []string
	BranchKeywords   []string
	FunctionKeywords []string
	// CStyleFunctions recognizes "name(args) {" as a definition.
	CStyleFunctions bool
	// ArrowFunctions recognizes "const name = (args) => ...".
	ArrowFunctions bool
	// ArrayLiterals treats [ in expression position as an allocation.
	ArrayLiterals bool
	// MapLiterals treats { in expression position as an allocation.
	MapLiterals bool

	IterationCalls []string
	GrowCalls      []string
	HalvingTokens  []string
	Containers     []Alloc
	Reserved       []string

	loops     map[string]bool
	branches  map[string]bool
	functions map[string]bool
	iterate   map[string]bool
	grow      map[string]bool
	halving   map[string]bool
	reserved  map[string]bool
}

// IsLoop reports whether word opens a loop.
func (p *Profile) IsLoop(word string) bool { return p.loops[word] }

// IsBranch reports whether word is a branch statement keyword.
func (p *Profile) IsBranch(word string) bool { return p.branches[word] }

// IsFunction reports whether word introduces a named function definition.
func (p *Profile) IsFunction(word string) bool { return p.functions[word] }

// IsIteration reports whether a method call named word iterates its receiver.
func (p *Profile) IsIteration(word string) bool { return p.iterate[word] }

// IsGrow reports whether a call named word appends to a container.
func (p *Profile) IsGrow(word string) bool { return p.grow[word] }

// IsHalving reports whether word is a language-specific halving token.
func (p *Profile) IsHalving(word string) bool { return p.halving[word] }

// IsReserved reports whether word is a keyword that can never name a function.
func (p *Profile) IsReserved(word string) bool {
	return p.reserved[word] || p.loops[word] || p.branches[word] || p.functions[word]
}

// IsFallback reports whether p is the generic profile.
func (p *Profile) IsFallback() bool { return p.Language == Generic }

func (p *Profile) index() {
	p.loops = makeSet(p.LoopKeywords)
	p.branches = makeSet(p.BranchKeywords)
	p.functions = makeSet(p.FunctionKeywords)
	p.iterate = makeSet(p.IterationCalls)
	p.grow = makeSet(p.GrowCalls)
	p.halving = makeSet(p.HalvingTokens)
	p.reserved = makeSet(p.Reserved)
}

func makeSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var (
	byTag       map[string]*Profile
	byExtension map[string]Language
	tags        []string
)

func init() {
	byTag = make(map[string]*Profile)
	byExtension = make(map[string]Language)

	for _, p := range table {
		p.index()
		byTag[string(p.Language)] = p
		for _, alias := range p.Aliases {
			byTag[alias] = p
		}
		for _, ext := range p.Extensions {
			byExtension[ext] = p.Language
		}
		if p.Language != Generic {
			tags = append(tags, string(p.Language))
		}
	}
	sort.Strings(tags)
}

// Lookup resolves a language tag. Unknown tags resolve to the generic
// C-like profile with ok == false; the result is never nil.
func Lookup(tag string) (p *Profile, ok bool) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if p, ok := byTag[key]; ok {
		return p, p.Language != Generic
	}
	return byTag[string(Generic)], false
}

// MustLookup is Lookup without the ok flag.
func MustLookup(tag string) *Profile {
	p, _ := Lookup(tag)
	return p
}

// Detect maps a file path to a language tag by extension.
// Returns "" when the extension is not in the table.
func Detect(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := byExtension[ext]; ok {
		return string(l)
	}
	return ""
}

// Supported returns the sorted tags of all non-generic profiles.
func Supported() []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// Profiles returns every profile in the table, generic last.
func Profiles() []*Profile {
	out := make([]*Profile, 0, len(tags)+1)
	for _, t := range tags {
		out = append(out, byTag[t])
	}
	return append(out, byTag[string(Generic)])
}
