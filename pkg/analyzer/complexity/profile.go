package complexity

import (
	"strings"

	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/normalize"
)

// argScanLimit bounds the lookahead used to collect allocation arguments.
const argScanLimit = 256

// exprStart holds tokens after which [ or { begins a value rather than an
// index or a block.
var exprStart = map[string]bool{
	"=": true, ":=": true, "(": true, ",": true, "return": true, ":": true,
	"[": true, "=>": true, "?": true, "yield": true, "in": true, "of": true,
}

// sizeWords are identifiers that conventionally name an input size.
var sizeWords = map[string]bool{
	"n": true, "len": true, "length": true, "size": true, "count": true,
	"Length": true, "Count": true, "Size": true,
}

// arrowDecl introduces a named arrow function binding.
var arrowDecl = map[string]bool{"const": true, "let": true, "var": true}

// signatureTokens may appear between a C-like parameter list and its body.
var signatureTokens = map[string]bool{
	",": true, "::": true, "->": true, "<": true, ">": true, "*": true,
	"&": true, ".": true, "?": true, "[": true, "]": true, ":": true,
	"(": true, ")": true, "|": true,
}

type frameKind uint8

const (
	blockFrame frameKind = iota
	parenFrame
	exprFrame
)

type frame struct {
	kind  frameKind
	loops int
	fn    int
	alloc int
	// header marks the parenthesized header of a loop
	header bool
	do     bool
	branch bool
}

type function struct {
	name      string
	receiver  string
	baseDepth int
	calls     int
	halving   bool
	inLoop    bool
	exclusive bool
}

type allocation struct {
	sized bool
	args  []string
}

// profiler walks a token stream once and accumulates structural signals.
type profiler struct {
	p      *lang.Profile
	toks   []normalize.Token
	match  []int
	frames []frame
	// frameLoops is the sum of loops over frames.
	frameLoops int
	// scope maps a function name to the enclosing frames that define it,
	// innermost last.
	scope map[string][]int

	pendingLoops int
	maxDepth     int
	loopCount    int
	branches     int

	// loop header tracking
	headerOpen   bool
	headerStyle  lang.HeaderStyle
	headerFrames int
	headerParen  bool
	doHeader     bool
	loopIdents   map[string]bool

	pendingFn     int
	pendingFnBase int
	arrowName     string
	arrowBase     int
	branchPending bool
	lastDoClose   int
	skip          int
	openAlloc     map[int]int
	openIter      map[int]bool

	fns        []function
	allocs     []allocation
	growInLoop int
}

// BuildProfile derives the structural profile of a token stream using the
// patterns of p. It is a pure function of its inputs.
func BuildProfile(ts *normalize.TokenStream, p *lang.Profile) models.StructuralProfile {
	if p == nil {
		p = lang.MustLookup(string(lang.Generic))
	}
	if ts == nil {
		ts = &normalize.TokenStream{}
	}

	pr := &profiler{
		p:           p,
		toks:        ts.Tokens,
		match:       matchBrackets(ts.Tokens),
		pendingFn:   -1,
		lastDoClose: -2,
		skip:        -1,
		loopIdents:  make(map[string]bool),
		openAlloc:   make(map[int]int),
		openIter:    make(map[int]bool),
		scope:       make(map[string][]int),
	}
	pr.run()
	return pr.result(ts)
}

// matchBrackets pairs every opener with its closer. Unmatched openers map to
// the last token; closers map to -1.
func matchBrackets(toks []normalize.Token) []int {
	match := make([]int, len(toks))
	var stack []int
	for i, t := range toks {
		match[i] = -1
		switch {
		case isOpener(t):
			stack = append(stack, i)
		case isCloser(t):
			for len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if closes(toks[j], t) {
					match[j] = i
					break
				}
				match[j] = i
			}
		}
	}
	for _, j := range stack {
		match[j] = len(toks) - 1
	}
	return match
}

func isOpener(t normalize.Token) bool {
	return t.Kind == normalize.BlockOpen ||
		(t.Kind == normalize.Symbol && (t.Text == "(" || t.Text == "[" || t.Text == "{"))
}

func isCloser(t normalize.Token) bool {
	return t.Kind == normalize.BlockClose ||
		(t.Kind == normalize.Symbol && (t.Text == ")" || t.Text == "]" || t.Text == "}"))
}

func closes(open, close normalize.Token) bool {
	switch open.Text {
	case "(":
		return close.Text == ")"
	case "[":
		return close.Text == "]"
	default:
		return close.Text == "}"
	}
}

func (pr *profiler) text(i int) string {
	if i < 0 || i >= len(pr.toks) {
		return ""
	}
	return pr.toks[i].Text
}

func (pr *profiler) kind(i int) normalize.Kind {
	if i < 0 || i >= len(pr.toks) {
		return normalize.EndOfLine
	}
	return pr.toks[i].Kind
}

// loopDepth counts the loops enclosing the current token. A loop whose
// header is still being read does not enclose its own header.
func (pr *profiler) loopDepth() int {
	d := pr.pendingLoops
	if pr.headerOpen && d > 0 {
		d--
	}
	return d + pr.frameLoops
}

func (pr *profiler) push(f frame) {
	pr.frames = append(pr.frames, f)
	pr.frameLoops += f.loops
	if f.fn >= 0 {
		name := pr.fns[f.fn].name
		pr.scope[name] = append(pr.scope[name], f.fn)
	}
}

func (pr *profiler) pop() frame {
	f := pr.frames[len(pr.frames)-1]
	pr.frames = pr.frames[:len(pr.frames)-1]
	pr.frameLoops -= f.loops
	if f.fn >= 0 {
		name := pr.fns[f.fn].name
		if s := pr.scope[name]; len(s) > 0 {
			pr.scope[name] = s[:len(s)-1]
		}
	}
	return f
}

func (pr *profiler) observeDepth() {
	if d := pr.loopDepth(); d > pr.maxDepth {
		pr.maxDepth = d
	}
}

func (pr *profiler) top() *frame {
	if len(pr.frames) == 0 {
		return nil
	}
	return &pr.frames[len(pr.frames)-1]
}

func (pr *profiler) run() {
	for i := 0; i < len(pr.toks); i++ {
		t := pr.toks[i]

		if pr.headerOpen && t.Kind == normalize.Word && !pr.p.IsReserved(t.Text) {
			pr.loopIdents[t.Text] = true
		}

		switch t.Kind {
		case normalize.BlockOpen:
			pr.allocAt(i)
			pr.openBlock(i)
		case normalize.BlockClose:
			pr.closeFrame(i, blockFrame)
		case normalize.EndOfLine:
			pr.endStatement()
		case normalize.Symbol:
			pr.symbol(i)
		case normalize.Word:
			pr.word(i)
		}
	}
}

func (pr *profiler) symbol(i int) {
	t := pr.toks[i].Text
	switch t {
	case "(", "[", "{":
		pr.allocAt(i)
		f := frame{kind: parenFrame, fn: -1, alloc: -1}
		if id, ok := pr.openAlloc[i]; ok {
			f.alloc = id
			delete(pr.openAlloc, i)
		}
		if pr.openIter[i] {
			f.loops = 1
			delete(pr.openIter, i)
		}
		if t == "(" && pr.headerOpen && pr.headerParen && len(pr.frames) == pr.headerFrames {
			f.header = true
		}
		pr.push(f)
		pr.observeDepth()
	case ")", "]", "}":
		pr.closeFrame(i, parenFrame)
	case ";":
		pr.endStatement()
	case ",":
		if top := pr.top(); top != nil && top.kind == exprFrame {
			pr.popExpr()
		}
	case ":":
		if pr.headerOpen && pr.headerStyle == lang.HeaderColon && len(pr.frames) == pr.headerFrames {
			pr.headerOpen = false
		}
	case "=>":
		pr.arrow(i)
	default:
		pr.allocAt(i)
	}
}

// endStatement handles ; and logical line ends.
func (pr *profiler) endStatement() {
	pr.popExpr()
	if top := pr.top(); top != nil && top.kind == parenFrame {
		return
	}
	if pr.headerOpen {
		return
	}
	pr.pendingLoops = 0
	pr.pendingFn = -1
	pr.arrowName = ""
	pr.branchPending = false
}

func (pr *profiler) popExpr() {
	for len(pr.frames) > 0 && pr.frames[len(pr.frames)-1].kind == exprFrame {
		pr.pop()
	}
}

func (pr *profiler) openBlock(i int) {
	f := frame{kind: blockFrame, fn: -1, alloc: -1}

	if pr.headerOpen && pr.headerStyle == lang.HeaderBlock && len(pr.frames) == pr.headerFrames {
		if pr.kind(pr.match[i]+1) == normalize.BlockOpen {
			// composite literal inside the header: range []int{1, 2} {
			pr.push(f)
			return
		}
		pr.headerOpen = false
	}
	if !pr.headerOpen {
		f.loops = pr.pendingLoops
		pr.pendingLoops = 0
		f.do = pr.doHeader
		pr.doHeader = false
	}

	if pr.pendingFn >= 0 {
		f.fn = pr.pendingFn
		pr.fns[f.fn].baseDepth = pr.pendingFnBase
		pr.pendingFn = -1
	}
	if pr.branchPending && f.loops == 0 && f.fn < 0 {
		f.branch = true
	}
	pr.branchPending = false
	if id, ok := pr.openAlloc[i]; ok {
		f.alloc = id
		delete(pr.openAlloc, i)
	}

	pr.push(f)
	pr.observeDepth()
}

func (pr *profiler) closeFrame(i int, kind frameKind) {
	pr.popExpr()
	if len(pr.frames) == 0 {
		return
	}
	f := pr.pop()

	if f.header {
		pr.headerOpen = false
	}
	if len(pr.frames) < pr.arrowBase {
		pr.arrowName = ""
	}
	if kind == blockFrame {
		if f.do {
			pr.lastDoClose = i
		}
		if !pr.headerOpen {
			pr.pendingLoops = 0
		}
	}
}

func (pr *profiler) word(i int) {
	w := pr.text(i)
	next := pr.text(i + 1)
	prev := pr.text(i - 1)

	switch {
	case i == pr.skip:
		return
	case pr.p.IsLoop(w):
		pr.loop(i, w)
		return
	case pr.p.IsBranch(w) || w == "else":
		if pr.p.IsBranch(w) {
			pr.branches++
		}
		pr.branchPending = true
		return
	case pr.p.IsFunction(w):
		pr.keywordFunction(i)
		return
	case pr.p.ArrowFunctions && arrowDecl[w] && pr.kind(i+1) == normalize.Word && pr.text(i+2) == "=":
		pr.arrowName = next
		pr.arrowBase = len(pr.frames)
		pr.skip = i + 1
		return
	}

	pr.allocAt(i)

	if next != "(" {
		return
	}

	if prev == "." && pr.p.IsIteration(w) {
		pr.openIter[i+1] = true
		pr.loopCount++
		if recv := pr.text(i - 2); pr.kind(i-2) == normalize.Word {
			pr.loopIdents[recv] = true
		}
		return
	}

	if pr.p.IsGrow(w) && pr.loopDepth() > 0 {
		pr.growInLoop++
	}

	if pr.p.CStyleFunctions && pr.cStyleDefinition(i) {
		return
	}

	pr.recursiveCall(i)
}

func (pr *profiler) loop(i int, w string) {
	if w == "while" && pr.lastDoClose == i-1 {
		return
	}
	if pr.p.Language == lang.Rust && w == "for" && pr.traitImpl(i) {
		return
	}

	pr.loopCount++

	if pr.p.IndentBlocks {
		if top := pr.top(); top != nil && top.kind == parenFrame {
			// comprehension or generator expression
			top.loops++
			pr.frameLoops++
			if top.alloc >= 0 {
				pr.allocs[top.alloc].sized = true
			}
			pr.observeDepth()
			return
		}
	}

	pr.pendingLoops++
	pr.observeDepth()

	pr.headerOpen = true
	pr.headerFrames = len(pr.frames)
	pr.headerStyle = pr.p.HeaderStyle
	pr.headerParen = false
	pr.doHeader = false

	switch {
	case w == "do" || w == "loop":
		pr.headerStyle = lang.HeaderBlock
		pr.doHeader = w == "do"
	case pr.headerStyle == lang.HeaderParen:
		if pr.text(i+1) == "(" || pr.text(i+2) == "(" {
			pr.headerParen = true
		} else {
			pr.headerStyle = lang.HeaderBlock
		}
	}
}

// traitImpl reports whether the for at i belongs to "impl Trait for Type"
// or a higher-ranked bound such as for<'a>.
func (pr *profiler) traitImpl(i int) bool {
	if pr.text(i+1) == "<" {
		return true
	}
	for j := i - 1; j >= 0 && i-j <= 16; j-- {
		t := pr.toks[j]
		if t.Kind == normalize.BlockOpen || t.Kind == normalize.BlockClose || t.Text == ";" {
			return false
		}
		if t.Text == "impl" {
			return true
		}
	}
	return false
}

// keywordFunction handles def/func/fn/function definitions.
func (pr *profiler) keywordFunction(i int) {
	j := i + 1
	receiver := ""
	if pr.text(j) == "(" && pr.p.Language == lang.Go {
		if pr.kind(j+1) == normalize.Word {
			receiver = pr.text(j + 1)
		}
		if m := pr.match[j]; m > j {
			j = m + 1
		}
	}

	if pr.pendingFn >= 0 && pr.kind(j) != normalize.Word {
		// func type inside a signature: func f() func() int {
		return
	}

	name := ""
	if pr.kind(j) == normalize.Word {
		name = pr.text(j)
		pr.skip = j
	} else if pr.arrowName != "" && len(pr.frames) == pr.arrowBase {
		// const f = function (...) { ... }
		name = pr.arrowName
	}
	pr.arrowName = ""

	pr.fns = append(pr.fns, function{name: name, receiver: receiver, exclusive: true})
	pr.pendingFn = len(pr.fns) - 1
	pr.pendingFnBase = pr.loopDepth()
}

// cStyleDefinition recognizes "name(params) modifiers {" at token i.
func (pr *profiler) cStyleDefinition(i int) bool {
	w := pr.text(i)
	prev := pr.text(i - 1)
	if pr.p.IsReserved(w) || prev == "." || prev == "new" || prev == "->" {
		return false
	}
	if top := pr.top(); top != nil && top.kind != blockFrame {
		return false
	}
	closeIdx := pr.match[i+1]
	if closeIdx <= i+1 {
		return false
	}
	for j := closeIdx + 1; j < len(pr.toks) && j-closeIdx < 32; j++ {
		t := pr.toks[j]
		switch t.Kind {
		case normalize.BlockOpen:
			pr.fns = append(pr.fns, function{name: w, exclusive: true})
			pr.pendingFn = len(pr.fns) - 1
			pr.pendingFnBase = pr.loopDepth()
			return true
		case normalize.Word:
			if pr.p.IsLoop(t.Text) || pr.p.IsBranch(t.Text) || t.Text == "return" {
				return false
			}
		case normalize.Symbol:
			if !signatureTokens[t.Text] {
				return false
			}
		default:
			return false
		}
	}
	return false
}

func (pr *profiler) arrow(i int) {
	if pr.arrowName == "" || len(pr.frames) != pr.arrowBase {
		return
	}
	pr.fns = append(pr.fns, function{name: pr.arrowName, exclusive: true})
	idx := len(pr.fns) - 1
	pr.arrowName = ""

	if pr.kind(i+1) == normalize.BlockOpen {
		pr.pendingFn = idx
		pr.pendingFnBase = pr.loopDepth()
		return
	}
	pr.fns[idx].baseDepth = pr.loopDepth()
	pr.push(frame{kind: exprFrame, fn: idx, alloc: -1})
}

// recursiveCall records i as a call site when it names an enclosing function.
func (pr *profiler) recursiveCall(i int) {
	w := pr.text(i)
	prev := pr.text(i - 1)
	before := pr.text(i - 2)

	defs := pr.scope[w]
	if len(defs) == 0 {
		return
	}
	fn := &pr.fns[defs[len(defs)-1]]
	head := i - 1
	switch prev {
	case ".":
		if before != "this" && before != "self" && (fn.receiver == "" || before != fn.receiver) {
			return
		}
		head = i - 3
	case "::":
		head = i - 3
	}
	pr.callSite(fn, i, head)
}

func (pr *profiler) callSite(fn *function, i, head int) {
	fn.calls++
	if pr.loopDepth() > fn.baseDepth {
		fn.inLoop = true
	}

	closeIdx := pr.match[i+1]
	if closeIdx < 0 {
		closeIdx = len(pr.toks) - 1
	}
	end := min(closeIdx, i+2+argScanLimit)
	for j := i + 2; j < end; j++ {
		if pr.halvingAt(j) {
			fn.halving = true
			break
		}
	}

	if !pr.exclusiveCall(head, closeIdx) {
		fn.exclusive = false
	}
}

// exclusiveCall reports whether the call spanning (head, closeIdx] runs
// alone on its path: it heads a return statement or is the only statement
// of a branch block.
func (pr *profiler) exclusiveCall(head, closeIdx int) bool {
	switch pr.text(head) {
	case "return":
		return pr.endsStatement(closeIdx + 1)
	case "=>":
		return pr.endsStatement(closeIdx+1) || pr.text(closeIdx+1) == ","
	}
	if pr.kind(head) != normalize.BlockOpen {
		return false
	}
	if top := pr.top(); top == nil || !top.branch {
		return false
	}
	j := closeIdx + 1
	if pr.text(j) == ";" || pr.kind(j) == normalize.EndOfLine {
		j++
	}
	return pr.kind(j) == normalize.BlockClose
}

func (pr *profiler) endsStatement(j int) bool {
	if j >= len(pr.toks) {
		return true
	}
	t := pr.toks[j]
	return t.Text == ";" || t.Kind == normalize.EndOfLine || t.Kind == normalize.BlockClose
}

func (pr *profiler) halvingAt(j int) bool {
	t := pr.toks[j]
	next := pr.text(j + 1)
	switch {
	case t.Text == "/" || t.Text == "//":
		return next == "2" || next == "2.0"
	case t.Text == ">>":
		return next == "1"
	case pr.p.IsHalving(t.Text):
		return true
	case t.Kind == normalize.Word:
		lower := strings.ToLower(t.Text)
		return strings.Contains(lower, "mid") || strings.Contains(lower, "half")
	}
	return false
}

// allocAt records a container allocation starting at token i.
func (pr *profiler) allocAt(i int) {
	t := pr.toks[i]
	prev := pr.text(i - 1)
	exprPos := i == 0 || exprStart[prev]

	sized := false
	matched := false
	opener := -1

	switch {
	case t.Text == "[" && t.Kind == normalize.Symbol && pr.p.ArrayLiterals && exprPos:
		matched, opener = true, i
	case t.Text == "{" && pr.p.MapLiterals && exprPos && prev != "=>" && prev != ":" && prev != "(":
		matched, opener = true, i
	default:
		for _, a := range pr.p.Containers {
			if pr.matchSeq(i, a.Seq) {
				matched, sized = true, a.Sized
				opener = pr.firstOpener(i, len(a.Seq))
				break
			}
		}
	}
	if !matched {
		return
	}

	if pr.loopDepth() > 0 {
		sized = true
	}
	alloc := allocation{sized: sized}
	if opener >= 0 {
		alloc.args = pr.collectArgs(opener)
	}
	pr.allocs = append(pr.allocs, alloc)
	if opener >= 0 {
		pr.openAlloc[opener] = len(pr.allocs) - 1
	}
}

func (pr *profiler) matchSeq(i int, seq []string) bool {
	if i+len(seq) > len(pr.toks) {
		return false
	}
	for k, s := range seq {
		if s == "*" {
			if pr.kind(i+k) != normalize.Word {
				return false
			}
			continue
		}
		if pr.toks[i+k].Text != s {
			return false
		}
	}
	return true
}

// firstOpener finds the bracket that delimits the arguments of a pattern
// match of length n at i: inside the match or immediately after it.
func (pr *profiler) firstOpener(i, n int) int {
	for j := i; j <= i+n && j < len(pr.toks); j++ {
		if isOpener(pr.toks[j]) {
			return j
		}
	}
	return -1
}

func (pr *profiler) collectArgs(opener int) []string {
	end := pr.match[opener]
	if end < 0 || end-opener > argScanLimit {
		end = min(opener+argScanLimit, len(pr.toks)-1)
	}
	var args []string
	for j := opener + 1; j < end; j++ {
		if pr.toks[j].Kind == normalize.Word {
			args = append(args, pr.toks[j].Text)
		}
	}
	// [0] * n
	if pr.text(end+1) == "*" && pr.kind(end+2) == normalize.Word {
		args = append(args, pr.text(end+2))
	}
	return args
}

func (pr *profiler) result(ts *normalize.TokenStream) models.StructuralProfile {
	prof := models.StructuralProfile{
		MaxLoopNestingDepth:  pr.maxDepth,
		LoopCount:            pr.loopCount,
		BranchCount:          pr.branches,
		Functions:            len(pr.fns),
		ContainerAllocations: len(pr.allocs),
		Tokens:               len(ts.Tokens),
		Fallback:             pr.p.IsFallback(),
	}

	sized := pr.growInLoop
	for _, a := range pr.allocs {
		if a.sized || pr.sizedByInput(a.args) {
			sized++
		}
	}
	prof.LoopSizedAllocations = sized

	dominant := -1
	for k, fn := range pr.fns {
		if fn.calls == 0 {
			continue
		}
		prof.HasRecursion = true
		if dominant < 0 || fn.calls > pr.fns[dominant].calls {
			dominant = k
		}
	}
	if dominant >= 0 {
		fn := pr.fns[dominant]
		prof.RecursionArity = fn.calls
		prof.HasHalvingHint = fn.halving
		prof.RecursionInsideLoop = fn.inLoop
		prof.ExclusiveRecursion = fn.calls >= 2 && fn.exclusive
	}
	return prof
}

func (pr *profiler) sizedByInput(args []string) bool {
	for _, a := range args {
		if pr.loopIdents[a] || sizeWords[a] {
			return true
		}
	}
	return false
}
