package complexity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/normalize"
)

func profileOf(code, language string) models.StructuralProfile {
	p := lang.MustLookup(language)
	return BuildProfile(normalize.Tokenize(code, p), p)
}

func TestBuildProfileLoopDepth(t *testing.T) {
	tests := []struct {
		name  string
		lang  string
		code  string
		depth int
		loops int
	}{
		{
			name: "sequential loops",
			lang: "javascript",
			code: `for (let i = 0; i < n; i++) { a++; }
for (let j = 0; j < n; j++) { b++; }`,
			depth: 1, loops: 2,
		},
		{
			name: "branches do not nest loops",
			lang: "javascript",
			code: `for (const x of xs) {
  if (x > 0) {
    if (x > 1) { y++; }
  }
}`,
			depth: 1, loops: 1,
		},
		{
			name:  "brace-less nested loops",
			lang:  "c",
			code:  "for (i = 0; i < n; i++) for (j = 0; j < n; j++) s += a[i][j]; done();",
			depth: 2, loops: 2,
		},
		{
			name:  "brace-less loop ends at semicolon",
			lang:  "java",
			code:  "for (int i = 0; i < n; i++) s += i; for (int j = 0; j < n; j++) { t++; }",
			depth: 1, loops: 2,
		},
		{
			name:  "do while counts once",
			lang:  "javascript",
			code:  "let i = 0; do { i++; } while (i < n);",
			depth: 1, loops: 1,
		},
		{
			name:  "iteration call in header is not nested",
			lang:  "javascript",
			code:  "for (const x of xs.filter(Boolean)) { total += x; }",
			depth: 1, loops: 2,
		},
		{
			name:  "nested iteration calls",
			lang:  "javascript",
			code:  "xs.forEach(x => { ys.forEach(y => { count++; }); });",
			depth: 2, loops: 2,
		},
		{
			name: "python nested",
			lang: "python",
			code: `for a in xs:
    for b in ys:
        print(a, b)
for c in zs:
    pass
`,
			depth: 2, loops: 3,
		},
		{
			name:  "python one-line loop",
			lang:  "python",
			code:  "for x in xs: total += x\nprint(total)\n",
			depth: 1, loops: 1,
		},
		{
			name:  "python comprehension",
			lang:  "python",
			code:  "squares = [x * x for x in xs]\n",
			depth: 1, loops: 1,
		},
		{
			name: "go range with composite literal header",
			lang: "go",
			code: `for _, v := range []int{1, 2, 3} {
	for i := 0; i < v; i++ {
		total += i
	}
}`,
			depth: 2, loops: 2,
		},
		{
			name: "rust impl for is not a loop",
			lang: "rust",
			code: `impl Display for Point {
    fn fmt(&self, f: &mut Formatter) -> Result {
        for x in self.xs.iter() { write!(f, "{}", x)?; }
        Ok(())
    }
}`,
			depth: 1, loops: 1,
		},
		{
			name:  "rust loop keyword",
			lang:  "rust",
			code:  "loop { while x > 0 { x -= 1; } break; }",
			depth: 2, loops: 2,
		},
		{
			name:  "csharp foreach",
			lang:  "csharp",
			code:  "foreach (var x in items) { foreach (var y in items) { Console.WriteLine(x + y); } }",
			depth: 2, loops: 2,
		},
		{
			name:  "keywords inside strings and comments are ignored",
			lang:  "javascript",
			code:  "// for (;;) {}\nconst s = \"while (true) { for }\"; /* for */",
			depth: 0, loops: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := profileOf(tt.code, tt.lang)
			assert.Equal(t, tt.depth, prof.MaxLoopNestingDepth, "depth")
			assert.Equal(t, tt.loops, prof.LoopCount, "loop count")
		})
	}
}

func TestBuildProfileRecursion(t *testing.T) {
	tests := []struct {
		name      string
		lang      string
		code      string
		arity     int
		halving   bool
		exclusive bool
		inLoop    bool
	}{
		{
			name: "halving double call",
			lang: "javascript",
			code: `function solve(n) {
  if (n <= 1) return 1;
  return solve(n / 2) + solve(n / 2);
}`,
			arity: 2, halving: true,
		},
		{
			name: "linear",
			lang: "javascript",
			code: `function count(n) {
  if (n === 0) return 0;
  return 1 + count(n - 1);
}`,
			arity: 1,
		},
		{
			name: "binary search returns",
			lang: "javascript",
			code: `function search(arr, target, lo, hi) {
  if (lo > hi) return -1;
  const mid = Math.floor((lo + hi) / 2);
  if (arr[mid] === target) return mid;
  if (arr[mid] < target) return search(arr, target, mid + 1, hi);
  return search(arr, target, lo, mid - 1);
}`,
			arity: 2, halving: true, exclusive: true,
		},
		{
			name: "dfs inside loop",
			lang: "javascript",
			code: `function dfs(node) {
  for (const child of node.children) {
    dfs(child);
  }
}`,
			arity: 1, inLoop: true,
		},
		{
			name: "python self method",
			lang: "python",
			code: `class T:
    def size(self, n):
        if n <= 0:
            return 0
        return 1 + self.size(n - 1)
`,
			arity: 1,
		},
		{
			name: "python floor division",
			lang: "python",
			code: `def power(x, n):
    if n == 0:
        return 1
    half = power(x, n // 2)
    return half * half
`,
			arity: 1, halving: true,
		},
		{
			name: "go receiver method",
			lang: "go",
			code: `func (s *Solver) walk(n int) int {
	if n == 0 {
		return 0
	}
	return s.walk(n-1) + s.walk(n-2)
}`,
			arity: 2,
		},
		{
			name: "rust branch tail calls",
			lang: "rust",
			code: `fn search(a: &[i32], x: i32, lo: usize, hi: usize) -> bool {
    if lo >= hi {
        return false;
    }
    let mid = (lo + hi) / 2;
    if a[mid] < x {
        search(a, x, mid + 1, hi)
    } else {
        search(a, x, lo, mid)
    }
}`,
			arity: 2, halving: true, exclusive: true,
		},
		{
			name:  "arrow function expression body",
			lang:  "javascript",
			code:  "const fact = (n) => n <= 1 ? 1 : n * fact(n - 1);",
			arity: 1,
		},
		{
			name: "java method",
			lang: "java",
			code: `class M {
    static int fib(int n) {
        if (n < 2) return n;
        return fib(n - 1) + fib(n - 2);
    }
}`,
			arity: 2,
		},
		{
			name: "shift halving",
			lang: "cpp",
			code: `int depth(int n) {
    if (n == 0) return 0;
    return 1 + depth(n >> 1);
}`,
			arity: 1, halving: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := profileOf(tt.code, tt.lang)
			assert.True(t, prof.HasRecursion, "recursion")
			assert.Equal(t, tt.arity, prof.RecursionArity, "arity")
			assert.Equal(t, tt.halving, prof.HasHalvingHint, "halving")
			assert.Equal(t, tt.exclusive, prof.ExclusiveRecursion, "exclusive")
			assert.Equal(t, tt.inLoop, prof.RecursionInsideLoop, "inside loop")
			assert.GreaterOrEqual(t, prof.Functions, 1)
		})
	}
}

func TestBuildProfileNoFalseRecursion(t *testing.T) {
	tests := map[string]struct {
		lang string
		code string
	}{
		"call of other function": {"javascript", "function a(n) { return b(n - 1); }"},
		"method on other object": {"java", "class X { int size() { return list.size(); } }"},
		"definition only":        {"cpp", "int f(int n) { return n; }"},
		"call inside condition":  {"javascript", "if (check(x)) { run(); }"},
		"name in string":         {"python", "def f(n):\n    return \"f(n - 1)\"\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			prof := profileOf(tt.code, tt.lang)
			assert.False(t, prof.HasRecursion)
			assert.Zero(t, prof.RecursionArity)
		})
	}
}

func TestBuildProfileCallInsideConditionIsNotADefinition(t *testing.T) {
	prof := profileOf("if (check(x)) { check(y); }", "javascript")
	assert.Zero(t, prof.Functions)
	assert.Equal(t, 1, prof.BranchCount)
}

func TestBuildProfileAllocations(t *testing.T) {
	tests := []struct {
		name       string
		lang       string
		code       string
		containers int
		sized      int
	}{
		{
			name:       "javascript constructors and literals",
			lang:       "javascript",
			code:       "const out = new Array(n); const seen = new Set(); const m = {};",
			containers: 3, sized: 1,
		},
		{
			name:       "push inside loop",
			lang:       "javascript",
			code:       "const out = []; for (const x of xs) { out.push(x); }",
			containers: 1, sized: 1,
		},
		{
			name:       "sized by loop variable",
			lang:       "python",
			code:       "buf = [0] * size\nfor i in range(size):\n    buf[i] = i\n",
			containers: 1, sized: 1,
		},
		{
			name:       "python comprehension",
			lang:       "python",
			code:       "squares = [x * x for x in xs]\n",
			containers: 1, sized: 1,
		},
		{
			name:       "fixed python literal",
			lang:       "python",
			code:       "pair = [1, 2]\nlookup = {}\n",
			containers: 2, sized: 0,
		},
		{
			name:       "java array of n",
			lang:       "java",
			code:       "int[] memo = new int[n];",
			containers: 1, sized: 1,
		},
		{
			name:       "go make",
			lang:       "go",
			code:       "out := make([]int, 0, len(xs))",
			containers: 1, sized: 1,
		},
		{
			name:       "rust collect",
			lang:       "rust",
			code:       "let v: Vec<i32> = xs.iter().map(|x| x * 2).collect();",
			containers: 1, sized: 1,
		},
		{
			name:       "indexing is not allocation",
			lang:       "javascript",
			code:       "total += arr[i];",
			containers: 0, sized: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := profileOf(tt.code, tt.lang)
			assert.Equal(t, tt.containers, prof.ContainerAllocations, "containers")
			assert.Equal(t, tt.sized, prof.LoopSizedAllocations, "sized")
		})
	}
}

func TestBuildProfileBranches(t *testing.T) {
	prof := profileOf(`if (a) { x(); } else if (b) { y(); }
switch (c) { case 1: break; case 2: break; }`, "javascript")
	assert.Equal(t, 5, prof.BranchCount)
	assert.Zero(t, prof.MaxLoopNestingDepth)

	py := profileOf("if a:\n    x()\nelif b:\n    y()\n", "python")
	assert.Equal(t, 2, py.BranchCount)
}

func TestBuildProfileNilInputs(t *testing.T) {
	prof := BuildProfile(nil, nil)
	assert.Equal(t, models.StructuralProfile{Fallback: true}, prof)
}

func TestBuildProfileUnbalancedInput(t *testing.T) {
	assert.NotPanics(t, func() {
		profileOf("} } ) for ( { { [ function f( {", "javascript")
		profileOf("def f(:\n  for x in (\n", "python")
		profileOf("fn main() { let s = \"unterminated", "rust")
	})
}

func TestBuildProfileHalvingNeedsDivisorTwo(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		halving bool
	}{
		{"divide by two", "function f(n) { return f(n / 2) + f(n / 2); }", true},
		{"divide by two float", "function f(n) { return f(n / 2.0) + f(n / 2.0); }", true},
		{"divide by twenty", "function f(n) { return f(n / 20) + f(n / 20); }", false},
		{"divide by 2048", "function f(n) { return f(n / 2048) + f(n / 2048); }", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := profileOf(tt.code, "javascript")
			assert.Equal(t, 2, prof.RecursionArity)
			assert.Equal(t, tt.halving, prof.HasHalvingHint)
		})
	}
}

func TestBuildProfileDeepNestingIsLinear(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	inputs := map[string]string{
		"open parens":      strings.Repeat("(", 200000),
		"nested loops":     strings.Repeat("for (;;) {", 50000),
		"nested functions": strings.Repeat("function f(n) { f(", 20000),
	}
	p := lang.MustLookup("javascript")

	for name, code := range inputs {
		t.Run(name, func(t *testing.T) {
			ts := normalize.Tokenize(code, p)
			start := time.Now()
			BuildProfile(ts, p)
			// A per-token walk of the open frames takes minutes at this size.
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}
