package lang

var (
	cComments      = []string{"//"}
	cBlockComment  = [2]string{"/*", "*/"}
	cLoops         = []string{"for", "while", "do"}
	cBranches      = []string{"if", "switch", "case"}
	commonReserved = []string{
		"return", "sizeof", "catch", "new", "delete", "typeof", "await",
		"synchronized", "using", "lock", "fixed", "throw", "yield",
		"else", "try", "finally", "assert", "static_assert", "decltype",
		"alignof", "nameof", "checked", "unchecked", "default",
	}
	jsIteration = []string{
		"forEach", "map", "filter", "reduce", "reduceRight", "some", "every",
		"find", "findIndex", "flatMap",
	}
	jsContainers = []Alloc{
		{Seq: []string{"new", "Array"}},
		{Seq: []string{"new", "Map"}},
		{Seq: []string{"new", "Set"}},
		{Seq: []string{"Array", ".", "from"}, Sized: true},
		{Seq: []string{".", "map", "("}, Sized: true},
		{Seq: []string{".", "filter", "("}, Sized: true},
		{Seq: []string{".", "flatMap", "("}, Sized: true},
		{Seq: []string{".", "slice", "("}, Sized: true},
		{Seq: []string{".", "concat", "("}, Sized: true},
	}
)

var table = []*Profile{
	{
		Language:         JavaScript,
		Name:             "JavaScript",
		Aliases:          []string{"js", "node", "jsx", "ecmascript"},
		Extensions:       []string{".js", ".mjs", ".cjs", ".jsx"},
		LineComments:     cComments,
		BlockComment:     cBlockComment,
		StringDelims:     "\"'`",
		HeaderStyle:      HeaderParen,
		LoopKeywords:     cLoops,
		BranchKeywords:   cBranches,
		FunctionKeywords: []string{"function"},
		CStyleFunctions:  true,
		ArrowFunctions:   true,
		ArrayLiterals:    true,
		MapLiterals:      true,
		IterationCalls:   jsIteration,
		GrowCalls:        []string{"push", "unshift", "set", "add", "concat"},
		HalvingTokens:    []string{">>>"},
		Containers:       jsContainers,
		Reserved:         append([]string{"of", "in", "instanceof", "void", "super"}, commonReserved...),
	},
	{
		Language:         TypeScript,
		Name:             "TypeScript",
		Aliases:          []string{"ts", "tsx"},
		Extensions:       []string{".ts", ".tsx", ".mts", ".cts"},
		LineComments:     cComments,
		BlockComment:     cBlockComment,
		StringDelims:     "\"'`",
		HeaderStyle:      HeaderParen,
		LoopKeywords:     cLoops,
		BranchKeywords:   cBranches,
		FunctionKeywords: []string{"function"},
		CStyleFunctions:  true,
		ArrowFunctions:   true,
		ArrayLiterals:    true,
		MapLiterals:      true,
		IterationCalls:   jsIteration,
		GrowCalls:        []string{"push", "unshift", "set", "add", "concat"},
		HalvingTokens:    []string{">>>"},
		Containers:       jsContainers,
		Reserved:         append([]string{"of", "in", "instanceof", "void", "super", "keyof", "satisfies"}, commonReserved...),
	},
	{
		Language:         Python,
		Name:             "Python",
		Aliases:          []string{"py", "python3", "py3"},
		Extensions:       []string{".py", ".pyw", ".pyi"},
		LineComments:     []string{"#"},
		StringDelims:     "\"'",
		TripleQuotes:     true,
		IndentBlocks:     true,
		HeaderStyle:      HeaderColon,
		LoopKeywords:     []string{"for", "while"},
		BranchKeywords:   []string{"if", "elif", "match", "case"},
		FunctionKeywords: []string{"def"},
		ArrayLiterals:    true,
		MapLiterals:      true,
		GrowCalls:        []string{"append", "extend", "add", "insert", "appendleft", "update", "setdefault"},
		Containers: []Alloc{
			{Seq: []string{"list", "("}},
			{Seq: []string{"dict", "("}},
			{Seq: []string{"set", "("}},
			{Seq: []string{"deque", "("}},
			{Seq: []string{"defaultdict", "("}},
			{Seq: []string{"sorted", "("}, Sized: true},
		},
		Reserved: []string{
			"return", "lambda", "yield", "not", "and", "or", "in", "is",
			"print", "else", "try", "except", "finally", "with", "assert", "del",
		},
	},
	{
		Language:        Java,
		Name:            "Java",
		Aliases:         []string{"jdk"},
		Extensions:      []string{".java"},
		LineComments:    cComments,
		BlockComment:    cBlockComment,
		StringDelims:    "\"",
		CharLiterals:    true,
		HeaderStyle:     HeaderParen,
		LoopKeywords:    cLoops,
		BranchKeywords:  cBranches,
		CStyleFunctions: true,
		IterationCalls:  []string{"forEach", "map", "filter", "reduce", "anyMatch", "allMatch", "flatMap"},
		GrowCalls:       []string{"add", "put", "push", "offer", "addAll", "append"},
		HalvingTokens:   []string{">>>"},
		Containers: []Alloc{
			{Seq: []string{"new", "*", "["}},
			{Seq: []string{"new", "ArrayList"}},
			{Seq: []string{"new", "LinkedList"}},
			{Seq: []string{"new", "HashMap"}},
			{Seq: []string{"new", "TreeMap"}},
			{Seq: []string{"new", "HashSet"}},
			{Seq: []string{"new", "TreeSet"}},
			{Seq: []string{"new", "ArrayDeque"}},
			{Seq: []string{"new", "PriorityQueue"}},
			{Seq: []string{"new", "StringBuilder"}},
			{Seq: []string{".", "collect", "("}, Sized: true},
		},
		Reserved: commonReserved,
	},
	{
		Language:        CPP,
		Name:            "C++",
		Aliases:         []string{"c++", "cxx", "cc"},
		Extensions:      []string{".cpp", ".cc", ".cxx", ".hpp", ".hxx", ".hh"},
		LineComments:    cComments,
		BlockComment:    cBlockComment,
		StringDelims:    "\"",
		CharLiterals:    true,
		HeaderStyle:     HeaderParen,
		LoopKeywords:    cLoops,
		BranchKeywords:  cBranches,
		CStyleFunctions: true,
		GrowCalls:       []string{"push_back", "emplace_back", "insert", "emplace", "push", "push_front"},
		Containers: []Alloc{
			{Seq: []string{"vector", "<"}},
			{Seq: []string{"map", "<"}},
			{Seq: []string{"unordered_map", "<"}},
			{Seq: []string{"set", "<"}},
			{Seq: []string{"unordered_set", "<"}},
			{Seq: []string{"deque", "<"}},
			{Seq: []string{"string", "("}},
			{Seq: []string{"new", "*", "["}},
			{Seq: []string{"malloc", "("}},
			{Seq: []string{"calloc", "("}},
		},
		Reserved: append([]string{"operator", "template", "static_cast", "dynamic_cast", "reinterpret_cast", "const_cast"}, commonReserved...),
	},
	{
		Language:        C,
		Name:            "C",
		Aliases:         []string{"ansi-c", "c99", "c11"},
		Extensions:      []string{".c", ".h"},
		LineComments:    cComments,
		BlockComment:    cBlockComment,
		StringDelims:    "\"",
		CharLiterals:    true,
		HeaderStyle:     HeaderParen,
		LoopKeywords:    cLoops,
		BranchKeywords:  cBranches,
		CStyleFunctions: true,
		Containers: []Alloc{
			{Seq: []string{"malloc", "("}},
			{Seq: []string{"calloc", "("}},
			{Seq: []string{"realloc", "("}},
		},
		Reserved: commonReserved,
	},
	{
		Language:        CSharp,
		Name:            "C#",
		Aliases:         []string{"c#", "cs", "dotnet"},
		Extensions:      []string{".cs"},
		LineComments:    cComments,
		BlockComment:    cBlockComment,
		StringDelims:    "\"",
		CharLiterals:    true,
		HeaderStyle:     HeaderParen,
		LoopKeywords:    []string{"for", "foreach", "while", "do"},
		BranchKeywords:  cBranches,
		CStyleFunctions: true,
		IterationCalls:  []string{"ForEach", "Select", "Where", "Aggregate", "Any", "All", "SelectMany"},
		GrowCalls:       []string{"Add", "Push", "Enqueue", "Insert", "Append", "AddRange"},
		HalvingTokens:   []string{">>>"},
		Containers: []Alloc{
			{Seq: []string{"new", "*", "["}},
			{Seq: []string{"new", "List"}},
			{Seq: []string{"new", "Dictionary"}},
			{Seq: []string{"new", "HashSet"}},
			{Seq: []string{"new", "Queue"}},
			{Seq: []string{"new", "Stack"}},
			{Seq: []string{"new", "StringBuilder"}},
			{Seq: []string{".", "ToList", "("}, Sized: true},
			{Seq: []string{".", "ToArray", "("}, Sized: true},
		},
		Reserved: append([]string{"nameof", "base", "stackalloc"}, commonReserved...),
	},
	{
		Language:         Go,
		Name:             "Go",
		Aliases:          []string{"golang"},
		Extensions:       []string{".go"},
		LineComments:     cComments,
		BlockComment:     cBlockComment,
		StringDelims:     "\"`",
		CharLiterals:     true,
		HeaderStyle:      HeaderBlock,
		LoopKeywords:     []string{"for"},
		BranchKeywords:   []string{"if", "switch", "select", "case"},
		FunctionKeywords: []string{"func"},
		GrowCalls:        []string{"append"},
		Containers: []Alloc{
			{Seq: []string{"make", "("}},
			{Seq: []string{"[", "]", "*", "{"}},
			{Seq: []string{"map", "[", "*", "]", "*", "{"}},
		},
		Reserved: []string{"return", "go", "defer", "range", "chan", "else", "type", "var", "const"},
	},
	{
		Language:         Rust,
		Name:             "Rust",
		Aliases:          []string{"rs"},
		Extensions:       []string{".rs"},
		LineComments:     cComments,
		BlockComment:     cBlockComment,
		StringDelims:     "\"",
		CharLiterals:     true,
		HeaderStyle:      HeaderBlock,
		LoopKeywords:     []string{"for", "while", "loop"},
		BranchKeywords:   []string{"if", "match"},
		FunctionKeywords: []string{"fn"},
		ArrayLiterals:    true,
		IterationCalls:   []string{"for_each", "map", "filter", "fold", "any", "all", "flat_map", "filter_map"},
		GrowCalls:        []string{"push", "insert", "push_back", "push_front", "extend"},
		Containers: []Alloc{
			{Seq: []string{"vec", "!"}},
			{Seq: []string{"Vec", "::", "new"}},
			{Seq: []string{"Vec", "::", "with_capacity"}},
			{Seq: []string{"HashMap", "::", "new"}},
			{Seq: []string{"HashSet", "::", "new"}},
			{Seq: []string{"BTreeMap", "::", "new"}},
			{Seq: []string{"VecDeque", "::", "new"}},
			{Seq: []string{"String", "::", "new"}},
			{Seq: []string{".", "collect"}, Sized: true},
			{Seq: []string{".", "to_vec", "("}, Sized: true},
		},
		Reserved: []string{"return", "let", "mut", "match", "impl", "as", "in", "move", "unsafe", "else", "Some", "Ok", "Err"},
	},
	{
		Language:        Generic,
		Name:            "Generic (C-like)",
		Aliases:         []string{"", "unknown", "text", "plain"},
		LineComments:    cComments,
		BlockComment:    cBlockComment,
		StringDelims:    "\"'",
		HeaderStyle:     HeaderParen,
		LoopKeywords:    []string{"for", "while", "do", "foreach"},
		BranchKeywords:  cBranches,
		CStyleFunctions: true,
		ArrayLiterals:   true,
		Containers: []Alloc{
			{Seq: []string{"new", "*", "["}},
		},
		Reserved: commonReserved,
	},
}
