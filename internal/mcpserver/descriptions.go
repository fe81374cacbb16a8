package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and what it returns.

func describeComplexity() string {
	return `Estimates the asymptotic time and space complexity of code from its loop and recursion structure.

USE WHEN:
- Reviewing a snippet or function for performance before merging
- Explaining why a piece of code is slow on large inputs
- Scanning files for quadratic or exponential hot spots

INTERPRETING RESULTS:
- Classes from best to worst: O(1), O(log n), O(n), O(n log n), O(n^2), O(2^n)
- O(?) means the structure was ambiguous; treat it as "needs a human look"
- confidence "high": exactly one rule explained the code
- confidence "low": several rules fired and the worst class was taken
- Three or more nested loops are reported as O(2^n), a deliberate over-estimate
- Recursion with two calls and no halving (fib-style) is O(2^n)
- Recursion that halves its input is O(log n) with one call, O(n log n) with two
- The estimate is heuristic and token based; it never runs or fully parses the code

METRICS RETURNED:
- estimate: time, space, confidence, matched rules
- profile: loop nesting depth, loop count, recursion arity, halving hint, allocations, branches
- For paths: per-file results plus a summary histogram and worst classes`
}

func describePlagiarism() string {
	return `Scores how much of a code snippet appears in a reference corpus using token shingles and Jaccard similarity.

USE WHEN:
- Checking a submission against known solutions or templates
- Finding which reference a snippet was copied from
- Detecting copies that only changed whitespace, comments or literals

INTERPRETING RESULTS:
- score is 0-100: the Jaccard similarity of token 3-grams, truncated
- 100 means the token sequences share every shingle (formatting and comments are ignored)
- flagged matches reached the threshold (default 0.8 = score 80)
- Renamed identifiers lower the score unless normalize_identifiers is set
- Snippets shorter than the shingle size compare as a single shingle
- An empty candidate or empty corpus scores 0

METRICS RETURNED:
- score and best_match: the highest-scoring corpus entry
- matches: per-entry score, jaccard, shared shingles, exact and flagged flags
- summary: mean, standard deviation and median score, flagged count`
}

func describeCluster() string {
	return `Groups corpus entries that are similar to each other, for finding rings of copied code.

USE WHEN:
- Several submissions may have been copied from one another
- Deduplicating a set of snippets or templates

INTERPRETING RESULTS:
- pairs lists every pair whose score reached the threshold, highest first
- clusters are connected groups: A~B and B~C put A, B and C together even if A and C differ
- Entries with no similar partner are not listed

METRICS RETURNED:
- pairs: a, b, score
- clusters: members, max_score`
}

func describeLanguages() string {
	return `Lists the languages with dedicated lexical profiles.

USE WHEN:
- Choosing the language argument for analyze_complexity or detect_plagiarism

INTERPRETING RESULTS:
- Any other tag is accepted and analyzed with a generic C-like profile

METRICS RETURNED:
- tag, display name and file extensions per language`
}
