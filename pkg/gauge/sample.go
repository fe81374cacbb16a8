package gauge

import (
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
)

// SampleCorpus returns the built-in reference corpus: one hello-world
// program each in JavaScript, Python and Java. It is a fresh copy on
// every call.
func SampleCorpus() []models.CorpusEntry {
	return []models.CorpusEntry{
		{
			ID:       "sample/javascript",
			Language: string(lang.JavaScript),
			Text:     `function example() { console.log("Hello, world!"); }`,
		},
		{
			ID:       "sample/python",
			Language: string(lang.Python),
			Text:     "def example():\n    print(\"Hello, world!\")",
		},
		{
			ID:       "sample/java",
			Language: string(lang.Java),
			Text: `public class Example {
    public static void main(String[] args) {
        System.out.println("Hello, world!");
    }
}`,
		},
	}
}

var templates = map[lang.Language]string{
	lang.JavaScript: "// Write your JavaScript code here\nfunction example() {\n  console.log(\"Hello, world!\");\n  return true;\n}\n",
	lang.TypeScript: "// Write your TypeScript code here\nfunction example(): boolean {\n  console.log(\"Hello, world!\");\n  return true;\n}\n",
	lang.Python:     "# Write your Python code here\ndef example():\n    print(\"Hello, world!\")\n    return True\n",
	lang.Java:       "// Write your Java code here\npublic class Example {\n    public static void main(String[] args) {\n        System.out.println(\"Hello, world!\");\n    }\n}\n",
	lang.CPP:        "// Write your C++ code here\n#include <iostream>\n\nint main() {\n    std::cout << \"Hello, world!\" << std::endl;\n    return 0;\n}\n",
	lang.C:          "// Write your C code here\n#include <stdio.h>\n\nint main(void) {\n    printf(\"Hello, world!\\n\");\n    return 0;\n}\n",
	lang.CSharp:     "// Write your C# code here\nusing System;\n\nclass Program {\n    static void Main() {\n        Console.WriteLine(\"Hello, world!\");\n    }\n}\n",
	lang.Go:         "// Write your Go code here\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello, world!\")\n}\n",
	lang.Rust:       "// Write your Rust code here\nfn main() {\n    println!(\"Hello, world!\");\n}\n",
}

// Template returns a starter snippet for language. Aliases are resolved;
// the generic profile and unknown tags have none.
func Template(language string) (string, bool) {
	p, ok := lang.Lookup(language)
	if !ok {
		return "", false
	}
	t, ok := templates[p.Language]
	return t, ok
}
