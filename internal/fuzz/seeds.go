package fuzztests

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

// inlineSeeds cover constructs the testdata scripts do not.
var inlineSeeds = []string{
	"",
	"int x = 1;\n",
	"script int Twice(int n)\n\treturn n * 2;\nend_script\nint y = Twice(2);\n",
	"Array<Map<string, int>> nested = {};\nforeach (Map<string, int> m in nested) { m[\"a\"] = 1; }\n",
	"double r = Math.Sqrt(Math.Sin(1.0));\n",
	"extern int shared;\nglobal int later = shared;\n",
	"int a = (int)2.5 + (double)1;\n",
	"string s = \"unterminated\n",
	"/* open comment\n",
	"script void f(\n",
	"int x = Foo(1, (2, 3;\n",
	"}}}} end_script ) (",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	paths, _ := filepath.Glob(filepath.Join("..", "..", "testdata", "scripts", "*.us"))
	for _, path := range paths {
		// #nosec G304 -- testdata from the repository
		if src, err := os.ReadFile(path); err == nil {
			f.Add(clampTo(src, maxSeedBytes))
		}
	}
}

// clampTo копирует не больше limit байт; движок не должен видеть
// буфер, который fuzz переиспользует.
func clampTo(b []byte, limit int) []byte {
	return bytes.Clone(b[:min(len(b), limit)])
}

func clampInput(input []byte) []byte { return clampTo(input, maxFuzzInput) }
