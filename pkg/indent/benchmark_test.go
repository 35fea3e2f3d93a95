package indent_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/cshtmlfmt/pkg/indent"
)

func loadSample(b *testing.B, name string) string {
	b.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		b.Fatal(err)
	}
	return string(data)
}

func BenchmarkFormatRazor(b *testing.B) {
	doc := loadSample(b, "razor.cshtml")
	opts := indent.DefaultOptions()
	b.ResetTimer()
	for range b.N {
		_, _ = indent.Format(doc, opts)
	}
}

func BenchmarkFormatSwitch(b *testing.B) {
	doc := loadSample(b, "switch.cshtml")
	opts := indent.DefaultOptions()
	opts.IndentUnit = 4
	b.ResetTimer()
	for range b.N {
		_, _ = indent.Format(doc, opts)
	}
}

func BenchmarkFormatLarge(b *testing.B) {
	doc := strings.Repeat(loadSample(b, "razor.cshtml")+"\n", 200)
	opts := indent.DefaultOptions()
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for range b.N {
		_, _ = indent.Format(doc, opts)
	}
}

func BenchmarkFormatEmpty(b *testing.B) {
	opts := indent.DefaultOptions()
	for range b.N {
		_, _ = indent.Format("", opts)
	}
}
