package langdetect

import (
	"testing"
)

func BenchmarkIsTemplate(b *testing.B) {
	exts := []string{".cshtml", ".razor"}
	b.ResetTimer()
	for range b.N {
		IsTemplate("Views/Home/Index.cshtml", exts)
	}
}

func BenchmarkIsTemplateFallback(b *testing.B) {
	b.ResetTimer()
	for range b.N {
		IsTemplate("Views/Home/Index.cshtml", nil)
	}
}

func BenchmarkShouldSkip(b *testing.B) {
	content := []byte("@model Foo\n<div>\n  <p>@Model.Name</p>\n</div>\n")
	b.ResetTimer()
	for range b.N {
		ShouldSkip("Views/Home/Index.cshtml", content, false)
	}
}
