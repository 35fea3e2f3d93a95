package indent_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/cshtmlfmt/pkg/indent"
)

func FuzzFormat(f *testing.F) {
	f.Add("", 2)
	f.Add("<div>\n<p>x</p>\n</div>", 2)
	f.Add("<text>\n@:a\n@:{\n@:b\n@:}\n</text>", 4)
	f.Add("<script>\nswitch (a) {\ncase 1:\nbreak;\ncase 2:\n}\n</script>", 2)
	f.Add("@{\n/* { */\nvar s = \"}\";\n}\r\n<style>\n", 3)
	f.Add("</div>\n}}\n<!-- <p>\n-->", 0)

	f.Fuzz(func(t *testing.T, document string, unit int) {
		if unit > 16 || unit < -16 {
			return
		}

		res, err := indent.Format(document, indent.Options{
			IndentUnit:        unit,
			ReindentRawBlocks: true,
			SeparateCases:     true,
		})
		if err != nil {
			if res.Output != document {
				t.Fatalf("failed format must return the input unchanged")
			}
			return
		}

		if len(res.Changes) == 0 {
			t.Fatal("change log must never be empty on success")
		}

		in := strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")
		out := strings.Split(strings.ReplaceAll(res.Output, "\r\n", "\n"), "\n")
		if got, want := len(out), len(in)+res.Inserted; got != want {
			t.Fatalf("output has %d lines, want %d", got, want)
		}
	})
}
