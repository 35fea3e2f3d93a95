package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "bin/**", path: "bin/Debug/x.cshtml", want: true},
		{pattern: "bin/**", path: "src/bin/x.cshtml", want: false},
		{pattern: "**/obj/**", path: "src/App/obj/x.cshtml", want: true},
		{pattern: "*.g.cshtml", path: "Views/Shared/_Layout.g.cshtml", want: true},
		{pattern: "*.g.cshtml", path: "Views/Index.cshtml", want: false},
		{pattern: "Views/*.cshtml", path: "Views/Index.cshtml", want: true},
		{pattern: "Views/*.cshtml", path: "Views/Home/Index.cshtml", want: false},
		{pattern: "Views/**/*.cshtml", path: "Views/Index.cshtml", want: true},
		{pattern: "./Areas/**", path: "Areas/Admin/x.cshtml", want: true},
		{pattern: "[bad", path: "bad", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matchGlob(tt.pattern, tt.path))
		})
	}
}

func TestIgnoredDirectory(t *testing.T) {
	t.Parallel()

	assert.True(t, ignored([]string{"bin/**"}, "bin", true))
	assert.False(t, ignored([]string{"bin/**"}, "bin", false))
	assert.False(t, ignored(nil, "bin", true))
}
