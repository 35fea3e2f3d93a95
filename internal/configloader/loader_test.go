package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cshtmlfmt/pkg/config"
)

// projectDir returns a temp dir marked as a VCS root so upward search stops there.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		Getenv:             func(string) string { return "" },
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, 2, result.Config.IndentUnit)
	assert.True(t, result.Config.RawBlocksEnabled())
	assert.True(t, result.Config.CaseSpacingEnabled())
	assert.Equal(t, config.DefaultExtensions, result.Config.Extensions)
	assert.Equal(t, config.EncodingAuto, result.Config.Encoding)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfigYAML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yml"), `
indent_unit: 4
separate_cases: false
ignore:
  - "bin/**"
`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Config.IndentUnit)
	assert.False(t, result.Config.CaseSpacingEnabled())
	assert.True(t, result.Config.RawBlocksEnabled())
	assert.Equal(t, []string{"bin/**"}, result.Config.Ignore)
	assert.Len(t, result.LoadedFrom, 1)
}

func TestLoad_ProjectConfigTOML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.toml"), `
indent_unit = 3
reindent_raw_blocks = false

[backups]
mode = "none"
`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Config.IndentUnit)
	assert.False(t, result.Config.RawBlocksEnabled())
	assert.Equal(t, "none", result.Config.Backups.Mode)
}

func TestLoad_ProjectConfigFoundFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yaml"), "indent_unit: 8\n")
	sub := filepath.Join(dir, "Views", "Home")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)
	assert.Equal(t, 8, result.Config.IndentUnit)
	assert.Equal(t, filepath.Join(dir, ".cshtmlfmt.yaml"), result.Paths.Project)
}

func TestLoad_UnknownKeysWarn(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yml"), "indent_unit: 2\nflavor: gfm\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown key "flavor"`)
}

func TestLoad_ExplicitConfigSkipsProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yml"), "indent_unit: 8\n")
	custom := filepath.Join(dir, "custom.toml")
	writeFile(t, custom, "encoding = \"windows-1252\"\n")

	opts := isolated(dir)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Config.IndentUnit)
	assert.Equal(t, "windows-1252", result.Config.Encoding)
	assert.Equal(t, []string{custom}, result.LoadedFrom)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yml"), "indent_unit: 8\n")

	env := map[string]string{
		"CSHTMLFMT_INDENT_UNIT":    "4",
		"CSHTMLFMT_SEPARATE_CASES": "false",
		"CSHTMLFMT_IGNORE":         "a/**, b/** ,",
		"CSHTMLFMT_JOBS":           "3",
	}
	opts := isolated(dir)
	opts.Getenv = func(key string) string { return env[key] }

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Config.IndentUnit)
	assert.False(t, result.Config.CaseSpacingEnabled())
	assert.Equal(t, []string{"a/**", "b/**"}, result.Config.Ignore)
	assert.Equal(t, 3, result.Config.Jobs)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Parallel()

	opts := isolated(projectDir(t))
	opts.Getenv = func(key string) string {
		if key == "CSHTMLFMT_SEPARATE_CASES" {
			return "maybe"
		}
		return ""
	}

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSHTMLFMT_SEPARATE_CASES")
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".cshtmlfmt.yml"), "indent_unit: 8\nreindent_raw_blocks: true\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		IndentUnit:        4,
		ReindentRawBlocks: config.Bool(false),
		Write:             true,
		Jobs:              8,
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Config.IndentUnit)
	assert.False(t, result.Config.RawBlocksEnabled())
	assert.True(t, result.Config.Write)
	assert.Equal(t, 8, result.Config.Jobs)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "negative indent", file: ".cshtmlfmt.yml", content: "indent_unit: -1\n", want: "indent_unit"},
		{name: "bad encoding", file: ".cshtmlfmt.yml", content: "encoding: klingon\n", want: "encoding"},
		{name: "bad extension", file: ".cshtmlfmt.toml", content: "extensions = [\"cshtml\"]\n", want: "extensions[0]"},
		{name: "bad backup mode", file: ".cshtmlfmt.yml", content: "backups:\n  mode: cloud\n", want: "backups.mode"},
		{name: "syntax error", file: ".cshtmlfmt.toml", content: "indent_unit = = 2\n", want: "parse toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}

	t.Run("unset fields keep base", func(t *testing.T) {
		t.Parallel()

		got := merge(base, &config.Config{})
		assert.Equal(t, base.IndentUnit, got.IndentUnit)
		assert.Equal(t, base.Ignore, got.Ignore)
		assert.True(t, got.BackupsEnabled())
	})

	t.Run("explicit false wins", func(t *testing.T) {
		t.Parallel()

		got := merge(base, &config.Config{Backups: config.BackupsConfig{Enabled: config.Bool(false)}})
		assert.False(t, got.BackupsEnabled())
		assert.True(t, base.BackupsEnabled(), "base must not be mutated")
	})

	t.Run("empty slice replaces", func(t *testing.T) {
		t.Parallel()

		got := merge(base, &config.Config{Ignore: []string{}})
		assert.Empty(t, got.Ignore)
		assert.NotNil(t, got.Ignore)
	})

	t.Run("merge all applies in order", func(t *testing.T) {
		t.Parallel()

		got := MergeAll(base, &config.Config{IndentUnit: 4}, &config.Config{IndentUnit: 6})
		assert.Equal(t, 6, got.IndentUnit)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		result := Validate(config.NewConfig())
		assert.True(t, result.Valid())
		assert.False(t, result.HasWarnings())
	})

	t.Run("large indent warns", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.IndentUnit = 32
		result := Validate(cfg)
		assert.True(t, result.Valid())
		assert.True(t, result.HasWarnings())
	})

	t.Run("collects every error", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Format = "xml"
		cfg.Jobs = -1
		cfg.Ignore = []string{"[bad"}

		result := ValidateWithFile(cfg, "x.yml")
		require.Len(t, result.Errors, 3)
		for _, msg := range result.AllMessages() {
			assert.True(t, strings.HasPrefix(msg, "error: x.yml: "), msg)
		}
	})
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.Len(t, vars, len(envMappings))
	for i, v := range vars {
		assert.True(t, strings.HasPrefix(v.Name, envVarPrefix))
		assert.NotEmpty(t, v.Description)
		if i > 0 {
			assert.Less(t, vars[i-1].Name, v.Name)
		}
	}
}
