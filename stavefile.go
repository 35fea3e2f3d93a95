//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binName    = "cshtmlfmt"
	binPath    = "bin/" + binName
	mainPkg    = "./cmd/" + binName
	enginePkg  = "./pkg/indent"
	goldenTest = "^TestFormatGolden$"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"bi":  Bench.Indent,
	"fz":  Test.Fuzz,
	"gu":  Test.Golden,
}

// releasePlatforms are the GOOS/GOARCH pairs CI.Cross compiles for.
var releasePlatforms = []string{
	"linux/amd64", "linux/arm64",
	"darwin/amd64", "darwin/arm64",
	"windows/amd64", "windows/arm64",
	"freebsd/amd64",
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles the binary with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binPath, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binPath, "is up to date")
		return nil
	}
	return step("Building "+binName, "go", "build", "-ldflags", ldflags(), "-o", binPath, mainPkg)
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs the binary to $GOBIN or $GOPATH/bin.
func Install() error {
	return step("Installing "+binName, "go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the binary installed by Install.
func Uninstall() error {
	path, err := installedBinary()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println(binName, "is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Println("Removed", path)
	return nil
}

// Deps downloads and tidies modules.
func Deps() error {
	if err := step("Downloading dependencies", "go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage renders the coverage profile of Test.Default as HTML.
func Coverage() error {
	st.Deps(Test.Default)
	return step("Generating coverage report", "go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("Running tests", "pkgname-and-test-fails", raceArgs()...)
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	return gotestsum("Running tests (verbose)", "standard-verbose", raceArgs()...)
}

// Fuzz runs FuzzFormat for FUZZ_TIME (default 30s).
func (Test) Fuzz() error {
	return goTest("Fuzzing formatter",
		"-fuzz", "^FuzzFormat$", "-fuzztime", cmp.Or(os.Getenv("FUZZ_TIME"), "30s"))
}

// Golden rewrites the engine golden files from the current formatter output.
func (Test) Golden() error {
	return step("Updating golden files", "go", "test", "-run", goldenTest, enginePkg, "-update")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return step("Running linters", "golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return step("Running linters (CI mode)", "golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return step("Formatting code", "gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	fmt.Println("✓ Code formatting OK")
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return step("Running go vet", "go", "vet", "./...")
}

// Gate runs every CI check in order.
func (CI) Gate() {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.Tidy,
		CI.Cross,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
}

// Tidy fails when go mod tidy changes go.mod or go.sum.
func (CI) Tidy() error {
	files := []string{"go.mod", "go.sum"}
	before := snapshot(files)
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	var stale []string
	for path, data := range snapshot(files) {
		if !bytes.Equal(before[path], data) {
			stale = append(stale, path)
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%s changed after 'go mod tidy', commit the changes", strings.Join(stale, ", "))
	}
	fmt.Println("✓ go.mod/go.sum are tidy")
	return nil
}

// Cross builds for every release platform.
func (CI) Cross() error {
	for _, platform := range releasePlatforms {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		fmt.Printf("  Building %s...\n", platform)
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build failed for %s: %w", platform, err)
		}
	}
	fmt.Println("✓ All platforms build successfully")
	return nil
}

// Default runs every benchmark in the module.
func (Bench) Default() error {
	return gotestsum("Running benchmarks", "pkgname-and-test-fails", "-bench=.", "-benchmem", "./...")
}

// Indent repeats the formatter benchmarks BENCH_RUNS times (default 5) for benchstat.
func (Bench) Indent() error {
	return goTest("Running indent benchmarks",
		"-bench", "^BenchmarkFormat", "-benchmem", "-count", cmp.Or(os.Getenv("BENCH_RUNS"), "5"))
}

// step prints what is about to run and runs it with output attached.
func step(what, cmd string, args ...string) error {
	fmt.Println(what + "...")
	return sh.RunV(cmd, args...)
}

// goTest runs go test on the engine package with unit tests filtered out.
func goTest(what string, args ...string) error {
	return step(what, "go", append(append([]string{"test", "-run", "^$"}, args...), enginePkg)...)
}

func gotestsum(what, format string, args ...string) error {
	return step(what, "go", append([]string{"tool", "gotestsum", "-f", format, "--"}, args...)...)
}

func raceArgs() []string {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return []string{
		"-v", "-race", "-p", procs, "-parallel", procs, "./...",
		"-coverprofile=coverage.out", "-covermode=atomic",
	}
}

// snapshot reads files, skipping those that do not exist.
func snapshot(paths []string) map[string][]byte {
	out := make(map[string][]byte, len(paths))
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			out[path] = data
		}
	}
	return out
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects the version variables of cmd/cshtmlfmt.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}

// installedBinary returns where go install places the binary.
func installedBinary() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, binName), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", binName), nil
}
