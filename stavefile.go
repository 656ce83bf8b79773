//go:build stave

package main

import (
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
	binaryName = "mdcheck"
	binaryPath = "bin/" + binaryName
	mainPkg    = "./cmd/" + binaryName
	coverFile  = "coverage.out"

	// fuzzPkg holds FuzzParse, the goldmark-to-event adapter fuzz test.
	fuzzPkg = "./pkg/parser/goldmark"
)

// Default builds the binary.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"r":    Test.Rules,
	"l":    Lint.Default,
	"c":    Check,
	"i":    Install,
	"fmt":  Lint.Fmt,
	"self": Docs.Self,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
	Docs st.Namespace
)

// releasePlatforms are the GOOS/GOARCH pairs CI cross-compiles.
//
//nolint:gochecknoglobals // Read-only build matrix.
var releasePlatforms = [][2]string{
	{"linux", "amd64"}, {"linux", "arm64"},
	{"darwin", "amd64"}, {"darwin", "arm64"},
	{"windows", "amd64"}, {"windows", "arm64"},
	{"freebsd", "amd64"}, {"openbsd", "amd64"},
}

// Build compiles bin/mdcheck unless it is newer than every source.
func Build() error {
	stale, err := target.Dir(binaryPath, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	switch {
	case err != nil:
		return err
	case !stale:
		fmt.Println(binaryPath, "is up to date")
		return nil
	}
	fmt.Println("Building", binaryPath)
	return goRun("build", "-trimpath", "-ldflags", ldflags(), "-o", binaryPath, mainPkg)
}

// Check is the local pre-push loop: format, lint, test, then lint our own
// Markdown with the fresh binary.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Docs.Self)
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, path := range []string{"bin", coverFile, "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install puts mdcheck in $GOBIN (or $GOPATH/bin) with version data.
func Install() error {
	return goRun("install", "-trimpath", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the installed mdcheck binary, if any.
func Uninstall() error {
	binPath, err := installedBinary()
	if err != nil {
		return err
	}
	err = os.Remove(binPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Println(binaryName, "is not installed")
		return nil
	case err != nil:
		return fmt.Errorf("remove %s: %w", binPath, err)
	}
	fmt.Println("Removed", binPath)
	return nil
}

// Coverage writes coverage.html from a fresh test run.
func Coverage() error {
	st.Deps(Test.Default)
	return goRun("tool", "cover", "-html="+coverFile, "-o", "coverage.html")
}

// Test namespace.

// Default runs every test with the race detector and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile="+coverFile, "-covermode=atomic")
}

// Verbose runs every test printing each test name.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-v", "-race")
}

// Rules runs the rule, link index and inline directive tests.
func (Test) Rules() error {
	return gotestsum("testname", "./pkg/lint/...", "./pkg/inline/...", "./pkg/parser/...")
}

// Fuzz fuzzes the parser adapter for FUZZTIME (default 30s), checking that
// every event range stays inside the document.
func (Test) Fuzz() error {
	fuzztime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	return goRun("test", "-run=^$", "-fuzz=^FuzzParse$", "-fuzztime="+fuzztime, fuzzPkg)
}

// Bench runs the benchmarks without tests.
func (Test) Bench() error {
	return gotestsum("pkgname-and-test-fails", "-run=^$", "-bench=.", "-benchmem")
}

// Lint namespace.

// Default runs golangci-lint, applying its fixes.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint read-only.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt rewrites Go files with gofmt -s.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-s", "-w", ".")
}

// FmtCheck lists files gofmt -s would change and fails if there are any.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-s", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out = strings.TrimSpace(out); out != "" {
		return fmt.Errorf("not gofmt-clean (run 'stave fmt'):\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return goRun("vet", "./...")
}

// CI namespace.

// Gate runs what CI runs, in CI's order.
func (CI) Gate() error {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Lint.CI, Build, Test.Default, Docs.Self, CI.ModTidy, CI.Cross)
	fmt.Println("CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := modFiles()
	if err != nil {
		return err
	}
	if err := goRun("mod", "tidy"); err != nil {
		return err
	}
	after, err := modFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go mod tidy changed go.mod or go.sum; commit the result")
	}
	return nil
}

// Cross compiles mdcheck for every release platform.
func (CI) Cross() error {
	for _, p := range releasePlatforms {
		goos, goarch := p[0], p[1]
		fmt.Printf("  %s/%s\n", goos, goarch)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
		}
	}
	return nil
}

// Docs namespace.

// Self lints the repository's own Markdown with the freshly built binary.
func (Docs) Self() error {
	st.Deps(Build)
	start := time.Now()
	err := sh.RunV(binaryPath, "lint", "--format", "summary", ".")
	fmt.Printf("Linted repository Markdown in %s\n", time.Since(start).Round(time.Millisecond))
	return err
}

// Rules prints the rule catalogue of the built binary.
func (Docs) Rules() error {
	st.Deps(Build)
	return sh.RunV(binaryPath, "rules")
}

// Config writes the full commented config `mdcheck init --full` creates
// to bin/.markdownlint-cli2.yaml for review.
func (Docs) Config() error {
	st.Deps(Build)
	return sh.RunV(binaryPath, "init", "--full", "--force", "--output", filepath.Join("bin", ".markdownlint-cli2.yaml"))
}

// Helpers.

func goRun(args ...string) error {
	return sh.RunV("go", args...)
}

// gotestsum runs go test through gotestsum. Arguments starting with "./"
// replace the default ./... package pattern.
func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")

	var flags, pkgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "./") {
			pkgs = append(pkgs, arg)
		} else {
			flags = append(flags, arg)
		}
	}
	if len(pkgs) == 0 {
		pkgs = []string{"./..."}
	}

	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, flags...)
	return goRun(append(cmdArgs, pkgs...)...)
}

func modFiles() (string, error) {
	var b strings.Builder
	for _, name := range []string{"go.mod", "go.sum"} {
		content, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		b.Write(content)
	}
	return b.String(), nil
}

// git returns the trimmed output of a git command, "" when it fails.
func git(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects the main.version, main.commit and main.date variables.
func ldflags() string {
	return fmt.Sprintf("-s -w -X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}

func installedBinary() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, binaryName), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", binaryName), nil
}
