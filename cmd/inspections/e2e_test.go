package main_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openkraft/inspections/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "inspections-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "inspections")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

// fixture copies the sample project into a temp dir so runs never write
// into testdata.
func fixture(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	src, err := filepath.Abs("../../testdata/sample-project")
	require.NoError(t, err)
	dst := t.TempDir()

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	require.NoError(t, err)
	return dst
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func TestE2E_RunPasses(t *testing.T) {
	dir := fixture(t)

	out, code := run(t, "run", dir)
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "3 errors")
	assert.Contains(t, out, "1 warning")
	assert.Contains(t, out, "1 info")

	reports := filepath.Join(dir, "build", "reports", "inspections")
	assert.FileExists(t, filepath.Join(reports, "sample.xml"))
	assert.FileExists(t, filepath.Join(reports, "sample.json"))
	assert.FileExists(t, filepath.Join(reports, "sample.github.txt"))
	assert.NoFileExists(t, filepath.Join(reports, "sample.html"), "html is not listed in the config")
}

func TestE2E_RunJSONOutcome(t *testing.T) {
	dir := fixture(t)

	out, code := run(t, "run", dir, "--json", "--no-cache")
	require.Equal(t, 0, code, out)

	var outcome struct {
		State  domain.RunState `json:"state"`
		Result struct {
			Counts      domain.Counts       `json:"counts"`
			Diagnostics []domain.Diagnostic `json:"diagnostics"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, domain.StateCompleted, outcome.State)
	assert.Equal(t, domain.Counts{Errors: 3, Warnings: 1, Infos: 1}, outcome.Result.Counts)
	require.Len(t, outcome.Result.Diagnostics, 5)
	assert.Equal(t, "UnusedImport", outcome.Result.Diagnostics[0].InspectionID, "App.java batch comes first")
	assert.Equal(t, "TodoComment", outcome.Result.Diagnostics[3].InspectionID)
}

func TestE2E_GateExitCode(t *testing.T) {
	dir := fixture(t)

	out, code := run(t, "run", dir, "--max-errors", "2")
	assert.Equal(t, 2, code, out)
	assert.Contains(t, out, "3 errors exceed the maximum of 2")
}

func TestE2E_ConfigExitCode(t *testing.T) {
	dir := fixture(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "config", "inspections.xml")))

	out, code := run(t, "run", dir)
	assert.Equal(t, 3, code, out)
}

func TestE2E_EngineExitCode(t *testing.T) {
	dir := fixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.sh"), []byte("echo '{\"diagnostics\": [{\"severity\": \"fatal\"}]}'\n"), 0644))

	out, code := run(t, "run", dir)
	assert.Equal(t, 4, code, out)
}

func TestE2E_PropertySubstitution(t *testing.T) {
	dir := fixture(t)

	out, code := run(t, "classification", dir, "--json")
	require.Equal(t, 0, code, out)
	assert.JSONEq(t, `{
		"errors": ["UnusedImport", "NullableProblems"],
		"warnings": ["MagicNumber"],
		"infos": ["TodoComment"]
	}`, out)
}

func TestE2E_GitHubAnnotations(t *testing.T) {
	dir := fixture(t)
	_, code := run(t, "run", dir)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "build", "reports", "inspections", "sample.github.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "::error file=src/main/java/demo/App.java,line=3,col=1"))
}

func TestE2E_History(t *testing.T) {
	dir := fixture(t)
	_, code := run(t, "run", dir)
	require.Equal(t, 0, code)
	_, code = run(t, "run", dir)
	require.Equal(t, 0, code)

	out, code := run(t, "history", dir, "--json")
	require.Equal(t, 0, code, out)
	var records []domain.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.False(t, records[0].Cached)
	assert.True(t, records[1].Cached)
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "inspections")
}
