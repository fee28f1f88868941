//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// recordsFile is relative to the project root, where every command runs.
const recordsFile = "internal/source/testdata/records.json"

var (
	// sharedRiskboardPath holds the path to a shared riskboard binary built once for all tests.
	sharedRiskboardPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getRiskboardBinary returns the path to the riskboard binary, building it once if needed.
func getRiskboardBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "riskboard-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		riskboardPath := filepath.Join(tempDir, "riskboard")
		buildCmd := exec.Command("go", "build", "-o", riskboardPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build riskboard: %v", err))
		}

		sharedRiskboardPath = riskboardPath
	})

	return sharedRiskboardPath
}

// runRiskboardCommand runs the binary from the project root and returns its stdout.
func runRiskboardCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getRiskboardBinary(), args...)
	cmd.Dir = "../"
	output, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Logf("Command failed: %s\nOutput: %s\nStderr: %s", cmd.String(), string(output), stderr)
		return "", err
	}
	return string(output), nil
}
