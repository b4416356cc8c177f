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

var (
	// sharedTracelensPath holds the path to a shared tracelens binary built once for all tests.
	sharedTracelensPath string

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

// getTracelensBinary returns the path to the tracelens binary, building it once if needed.
func getTracelensBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "tracelens-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "tracelens")
		buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/tracelens")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build tracelens: %v", err))
		}

		sharedTracelensPath = binPath
	})

	return sharedTracelensPath
}

// writeSampleTrace writes a small but complete trace file and returns its path.
func writeSampleTrace(t *testing.T) string {
	t.Helper()
	trace := `{
		"test_name": "integration-checkout",
		"url": "https://shop.test/checkout",
		"vitals": {"LCP": 2100, "FID": 80, "CLS": 0.05, "FCP": 1500, "TTI": 3000, "TBT": 150},
		"insights": [],
		"records": [
			{"url": "https://shop.test/checkout", "method": "GET", "status": 200,
			 "resourceType": "document", "size": 42000, "priority": "very-high",
			 "startTime": 0, "timing": {"wait": 180, "receive": 60}},
			{"url": "https://cdn.shop.test/app.css", "method": "GET", "status": 200,
			 "resourceType": "stylesheet", "size": 80000, "priority": "high",
			 "startTime": 0.3, "timing": {"wait": 120, "receive": 40}}
		]
	}`
	path := filepath.Join(t.TempDir(), "trace.json")
	if err := os.WriteFile(path, []byte(trace), 0o644); err != nil {
		t.Fatalf("failed to write sample trace: %v", err)
	}
	return path
}

func runTracelensCommand(t *testing.T, args ...string) error {
	binPath := getTracelensBinary()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
