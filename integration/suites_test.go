package integration

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/jwebster45206/burrow/integration/runner"
)

const casesDir = "cases"

// loadJobs loads every case under casesDir, or the named cases and
// sequences when names is non-empty.
func loadJobs(t *testing.T, names []string) []runner.TestJob {
	t.Helper()

	files := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		if _, err := os.Stat(filepath.Join("sequences", name)); err == nil {
			files = append(files, filepath.Join("sequences", name))
		} else {
			files = append(files, filepath.Join(casesDir, name))
		}
	}

	if len(files) == 0 {
		var err error
		files, err = discoverTestFiles(casesDir)
		if err != nil {
			t.Fatalf("Failed to discover test files: %v", err)
		}
	}

	var jobs []runner.TestJob
	for _, file := range files {
		expanded, err := runner.LoadTestSuiteWithExpansion(file, casesDir)
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expanded...)
	}

	if len(jobs) == 0 {
		t.Fatal("No valid test suites loaded")
	}
	return jobs
}

// runJobs runs each job once and reports step failures on t. It returns
// the names of failed suites.
func runJobs(ctx context.Context, t *testing.T, r *runner.Runner, jobs []runner.TestJob) []string {
	t.Helper()

	var failed []string
	for i, job := range jobs {
		result, err := r.RunSuite(ctx, job.Suite)
		if err != nil && result.Error == nil {
			result.Error = err
		}

		t.Logf("[%d/%d] %s (session %s)", i+1, len(jobs), job.Name, result.Session)
		for _, step := range result.Results {
			if step.Success {
				t.Logf("   ✓ %s (%v) %q", step.StepName, step.Duration, step.Text)
			} else {
				t.Errorf("   ✗ %s: %v", step.StepName, step.Error)
			}
		}

		if result.Error != nil {
			failed = append(failed, job.Name)
			t.Errorf("[%d/%d] FAILED: Test suite '%s' failed: %v", i+1, len(jobs), job.Name, result.Error)
		}
	}
	return failed
}

func discoverTestFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func getIntEnv(name string, defaultValue int) int {
	str := os.Getenv(name)
	if str == "" {
		return defaultValue
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultValue
	}

	return val
}
