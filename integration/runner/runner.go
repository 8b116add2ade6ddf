package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes walkthrough suites against a running burrow API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode

	// KeepSessions leaves sessions in storage after a suite finishes
	KeepSessions bool
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite in a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	s, err := CreateSession(ctx, r.Client, r.BaseURL, suite.Level)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = s.ID

	if !r.KeepSessions {
		defer func() {
			if err := DeleteSession(context.WithoutCancel(ctx), r.Client, r.BaseURL, s.ID); err != nil {
				r.Logger("    Warning: failed to delete session %s: %v", s.ID, err)
			}
		}()
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, result, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, run TestRunResult, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	resp, status, err := Interact(ctx, r.Client, r.BaseURL, run.Session, step.Sprite)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = fmt.Errorf("failed to interact with %s: %w", step.Sprite, err)
		return result
	}
	if resp != nil {
		result.Text = resp.Interaction.Text
	}

	if err := checkExpectations(step.Expectations, status, resp); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		return result
	}

	result.Success = true
	return result
}

// checkExpectations validates the step expectations against the interact outcome
func checkExpectations(exp Expectations, status int, resp *InteractResponse) error {
	wantStatus := http.StatusOK
	if exp.Status != nil {
		wantStatus = *exp.Status
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d", wantStatus, status)
	}
	if resp == nil {
		// Nothing else to check on a failed interaction
		return nil
	}

	in := resp.Interaction
	if exp.Action != nil && string(in.Action) != *exp.Action {
		return fmt.Errorf("expected action %s, got %s", *exp.Action, in.Action)
	}
	if exp.Sound != nil && in.Sound != *exp.Sound {
		return fmt.Errorf("expected sound %s, got %s", *exp.Sound, in.Sound)
	}
	if exp.MapAsset != nil && resp.MapAsset != *exp.MapAsset {
		return fmt.Errorf("expected map asset %s, got %s", *exp.MapAsset, resp.MapAsset)
	}

	if resp.Session != nil {
		if exp.Level != nil && resp.Session.Level != *exp.Level {
			return fmt.Errorf("expected level %s, got %s", *exp.Level, resp.Session.Level)
		}
		if exp.Talks != nil && resp.Session.Talks != *exp.Talks {
			return fmt.Errorf("expected talks to be %d, got %d", *exp.Talks, resp.Session.Talks)
		}
		if len(exp.Visited) > 0 && !slices.Equal(resp.Session.Visited, exp.Visited) {
			return fmt.Errorf("expected visited %v, got %v", exp.Visited, resp.Session.Visited)
		}
	}

	if len(exp.TextOneOf) > 0 && !slices.Contains(exp.TextOneOf, in.Text) {
		return fmt.Errorf("expected text to be one of %q, got %q", exp.TextOneOf, in.Text)
	}

	lowerText := strings.ToLower(in.Text)
	for _, want := range exp.TextContains {
		if !strings.Contains(lowerText, strings.ToLower(want)) {
			return fmt.Errorf("expected text to contain '%s', got %q", want, in.Text)
		}
	}
	for _, unwanted := range exp.TextNotContains {
		if strings.Contains(lowerText, strings.ToLower(unwanted)) {
			return fmt.Errorf("expected text to NOT contain '%s', got %q", unwanted, in.Text)
		}
	}

	if exp.TextRegex != "" {
		matched, err := regexp.MatchString(exp.TextRegex, in.Text)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("text %q didn't match regex pattern: %s", in.Text, exp.TextRegex)
		}
	}

	return nil
}
