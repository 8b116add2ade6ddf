package runner

import (
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a walkthrough of one play session
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Level string     `json:"level,omitempty"` // Starting level for regular tests
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep clicks one sprite in the session's current level
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Sprite       string       `json:"sprite"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// HTTP status of the interact call; defaults to 200
	Status *int `json:"status,omitempty"`

	// Interaction
	Action   *string `json:"action,omitempty"`
	Sound    *string `json:"sound,omitempty"`
	MapAsset *string `json:"map_asset,omitempty"`

	// Session properties after the step
	Level   *string  `json:"level,omitempty"`
	Talks   *int     `json:"talks,omitempty"`
	Visited []string `json:"visited,omitempty"`

	// Rendered line analysis
	TextOneOf       []string `json:"text_one_of,omitempty"`
	TextContains    []string `json:"text_contains,omitempty"`
	TextNotContains []string `json:"text_not_contains,omitempty"`
	TextRegex       string   `json:"text_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Text     string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID // ID of the session used for this test
}
