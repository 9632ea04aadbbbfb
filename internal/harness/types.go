package harness

import "github.com/roach88/proof/internal/explain"

// Outcome is the rendered explanation of one target.
type Outcome struct {
	Target         string             `json:"target"`
	RequestID      int64              `json:"request_id"`
	Token          string             `json:"token"`
	Explicit       bool               `json:"explicit"`
	Justifications []JustificationView `json:"justifications"`
	Stats          explain.Stats      `json:"stats"`
}

// JustificationView is one justification with its premises rendered as
// quad text, graph included. An axiom has no premises.
type JustificationView struct {
	Rule     string   `json:"rule"`
	Premises []string `json:"premises"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per step, in step order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the outcome recorded for target.
func (r *Result) Outcome(target string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Target == target {
			return o, true
		}
	}
	return Outcome{}, false
}
