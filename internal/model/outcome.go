package model

import (
	"encoding/json"
	"fmt"
)

// Outcome represents how a traversal run ended.
type Outcome int

const (
	// OutcomeUnknown is the zero value; a run that has not finished yet.
	OutcomeUnknown Outcome = iota

	// OutcomeSuccess means the target article was reached.
	OutcomeSuccess

	// OutcomeCycle means a previously visited heading was reached again.
	OutcomeCycle

	// OutcomeDeadEnd means the current article had no qualifying link.
	OutcomeDeadEnd

	// OutcomeStepLimit means the configured step limit was exhausted.
	OutcomeStepLimit
)

// String returns the stable identifier of the outcome.
// The identifier is used in JSON output and in the history database.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCycle:
		return "cycle"
	case OutcomeDeadEnd:
		return "dead_end"
	case OutcomeStepLimit:
		return "step_limit"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the outcome ends a run.
func (o Outcome) IsTerminal() bool {
	return o != OutcomeUnknown
}

// Outcomes returns every outcome in display order, OutcomeUnknown last.
func Outcomes() []Outcome {
	return []Outcome{OutcomeSuccess, OutcomeCycle, OutcomeDeadEnd, OutcomeStepLimit, OutcomeUnknown}
}

// ParseOutcome converts an identifier produced by String back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes() {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeUnknown, fmt.Errorf("unknown outcome %q", s)
}

// MarshalJSON encodes the outcome as its string identifier.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome from its string identifier.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
