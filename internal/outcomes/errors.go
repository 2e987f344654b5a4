package outcomes

import "fmt"

// ValidationError reports unusable game results.
type ValidationError struct {
	Team   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := "invalid game results"
	if e.Team != "" {
		msg += fmt.Sprintf(" for %s", e.Team)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
