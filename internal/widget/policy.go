package widget

import (
	"fmt"
	"strings"
)

// Vote is a Click callback's say in whether the button re-enables.
type Vote int

const (
	// NoOpinion is the result of a callback that returns nothing useful,
	// including one that failed.
	NoOpinion Vote = iota
	// KeepEnabled asks for the button to be re-enabled.
	KeepEnabled
	// KeepDisabled asks for the button to stay disabled after the click.
	KeepDisabled
)

func (v Vote) String() string {
	switch v {
	case KeepEnabled:
		return "keep-enabled"
	case KeepDisabled:
		return "keep-disabled"
	default:
		return "no-opinion"
	}
}

// VoteOf converts a "stay disabled" boolean into a Vote.
func VoteOf(stayDisabled bool) Vote {
	if stayDisabled {
		return KeepDisabled
	}
	return KeepEnabled
}

// Outcome is the decision taken at the end of a click cycle.
type Outcome int

const (
	Reenable Outcome = iota
	StayDisabled
)

func (o Outcome) String() string {
	if o == StayDisabled {
		return "stay-disabled"
	}
	return "reenable"
}

// OutcomePolicy decides the end state of a click cycle from the votes of
// every Click callback (in registration order) and their joined error.
// A policy is fixed per button.
type OutcomePolicy interface {
	Name() string
	Decide(votes []Vote, err error) Outcome
}

// VotePolicy stays disabled if any callback votes KeepDisabled, otherwise
// re-enables. NoOpinion, including a failed callback, never forces disabled.
type VotePolicy struct{}

func (VotePolicy) Name() string { return "vote" }

func (VotePolicy) Decide(votes []Vote, _ error) Outcome {
	for _, v := range votes {
		if v == KeepDisabled {
			return StayDisabled
		}
	}
	return Reenable
}

// ReenablePolicy always re-enables, errors included. Kept for controls built
// against the older click contract where callbacks return nothing.
type ReenablePolicy struct{}

func (ReenablePolicy) Name() string { return "reenable" }

func (ReenablePolicy) Decide([]Vote, error) Outcome { return Reenable }

// PolicyByName returns the policy registered under name ("vote" or
// "reenable"; "" selects vote).
func PolicyByName(name string) (OutcomePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vote":
		return VotePolicy{}, nil
	case "reenable", "legacy":
		return ReenablePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown click policy %q", name)
	}
}
