package lead

import "fmt"

// Status is a lead's pipeline state. Exactly one status is current at a time.
type Status string

const (
	StatusAssigned   Status = "Assigned"
	StatusCounseling Status = "Counseling"
	StatusInFollowUp Status = "In Follow Up"
	StatusAdmitted   Status = "Admitted"
	// StatusNotInterested is the single terminal declined state. The backend
	// historically used both "Not Interested" and "Not Admitted" for it;
	// ParseStatus folds the legacy spelling into this one.
	StatusNotInterested Status = "Not Interested"
)

// legacyNotAdmitted is the historical alias for the declined state.
const legacyNotAdmitted = "Not Admitted"

// Statuses lists all pipeline states in funnel order.
func Statuses() []Status {
	return []Status{
		StatusAssigned,
		StatusCounseling,
		StatusInFollowUp,
		StatusAdmitted,
		StatusNotInterested,
	}
}

// ParseStatus maps a wire string to a Status, folding the legacy
// "Not Admitted" spelling into StatusNotInterested.
func ParseStatus(s string) (Status, error) {
	if s == legacyNotAdmitted {
		return StatusNotInterested, nil
	}
	for _, known := range Statuses() {
		if Status(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown lead status %q", s)
}

// IsTerminal reports whether no further pipeline transition is offered.
func (s Status) IsTerminal() bool {
	return s == StatusAdmitted || s == StatusNotInterested || s == Status(legacyNotAdmitted)
}

// Declined reports whether the lead left the funnel without admission.
func (s Status) Declined() bool {
	return s == StatusNotInterested || s == Status(legacyNotAdmitted)
}

// Action is a user-triggered pipeline transition. No transition is automatic
// or timed.
type Action string

const (
	ActionStartCounseling Action = "start_counseling"
	ActionAdmit           Action = "admit"
	ActionFollowUp        Action = "follow_up"
	ActionNotInterested   Action = "not_interested"
)

// ParseAction maps a wire string to an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionStartCounseling, ActionAdmit, ActionFollowUp, ActionNotInterested:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown pipeline action %q", s)
}

// transitions is the exhaustive table of allowed moves. Absent entries are
// rejected before any request is issued. "Follow-Up Again" from In Follow Up
// is the self-loop, not a regression.
var transitions = map[Status]map[Action]Status{
	StatusAssigned: {
		ActionStartCounseling: StatusCounseling,
	},
	StatusCounseling: {
		ActionAdmit:         StatusAdmitted,
		ActionFollowUp:      StatusInFollowUp,
		ActionNotInterested: StatusNotInterested,
	},
	StatusInFollowUp: {
		ActionAdmit:         StatusAdmitted,
		ActionFollowUp:      StatusInFollowUp,
		ActionNotInterested: StatusNotInterested,
	},
	StatusAdmitted:      {},
	StatusNotInterested: {},
}

// NextStatus returns the target status for applying action from the given
// status, or an error when the move is not in the table.
func NextStatus(from Status, action Action) (Status, error) {
	if from == Status(legacyNotAdmitted) {
		from = StatusNotInterested
	}
	allowed, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("unknown lead status %q", string(from))
	}
	to, ok := allowed[action]
	if !ok {
		return "", fmt.Errorf("action %q is not allowed from status %q", string(action), string(from))
	}
	return to, nil
}

// CanTransition reports whether action is allowed from the given status.
func CanTransition(from Status, action Action) bool {
	_, err := NextStatus(from, action)
	return err == nil
}

// ActionsFrom returns the actions offered from a status. Terminal states
// return an empty slice.
func ActionsFrom(from Status) []Action {
	if from == Status(legacyNotAdmitted) {
		from = StatusNotInterested
	}
	var out []Action
	for _, action := range []Action{ActionStartCounseling, ActionAdmit, ActionFollowUp, ActionNotInterested} {
		if CanTransition(from, action) {
			out = append(out, action)
		}
	}
	return out
}
