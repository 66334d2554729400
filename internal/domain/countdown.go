package domain

// Milestone identifies which fixed instant the countdown is targeting.
type Milestone string

const (
	MilestoneArrival Milestone = "arrival"
	MilestoneOnboard Milestone = "onboard"
)

// Labels shown above the countdown, one per milestone.
const (
	LabelArrival = "Time until arrival"
	LabelOnboard = "Time remaining"
)

// Terminal phrases shown once the active milestone has passed.
const (
	TerminalArrival = "ARRIVING!"
	TerminalOnboard = "ALL ABOARD!"
)

// Countdown is the derived clock output. It is never stored.
// Display holds either an "Hh Mm Ss" duration or the milestone's terminal phrase.
type Countdown struct {
	Target   Milestone `json:"target"`
	Label    string    `json:"label"`
	Display  string    `json:"display"`
	Terminal bool      `json:"terminal"`
}
