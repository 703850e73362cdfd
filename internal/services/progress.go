package services

// Milestone is a real point reached by an analysis, in order.
type Milestone string

const (
	MilestoneValidated        Milestone = "validated"
	MilestoneRequestSent      Milestone = "request_sent"
	MilestoneResponseReceived Milestone = "response_received"
	MilestoneParseComplete    Milestone = "parse_complete"
)

var milestoneOrder = []Milestone{
	MilestoneValidated,
	MilestoneRequestSent,
	MilestoneResponseReceived,
	MilestoneParseComplete,
}

// ProgressFunc receives milestones as they happen. It runs on the analysis
// goroutine and must not block.
type ProgressFunc func(Milestone)

// Percent maps a milestone to a coarse completion percentage for display.
func (m Milestone) Percent() int {
	for i, milestone := range milestoneOrder {
		if milestone == m {
			return (i + 1) * 100 / len(milestoneOrder)
		}
	}
	return 0
}
