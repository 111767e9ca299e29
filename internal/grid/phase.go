package grid

// Phase tracks where in the pipeline a grid run currently is.
type Phase int

const (
	PhasePending Phase = iota
	PhaseSplit
	PhaseSubmitted
	PhasePolling
	PhaseMerged
	PhaseCleaned
	// PhaseEmpty is a terminal success: the merged result had no hits.
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSplit:
		return "split"
	case PhaseSubmitted:
		return "submitted"
	case PhasePolling:
		return "polling"
	case PhaseMerged:
		return "merged"
	case PhaseCleaned:
		return "cleaned"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
