package progress

// Stage is a step of the simulated progress sequence
type Stage int

const (
	StageIdle       Stage = iota
	StageSending          // "Sending..." bubble posted, waiting for OK
	StageAnalyzing        // "Analyzing..." bubble posted, waiting for OK
	StageProbing          // loader bubble posted, audio duration being read
	StageTicking          // percentage advancing
	StageCompleting       // 100% shown, waiting to swap in the completion message
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSending:
		return "sending"
	case StageAnalyzing:
		return "analyzing"
	case StageProbing:
		return "probing"
	case StageTicking:
		return "ticking"
	case StageCompleting:
		return "completing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Active reports whether the sequence is running
func (s Stage) Active() bool {
	return s != StageIdle && s != StageDone
}
