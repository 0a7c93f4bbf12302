package types

// ScanStage is the orchestrator's state machine position for a scan.
type ScanStage string

// Scan stages in pipeline order. failed is terminal and reachable only from
// stages that raise an unrecoverable error.
const (
	StagePending           ScanStage = "pending"
	StageProfiling         ScanStage = "profiling"
	StageGeneratingQueries ScanStage = "generating_queries"
	StageQuerying          ScanStage = "querying"
	StageAnalyzing         ScanStage = "analyzing"
	StageScoring           ScanStage = "scoring"
	StageComplete          ScanStage = "complete"
	StageFailed            ScanStage = "failed"
)

// Percent maps a stage to the integer progress value reported to the UI.
func (s ScanStage) Percent() int {
	switch s {
	case StagePending:
		return 0
	case StageProfiling:
		return 10
	case StageGeneratingQueries:
		return 25
	case StageQuerying:
		return 40
	case StageAnalyzing:
		return 70
	case StageScoring:
		return 90
	case StageComplete:
		return 100
	case StageFailed:
		return 100
	default:
		return 0
	}
}
