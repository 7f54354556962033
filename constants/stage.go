package constants

// Stage names a pipeline step. Used in log events and error wrapping.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageExplain  Stage = "explain"
	StageCoach    Stage = "coach"
	StageAssemble Stage = "assemble"
	StageRecord   Stage = "record"
)

// StageOrder is the fixed execution order. No stage is skipped or reordered.
var StageOrder = []Stage{StageExtract, StageExplain, StageCoach, StageAssemble, StageRecord}
