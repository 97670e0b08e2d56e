package pipeline

type Stage string

const (
	StageIdle               Stage = "idle"
	StageValidatingInputs   Stage = "validating_inputs"
	StageUploadingAssets    Stage = "uploading_assets"
	StageAssemblingMetadata Stage = "assembling_metadata"
	StageUploadingMetadata  Stage = "uploading_metadata"
	StageMinting            Stage = "minting"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Event describes one stage transition. Err is set on the transition to StageFailed.
type Event struct {
	RunID string
	From  Stage
	To    Stage
	Err   error
}

type ProgressFunc func(Event)
