package art

// Stage is a step of the render state machine. Stages only move forward;
// any failure jumps to StageFailed and discards the canvas.
type Stage int

const (
	StageValidating Stage = iota
	StageBandSelected
	StageShapesEmitted
	StageParticlesApplied
	StageTextureApplied
	StageLabeled
	StageSaved
	StageFailed
)

var stageNames = [...]string{
	StageValidating:       "validating",
	StageBandSelected:     "band_selected",
	StageShapesEmitted:    "shapes_emitted",
	StageParticlesApplied: "particles_applied",
	StageTextureApplied:   "texture_applied",
	StageLabeled:          "labeled",
	StageSaved:            "saved",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
