package synth

// Mode selects which prompt the generator receives.
type Mode string

const (
	// ModeGenerate creates a manifest set from a description alone.
	ModeGenerate Mode = "generate"

	// ModeUpdate rewrites the previous manifest set for a changed description.
	ModeUpdate Mode = "update"

	// ModeRepair rewrites the previous manifest set so that the last error goes away.
	ModeRepair Mode = "repair"
)

// SelectMode picks the synthesis mode from the persisted record state.
//
// An outstanding error with a previous manifest set selects Repair; a
// previous manifest set alone selects Update; anything else selects Generate.
func SelectMode(errorPresent, expectedObjectsPresent bool) Mode {
	switch {
	case errorPresent && expectedObjectsPresent:
		return ModeRepair
	case expectedObjectsPresent:
		return ModeUpdate
	default:
		return ModeGenerate
	}
}

// String makes Mode satisfy the fmt.Stringer interface.
func (m Mode) String() string {
	return string(m)
}
