// Package errors provides structured domain errors for the battle core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Seed / RNG errors
	CodeSeedInvalid Code = "SEED_INVALID"

	// Stream registry errors
	CodeStreamLabelEmpty      Code = "STREAM_LABEL_EMPTY"
	CodeStreamDuplicate       Code = "STREAM_DUPLICATE"
	CodeStreamNotInitialized  Code = "STREAM_NOT_INITIALIZED"
	CodeStreamCollision       Code = "STREAM_COLLISION"
	CodeStreamSampleCountZero Code = "STREAM_SAMPLE_COUNT_ZERO"

	// Game flow errors
	CodeFlowIllegalTransition Code = "FLOW_ILLEGAL_TRANSITION"
	CodeFlowSnapshotMalformed Code = "FLOW_SNAPSHOT_MALFORMED"
	CodeFlowNoPreviousState   Code = "FLOW_NO_PREVIOUS_STATE"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Recoverable reports whether the code describes an expected, user-triggerable
// situation the caller is meant to branch on.
func (c Code) Recoverable() bool {
	switch c {
	case CodeFlowIllegalTransition,
		CodeFlowSnapshotMalformed,
		CodeFlowNoPreviousState,
		CodeSeedInvalid,
		CodeConfigInvalid,
		CodeNotFound:
		return true
	default:
		return false
	}
}
