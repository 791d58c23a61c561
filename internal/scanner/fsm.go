package scanner

import "github.com/djimit/PhishLens/internal/model"

// Event is an input to the scan state machine.
type Event int

const (
	// EventSubmit is a user request to scan valid content.
	EventSubmit Event = iota

	// EventInferenceSucceeded is a successful inference answer.
	EventInferenceSucceeded

	// EventInferenceFailed is a failed inference call.
	EventInferenceFailed

	// EventReset is the "new scan" action.
	EventReset

	// EventRetry re-runs the failed scan.
	EventRetry

	// EventLoadHistory restores a stored scan.
	EventLoadHistory
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventInferenceSucceeded:
		return "inference succeeded"
	case EventInferenceFailed:
		return "inference failed"
	case EventReset:
		return "reset"
	case EventRetry:
		return "retry"
	case EventLoadHistory:
		return "load history"
	default:
		return "unknown"
	}
}

// Effect is the side effect the controller performs after a transition.
type Effect int

const (
	// EffectNone means the event is ignored.
	EffectNone Effect = iota

	// EffectInvoke starts exactly one inference call.
	EffectInvoke

	// EffectRecord stores the result in the display slot and in history.
	EffectRecord

	// EffectShowError stores the failure message in the display slot.
	EffectShowError

	// EffectClear empties the display and error slots.
	EffectClear

	// EffectRestore shows a stored history item.
	EffectRestore
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectInvoke:
		return "invoke"
	case EffectRecord:
		return "record"
	case EffectShowError:
		return "show error"
	case EffectClear:
		return "clear"
	case EffectRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Transition returns the next state and the effect for event in state.
// It is total: every pair yields a valid state, and undefined pairs leave
// the state unchanged with EffectNone.
func Transition(state model.ScanState, event Event) (model.ScanState, Effect) {
	switch event {
	case EventSubmit:
		if state == model.StateIdle {
			return model.StateScanning, EffectInvoke
		}
	case EventInferenceSucceeded:
		if state == model.StateScanning {
			return model.StateCompleted, EffectRecord
		}
	case EventInferenceFailed:
		if state == model.StateScanning {
			return model.StateError, EffectShowError
		}
	case EventReset:
		switch state {
		case model.StateScanning, model.StateCompleted, model.StateError:
			return model.StateIdle, EffectClear
		}
	case EventRetry:
		if state == model.StateError {
			return model.StateScanning, EffectInvoke
		}
	case EventLoadHistory:
		return model.StateCompleted, EffectRestore
	}
	return state, EffectNone
}
