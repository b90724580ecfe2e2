package lifecycle

import "fmt"

// State is one step of the build → sign → submit pipeline. Success and
// Failed are terminal: no transition ever leaves them.
type State string

const (
	StateIdle       State = "idle"
	StateBuilding   State = "building"
	StateSigning    State = "signing"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// successors maps each state to the single success-path follow-up.
// Failed is additionally reachable from every non-terminal state.
var successors = map[State]State{
	StateIdle:       StateBuilding,
	StateBuilding:   StateSigning,
	StateSigning:    StateSubmitting,
	StateSubmitting: StateSuccess,
}

func validTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return successors[from] == to
}

// ErrorKind classifies a terminal failure by the step that produced it.
type ErrorKind string

const (
	PreconditionError ErrorKind = "precondition"
	BuildError        ErrorKind = "build"
	SigningError      ErrorKind = "signing"
	SubmitError       ErrorKind = "submit"
)

// Failure is the terminal outcome of a failed attempt. Message prefers
// the remote service's own text over anything generic.
type Failure struct {
	Kind    ErrorKind
	State   State // state the attempt was in when it failed
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s error: %s", f.Kind, f.Message)
}

// progressMessage is the user-facing text for entering a state. The
// signing one reminds the user there is an external prompt to find.
func progressMessage(kind IntentKind, state State) string {
	switch state {
	case StateBuilding:
		return fmt.Sprintf("Building %s transaction...", kind)
	case StateSigning:
		return "Please sign the transaction in your wallet"
	case StateSubmitting:
		return "Submitting transaction..."
	default:
		return ""
	}
}

func successMessage(kind IntentKind, token string) string {
	switch kind {
	case IntentMint:
		return fmt.Sprintf("NFT %q minted successfully", token)
	case IntentUpdate:
		return fmt.Sprintf("Metadata of %q updated successfully", token)
	case IntentBurn:
		return fmt.Sprintf("NFT %q burned successfully", token)
	default:
		return "Transaction confirmed"
	}
}
