package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/afc-network/afcctl/pkg/util"
)

// NoActionSuffix ends every message for an invocation that changed nothing
// on purpose.
const NoActionSuffix = " - No action taken"

// NotConnectedMessage is the outcome message for a failed handshake.
const NotConnectedMessage = "Not connected to AFC"

const genericFailure = "Operation failed without a diagnostic"

// Outcome is the result of one invocation. Changed implies a remote
// mutation took place; a failed outcome always carries a message.
type Outcome struct {
	Message string `json:"message"`
	Success bool   `json:"status"`
	Changed bool   `json:"changed"`
}

// Succeeded returns a successful outcome.
func Succeeded(message string, changed bool) Outcome {
	return Outcome{Message: message, Success: true, Changed: changed}
}

// Failed returns a failed outcome that changed nothing.
func Failed(message string) Outcome {
	if message == "" {
		message = genericFailure
	}
	return Outcome{Message: message}
}

// Failedf returns a failed outcome with a formatted message.
func Failedf(format string, args ...interface{}) Outcome {
	return Failed(fmt.Sprintf(format, args...))
}

// NoAction returns a successful outcome for an invocation that deliberately
// did nothing ("VRF does not exist - No action taken").
func NoAction(reason string) Outcome {
	return Outcome{Message: reason + NoActionSuffix, Success: true}
}

// FromError translates an error into a failed outcome at the point it was
// detected.
func FromError(err error) Outcome {
	if err == nil {
		return Failed("")
	}

	var nf *util.NotFoundError
	var us *util.UnsupportedError
	switch {
	case errors.Is(err, util.ErrNotConnected):
		return Failed(NotConnectedMessage)
	case errors.As(err, &nf):
		return Failed(nf.Level + " not found" + NoActionSuffix)
	case errors.As(err, &us):
		return Failed(us.What + " not supported" + NoActionSuffix)
	}
	return Failed(err.Error())
}

// ExitSignal is what the caller reports to its own caller: an exit code
// plus the outcome fields.
type ExitSignal struct {
	Code    int    `json:"-"`
	Status  bool   `json:"status"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

// Outcome converts the signal back into an outcome.
func (e ExitSignal) Outcome() Outcome {
	return Outcome{Message: e.Message, Success: e.Status, Changed: e.Changed}
}

// Finalize releases the session and maps the outcome to an exit signal.
// Teardown problems are logged and never change the outcome. Finalize does
// not return an error and recovers from a panicking teardown.
func Finalize(ctx context.Context, sess *Session, o Outcome) ExitSignal {
	if !o.Success && o.Message == "" {
		o.Message = genericFailure
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				util.Warnf("Session teardown panicked: %v", r)
			}
		}()
		if err := sess.Release(ctx); err != nil {
			util.WithController(sess.Identity().Address).Warnf("Session teardown failed: %v", err)
		}
	}()

	sig := ExitSignal{Status: o.Success, Changed: o.Changed, Message: o.Message}
	if !o.Success {
		sig.Code = 1
	}
	return sig
}
