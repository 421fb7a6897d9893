package alarm

import "errors"

var (
	// ErrCapabilityQuery marks a failed permission or capability lookup.
	ErrCapabilityQuery = errors.New("capability query failed")
	// ErrPresentation marks a failed alert post or surface launch.
	ErrPresentation = errors.New("presentation failed")
	// ErrDirectiveConstruction marks a failure preparing the restart directive.
	ErrDirectiveConstruction = errors.New("restart directive construction failed")
)

// Outcome is the single result of one delivery pass.
type Outcome struct {
	// Reason is nil when the alert was delivered.
	Reason error
}

// Delivered is the successful outcome.
func Delivered() Outcome {
	return Outcome{}
}

// Failed wraps the captured cause into a failed outcome.
func Failed(reason error) Outcome {
	return Outcome{Reason: reason}
}

// IsDelivered reports whether the alert was posted and the surface launched.
func (o Outcome) IsDelivered() bool {
	return o.Reason == nil
}

// String renders the outcome for logs and metrics labels.
func (o Outcome) String() string {
	if o.IsDelivered() {
		return "delivered"
	}

	return "failed"
}
