package forms

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

// closeDelay is how long the success message stays visible before the flow
// completes and the parent list refreshes.
const closeDelay = 1500 * time.Millisecond

// Form is any create-form with local validation.
type Form interface {
	Validate() Errors
}

// Outcome reports how one submit attempt ended.
type Outcome struct {
	// OK means the backend accepted the create.
	OK bool
	// Busy means another submit on the same flow was still in flight and this
	// attempt was ignored.
	Busy bool
	// FieldErrors is non-empty when local validation blocked the submit.
	FieldErrors Errors
	// Message is the success or failure text to display.
	Message string
}

// Submitter runs the submit protocol shared by every create flow: validate
// locally, guard against double-submit, send, then on success hold the message
// for a short delay and trigger the caller's refresh.
type Submitter struct {
	log   zerolog.Logger
	delay time.Duration
	sleep func(time.Duration)

	mu       sync.Mutex
	inFlight bool
}

func NewSubmitter(log zerolog.Logger) *Submitter {
	return &Submitter{
		log:   log.With().Str("component", "forms").Logger(),
		delay: closeDelay,
		sleep: time.Sleep,
	}
}

// Submit validates form, then calls send. successFallback and failureFallback
// are used when the backend reply carries no message of its own. refresh runs
// after the success delay; it may be nil.
func (s *Submitter) Submit(ctx context.Context, form Form, send func(context.Context) (string, error), successFallback, failureFallback string, refresh func()) Outcome {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Outcome{Busy: true}
	}
	if errs := form.Validate(); !errs.OK() {
		s.mu.Unlock()
		return Outcome{FieldErrors: errs}
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	message, err := send(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("create failed")
		return Outcome{Message: api.ErrorMessage(err, failureFallback)}
	}

	if message == "" {
		message = successFallback
	}
	s.sleep(s.delay)
	if refresh != nil {
		refresh()
	}
	return Outcome{OK: true, Message: message}
}
