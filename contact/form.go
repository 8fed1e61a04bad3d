package contact

import (
	"context"
	"errors"
	"sync"
	"time"
)

// FormState is the lifecycle stage of a contact form.
type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
	StateSuccess
	StateError
)

// String returns the state name.
func (s FormState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by Form.Submit while a submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// Submitter sends a submission to the relay.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// Form holds the fields and submission state of one contact form.
// Success returns to idle after ResetAfter and clears the fields.
type Form struct {
	Submitter  Submitter
	ResetAfter time.Duration
	Now        func() time.Time

	mu        sync.Mutex
	fields    Submission
	state     FormState
	errMsg    string
	succeeded time.Time
}

// NewForm creates an idle form.
func NewForm(s Submitter, resetAfter time.Duration) *Form {
	if resetAfter <= 0 {
		resetAfter = 4 * time.Second
	}
	return &Form{Submitter: s, ResetAfter: resetAfter, Now: time.Now}
}

// SetFields replaces the form contents.
func (f *Form) SetFields(s Submission) {
	f.mu.Lock()
	f.fields = s
	f.mu.Unlock()
}

// Fields returns the current form contents.
func (f *Form) Fields() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// State returns the current lifecycle state.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ErrorMessage returns the message shown in the error state.
func (f *Form) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Submit sends the current fields. It blocks until the submitter returns.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.state = StateSubmitting
	f.errMsg = ""
	fields := f.fields
	f.mu.Unlock()

	err := f.Submitter.Submit(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		var se *SubmitError
		if errors.As(err, &se) && se.Message != "" {
			f.errMsg = se.Message
		} else {
			f.errMsg = MsgSubmitRetry
		}
		return err
	}
	f.state = StateSuccess
	f.succeeded = f.Now()
	return nil
}

// Update returns a successful form to idle once ResetAfter has elapsed.
func (f *Form) Update() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSuccess {
		return
	}
	if f.Now().Sub(f.succeeded) >= f.ResetAfter {
		f.state = StateIdle
		f.fields = Submission{}
	}
}
