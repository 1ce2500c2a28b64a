package leadflow

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/models"
	"lead_funnel_go/services/i18n"
	"log"
	"strings"
	"sync"
	"time"
)

// State is the position of the flow
type State string

const (
	StateIdle     State = "idle"
	StateStep1    State = "step1"
	StateStep2    State = "step2"
	StateConsent  State = "consent"
	StateLoading  State = "loading"
	StateComplete State = "complete"
	StateError    State = "error"
)

// ErrWrongState is returned when an action does not apply to the current state
var ErrWrongState = errors.New("action not allowed in current state")

// ValidationError is a client-side check failure shown to the user
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Flow drives one visitor through the form. Methods are safe for concurrent
// use, but a flow is meant for a single visitor.
type Flow struct {
	submitter Submitter
	provider  *Provider
	lang      string
	now       func() time.Time

	mu      sync.Mutex
	state   State
	form    Form
	consent Consent
	message string
}

// New creates an idle flow. provider may be nil.
func New(submitter Submitter, provider *Provider, lang string) *Flow {
	if lang == "" {
		lang = i18n.DefaultLang
	}
	return &Flow{
		submitter: submitter,
		provider:  provider,
		lang:      lang,
		now:       time.Now,
		state:     StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *Flow) Consent() Consent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consent
}

// Message is the error text currently displayed, if any
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Open shows the form on its first step
func (f *Flow) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		f.state = StateStep1
	}
	if f.provider != nil {
		f.provider.Open()
	}
}

// SetField updates one input. The phone value is reformatted as it is typed.
func (f *Flow) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldName:
		f.form.Name = value
	case FieldPhone:
		f.form.Phone = FormatPhone(value)
	case FieldRegion:
		f.form.Region = value
	case FieldMemo:
		f.form.Memo = value
	}
}

// Next moves from step 1 to step 2
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateStep1 {
		return ErrWrongState
	}
	if !f.form.Step1Valid() {
		return f.fail("flow.step1_required")
	}
	f.state = StateStep2
	f.message = ""
	return nil
}

// RequestConsent validates step 2 and opens the consent sheet
func (f *Flow) RequestConsent() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateStep2 {
		return ErrWrongState
	}
	if !f.form.Step2Valid() {
		return f.fail("flow.step2_required")
	}
	if !ValidPhone(f.form.Phone) {
		return f.fail("flow.phone_format")
	}
	f.state = StateConsent
	f.message = ""
	return nil
}

// SetConsent changes one checkbox on the consent sheet
func (f *Flow) SetConsent(key ConsentKey, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consent.Set(key, value)
}

// ToggleAllConsent flips the "agree to all" row
func (f *Flow) ToggleAllConsent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consent.ToggleAll()
}

// Confirm submits the form once. Allowed from the consent sheet or after a
// failed attempt; there is no automatic retry.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateConsent && f.state != StateError {
		f.mu.Unlock()
		return ErrWrongState
	}
	if !f.consent.AllChecked() {
		err := f.fail("flow.consent_required")
		f.mu.Unlock()
		return err
	}
	f.state = StateLoading
	f.message = ""
	req := f.payload()
	f.mu.Unlock()

	resp, err := f.submitter.Submit(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case errors.Is(err, ErrInvalidResponse):
		log.Printf("[leadflow] Invalid server response: %v", err)
		f.state = StateError
		f.message = i18n.Translate(f.lang, "flow.server_error")
		return err
	case err != nil:
		log.Printf("[leadflow] Submission failed: %v", err)
		f.state = StateError
		f.message = i18n.Translate(f.lang, "flow.network_error")
		return err
	case resp == nil:
		f.state = StateError
		f.message = i18n.Translate(f.lang, "flow.server_error")
		return ErrInvalidResponse
	case !resp.OK:
		f.state = StateError
		f.message = resp.Message
		if f.message == "" {
			f.message = resp.Error
		}
		if f.message == "" {
			f.message = i18n.Translate(f.lang, "flow.rejected")
		}
		return fmt.Errorf("lead rejected: %s", f.message)
	}

	f.state = StateComplete
	f.form = Form{}
	f.consent = Consent{}
	if f.provider != nil {
		f.provider.RefreshStats()
	}
	return nil
}

// Finish closes the completion screen and returns to idle
func (f *Flow) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Back steps backwards: consent → step 2 → step 1 → closed
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateConsent, StateError:
		f.state = StateStep2
	case StateStep2:
		f.state = StateStep1
	case StateStep1, StateComplete:
		f.reset()
	}
	f.message = ""
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.form = Form{}
	f.consent = Consent{}
	f.message = ""
	if f.provider != nil {
		f.provider.Close()
	}
}

// fail records a validation message; caller holds the lock
func (f *Flow) fail(key string) error {
	f.message = i18n.Translate(f.lang, key)
	return &ValidationError{Key: key, Message: f.message}
}

// payload builds the request body; caller holds the lock
func (f *Flow) payload() *models.LeadRequest {
	memo := strings.TrimSpace(f.form.Memo)
	return &models.LeadRequest{
		Name:              strings.TrimSpace(f.form.Name),
		Phone:             strings.TrimSpace(f.form.Phone),
		Region:            strings.TrimSpace(f.form.Region),
		Memo:              memo,
		Message:           memo,
		IsMarketingAgreed: models.BoolPtr(f.consent.AllChecked()),
		SubmittedAt:       f.now().Format(time.RFC3339),
	}
}
