// Package contactform is the submitting side of the site contact form:
// field state, the same checks the server applies, and a single POST to
// the contact API.
package contactform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/trucklogix/site-api/pkg/httpclient"
)

// Field names accepted by UpdateField
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

const (
	SuccessMessage  = "Your message has been sent successfully! We will get back to you soon."
	FallbackMessage = "Failed to send message. Please try again later."
	InFlightMessage = "A submission is already in progress"

	maxErrorBody = 64 << 10
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// State holds the form's field values
type State struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Status is the message shown after a submit attempt.
// The zero value means nothing is shown.
type Status struct {
	Shown   bool
	Success bool
	Message string
}

// Outcome describes what one Submit call did
type Outcome struct {
	Success bool
	Message string
	// Sent is true when a request reached the transport
	Sent bool
}

// ValidationError names the first field that failed a check
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate reports the first problem in a fixed order: name, email
// presence, email shape, message. Subject is never required.
func Validate(s State) error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: FieldName, Message: "Name is required"}
	}
	if strings.TrimSpace(s.Email) == "" {
		return &ValidationError{Field: FieldEmail, Message: "Email is required"}
	}
	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Field: FieldEmail, Message: "Please enter a valid email"}
	}
	if strings.TrimSpace(s.Message) == "" {
		return &ValidationError{Field: FieldMessage, Message: "Message is required"}
	}
	return nil
}

// Form is a contact form bound to one API base URL. Safe for concurrent use.
type Form struct {
	mu         sync.Mutex
	endpoint   string
	client     httpclient.Client
	state      State
	status     Status
	submitting bool
}

// New creates an empty form that posts to {baseURL}/api/contact
func New(baseURL string, client httpclient.Client) *Form {
	if client == nil {
		client = httpclient.NewStandardClient()
	}
	return &Form{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/contact",
		client:   client,
	}
}

// UpdateField sets one field and clears any shown status
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldName:
		f.state.Name = value
	case FieldEmail:
		f.state.Email = value
	case FieldSubject:
		f.state.Subject = value
	case FieldMessage:
		f.state.Message = value
	default:
		return fmt.Errorf("unknown contact form field %q", name)
	}

	f.status = Status{}
	return nil
}

// State returns a copy of the current field values
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Status returns the currently shown status
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// IsSubmitting reports whether a request is in flight
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit validates the form and, if valid, posts it exactly once.
// On success the fields are reset; on failure they are kept.
func (f *Form) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Outcome{Message: InFlightMessage}
	}
	if err := Validate(f.state); err != nil {
		f.status = Status{Shown: true, Message: err.Error()}
		f.mu.Unlock()
		return Outcome{Message: err.Error()}
	}
	f.submitting = true
	f.status = Status{}
	payload := f.state
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	success, message := f.post(ctx, payload)

	f.mu.Lock()
	if success {
		f.state = State{}
	}
	f.status = Status{Shown: true, Success: success, Message: message}
	f.mu.Unlock()

	return Outcome{Success: success, Message: message, Sent: true}
}

func (f *Form) post(ctx context.Context, payload State) (bool, string) {
	resp, err := httpclient.PostJSON(ctx, f.client, f.endpoint, payload)
	if err != nil {
		return false, FallbackMessage
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return true, SuccessMessage
	}

	return false, serverMessage(resp.Body)
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return FallbackMessage
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Message != "":
		return payload.Message
	default:
		return FallbackMessage
	}
}
