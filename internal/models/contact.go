package models

import (
	"strings"
	"time"
)

// SubmissionStatus is the lifecycle state of a stored submission
type SubmissionStatus string

// SubmissionStatusNew is the only status this service ever writes
const SubmissionStatusNew SubmissionStatus = "new"

// SubmitContactRequest is the JSON body of POST /api/contact.
// Tag order on each field decides which message is reported first.
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=200"`
	Email   string `json:"email" binding:"required,notblank,contactemail,max=320"`
	Subject string `json:"subject" binding:"max=300"`
	Message string `json:"message" binding:"required,notblank,max=10000"`
}

// Normalize trims surrounding whitespace from every field
func (r *SubmitContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// SubmitContactResponse is returned when a submission was stored and the notification sent
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactSubmission is a stored contact form submission
type ContactSubmission struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Subject   string           `json:"subject"`
	Message   string           `json:"message"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	// Mongo mirrors Database under the key the site frontend already reads.
	Mongo     string `json:"mongo"`
	Timestamp string `json:"timestamp"`
}
