package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/pkg/mailer"
)

const subjectPrefix = "New Contact Form Submission"

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Options carries the addressing and branding for a notification
type Options struct {
	From        string
	To          string
	CompanyName string
	// Now is used for the footer year; defaults to time.Now
	Now func() time.Time
}

type templateData struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	Year        int
	CompanyName string
}

// BuildContactNotification renders the email sent to the site owner for a
// stored submission. Replies go to the submitter.
func BuildContactNotification(s *models.ContactSubmission, opts Options) (mailer.Message, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	data := templateData{
		Name:        s.Name,
		Email:       s.Email,
		Subject:     s.Subject,
		Message:     s.Message,
		Year:        now().Year(),
		CompanyName: opts.CompanyName,
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, "contact_notification.txt", data); err != nil {
		return mailer.Message{}, fmt.Errorf("failed to render text notification: %w", err)
	}

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "contact_notification.html", data); err != nil {
		return mailer.Message{}, fmt.Errorf("failed to render html notification: %w", err)
	}

	subject := subjectPrefix
	if s.Subject != "" {
		subject = subjectPrefix + ": " + s.Subject
	}

	return mailer.Message{
		From:    opts.From,
		To:      opts.To,
		ReplyTo: s.Email,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
