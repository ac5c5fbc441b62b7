package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strings"
	"time"

	"github.com/trucklogix/site-api/config"
	apperrors "github.com/trucklogix/site-api/pkg/errors"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/metrics"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Message is one outgoing email with a plain text body and an HTML alternative
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

// Mailer sends mail through a single SMTP account.
// Every call dials a fresh connection; nothing is pooled.
type Mailer struct {
	endpoint  Endpoint
	newClient func() (smtpClient, error)
	// configErr is set when the email settings cannot produce a transport.
	// Send and Verify return it instead of dialing.
	configErr error
}

// New builds a mailer from the email configuration. Unusable settings do not
// fail construction; they surface from Verify at startup and from every Send.
func New(cfg config.EmailConfig) *Mailer {
	ep, ok := ResolveEndpoint(cfg.Service, cfg.Host, cfg.Port)
	if !ok {
		return &Mailer{configErr: fmt.Errorf("unknown email service %q and no EMAIL_HOST set", cfg.Service)}
	}

	opts := []mail.Option{
		mail.WithPort(ep.Port),
		mail.WithTimeout(sendTimeout),
	}
	if ep.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	return &Mailer{
		endpoint: ep,
		newClient: func() (smtpClient, error) {
			return mail.NewClient(ep.Host, opts...)
		},
	}
}

// ConfigError reports why the mailer cannot send, or nil
func (m *Mailer) ConfigError() error {
	return m.configErr
}

// Endpoint returns the resolved SMTP endpoint
func (m *Mailer) Endpoint() Endpoint {
	return m.endpoint
}

// Send delivers msg once. Credential rejections wrap ErrEmailAuth,
// everything else wraps ErrEmailDelivery.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	start := time.Now()

	err := m.configErr
	var out *mail.Msg
	if err == nil {
		out, err = BuildMsg(msg)
	}
	if err == nil {
		var client smtpClient
		client, err = m.newClient()
		if err == nil {
			err = client.DialAndSendWithContext(ctx, out)
		}
	}

	duration := metrics.MeasureDuration(start)
	if err != nil {
		status := "error"
		wrapped := apperrors.EmailDeliveryError(err)
		if IsAuthError(err) {
			status = "auth_error"
			wrapped = apperrors.EmailAuthError(err)
		}
		metrics.EmailSendDuration.WithLabelValues(status).Observe(duration)
		metrics.EmailSendTotal.WithLabelValues(status).Inc()
		logger.LogAPICall("smtp", "send", status, duration, zap.String("host", m.endpoint.Host), zap.Error(err))
		return wrapped
	}

	metrics.EmailSendDuration.WithLabelValues("success").Observe(duration)
	metrics.EmailSendTotal.WithLabelValues("success").Inc()
	logger.LogAPICall("smtp", "send", "success", duration, zap.String("host", m.endpoint.Host))
	return nil
}

// Verify connects and authenticates without sending anything
func (m *Mailer) Verify(ctx context.Context) error {
	if m.configErr != nil {
		return apperrors.EmailDeliveryError(m.configErr)
	}
	client, err := m.newClient()
	if err != nil {
		return apperrors.EmailDeliveryError(err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		if IsAuthError(err) {
			return apperrors.EmailAuthError(err)
		}
		return apperrors.EmailDeliveryError(err)
	}
	return client.Close()
}

// BuildMsg converts a Message into a go-mail message.
// A Reply-To that does not parse as a single address is left off the
// message; the submitter's address still appears in the body.
func BuildMsg(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			logger.Warn("Skipping unparseable Reply-To header",
				zap.String("reply_to", msg.ReplyTo),
				zap.Error(err))
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return out, nil
}

// IsAuthError reports whether err is the server rejecting our credentials
func IsAuthError(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "smtp auth")
}
