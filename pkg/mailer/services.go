package mailer

import "strings"

// Endpoint is an SMTP submission address
type Endpoint struct {
	Host string
	Port int
}

// wellKnownServices maps EMAIL_SERVICE names to their submission endpoints
var wellKnownServices = map[string]Endpoint{
	"gmail":     {Host: "smtp.gmail.com", Port: 465},
	"outlook":   {Host: "smtp-mail.outlook.com", Port: 587},
	"hotmail":   {Host: "smtp-mail.outlook.com", Port: 587},
	"office365": {Host: "smtp.office365.com", Port: 587},
	"yahoo":     {Host: "smtp.mail.yahoo.com", Port: 465},
	"icloud":    {Host: "smtp.mail.me.com", Port: 587},
	"zoho":      {Host: "smtp.zoho.com", Port: 465},
	"sendgrid":  {Host: "smtp.sendgrid.net", Port: 587},
	"mailgun":   {Host: "smtp.mailgun.org", Port: 465},
	"ses":       {Host: "email-smtp.us-east-1.amazonaws.com", Port: 465},
}

const defaultSubmissionPort = 587

// ResolveEndpoint picks the SMTP endpoint for a service name, with an
// explicit host and port taking precedence. ok is false when neither a
// known service nor a host was given.
func ResolveEndpoint(service, host string, port int) (Endpoint, bool) {
	ep, known := wellKnownServices[strings.ToLower(strings.TrimSpace(service))]
	if host != "" {
		ep.Host = host
		if !known {
			ep.Port = defaultSubmissionPort
		}
	}
	if port > 0 {
		ep.Port = port
	}
	if ep.Host == "" {
		return Endpoint{}, false
	}
	return ep, true
}
