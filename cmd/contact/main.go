// Command contact submits one contact form entry to the site API and
// prints the resulting status line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/trucklogix/site-api/pkg/contactform"
	"github.com/trucklogix/site-api/pkg/httpclient"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	baseURL := fs.String("url", "http://localhost:5000", "site API base URL")
	name := fs.String("name", "", "sender name")
	email := fs.String("email", "", "sender email")
	subject := fs.String("subject", "", "subject (optional)")
	message := fs.String("message", "", "message body")
	timeout := fs.Duration("timeout", httpclient.DefaultTimeout, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	form := contactform.New(*baseURL, httpclient.NewClient(*timeout))
	for field, value := range map[string]string{
		contactform.FieldName:    *name,
		contactform.FieldEmail:   *email,
		contactform.FieldSubject: *subject,
		contactform.FieldMessage: *message,
	} {
		if err := form.UpdateField(field, value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout+time.Second)
	defer cancel()

	out := form.Submit(ctx)
	if !out.Success {
		fmt.Fprintln(os.Stderr, out.Message)
		return 1
	}
	fmt.Println(out.Message)
	return 0
}
