package email

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier sends account lifecycle emails. Delivery is best-effort: callers
// never wait on it and failures never surface to the request.
type Notifier interface {
	SendWelcomeEmail(email, name string)
	SendGoodbyeEmail(email, name string)
}

// SendGridNotifier delivers via the SendGrid API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   string
}

// NewSendGridNotifier creates a Notifier backed by SendGrid.
func NewSendGridNotifier(apiKey, from string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

// SendWelcomeEmail sends the signup greeting in the background.
func (n *SendGridNotifier) SendWelcomeEmail(email, name string) {
	go n.send(email, name,
		"Thanks for joining the community",
		fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
	)
}

// SendGoodbyeEmail sends the account-deletion farewell in the background.
func (n *SendGridNotifier) SendGoodbyeEmail(email, name string) {
	go n.send(email, name,
		"What we could have done?",
		fmt.Sprintf("Its very sad that you are leaving %s. Please tell us what we could've done to make you stay longer.", name),
	)
}

func (n *SendGridNotifier) send(email, name, subject, body string) {
	from := mail.NewEmail("Task Manager", n.from)
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	if _, err := n.client.Send(message); err != nil {
		log.Printf("Failed to send %q email to %s: %v", subject, email, err)
	}
}

// NoopNotifier is used when no SendGrid key is configured.
type NoopNotifier struct{}

func (NoopNotifier) SendWelcomeEmail(email, name string) {}
func (NoopNotifier) SendGoodbyeEmail(email, name string) {}
