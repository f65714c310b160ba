package mailingservices

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/messaging/config"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init(c *config.Config) {
	m.Client = mailgun.NewMailgun(c.MgDomain, c.MailgunApiKey)
	m.From = c.MgEmailFrom
}

// SendResetPassword mails a password reset link to the user.
func (m *Mailgun) SendResetPassword(toEmail, resetLink string) error {
	if m.Client == nil {
		return fmt.Errorf("mailgun client not initialized")
	}

	subject := "Reset your password"
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s\n\nThe link expires in 20 minutes.", resetLink)
	message := m.Client.NewMessage(m.From, subject, body, toEmail)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}
