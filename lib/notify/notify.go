package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"scorewatch-backend/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("scorewatch.lib.notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	Recipient    string `json:"recipient"`
}

// Mailer delivers html notification emails. delivery is best-effort
// from the pipeline's perspective, callers log failures and move on.
type Mailer struct {
	config SmtpConfig
}

func NewMailer(config SmtpConfig) Mailer {
	return Mailer{config: config}
}

func (m Mailer) Send(ctx context.Context, subject, html string) error {
	_, span := tracer.Start(ctx, "mailer:Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Scorewatch <%s>", m.config.EmailAddress)
	mail.To = []string{m.config.Recipient}
	mail.Subject = subject
	mail.HTML = []byte(html)

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	auth := smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server)

	var err error
	if m.config.Port == 465 {
		// implicit tls, starttls is not spoken on 465
		err = mail.SendWithTLS(addr, auth, &tls.Config{ServerName: m.config.Server})
	} else {
		err = mail.Send(addr, auth)
		if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
			err = mail.Send(addr, nil)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}

	return nil
}
