package utils

import (
	"fmt"
	"log"

	"coachhub/backend/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer отправляет транзакционные письма (сброс пароля и т.п.)
type Mailer interface {
	Send(to, subject, body string) error
}

type sendgridMailer struct {
	key  string
	from *sgmail.Email
}

func (m *sendgridMailer) Send(to, subject, body string) error {
	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), body, body)
	client := sendgrid.NewSendClient(m.key)

	resp, err := client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// consoleMailer пишет письма в лог; используется в dev и в тестах,
// когда SENDGRID_API_KEY не задан.
type consoleMailer struct {
	logger *log.Logger
}

func (m *consoleMailer) Send(to, subject, body string) error {
	m.logger.Printf("mail to=%s subject=%q body=%q", to, subject, body)
	return nil
}

func NewMailer(cfg *config.Config, logger *log.Logger) Mailer {
	if cfg.SendgridAPIKey == "" {
		return &consoleMailer{logger: logger}
	}
	return &sendgridMailer{
		key:  cfg.SendgridAPIKey,
		from: sgmail.NewEmail("CoachHub", cfg.MailFrom),
	}
}
