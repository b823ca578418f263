package notifier

import (
	"fmt"
	"net/smtp"

	"playgrounds/internal/config"
)

type Mailer struct {
	addr     string
	host     string
	from     string
	password string
}

func NewMailer(cfg config.SMTP) *Mailer {
	return &Mailer{
		addr:     cfg.Addr,
		host:     cfg.Host,
		from:     cfg.From,
		password: cfg.Password,
	}
}

func subjectAndBody(msg Message) (string, string) {
	when := msg.DateTime.Format("Mon, 02 Jan 2006 15:04")

	switch msg.Kind {
	case KindConfirmed:
		return fmt.Sprintf("Event confirmed: %s", msg.Title),
			fmt.Sprintf("Your event %q at %s is confirmed for %s. See you there!", msg.Title, msg.SpaceName, when)
	case KindSuspended:
		return fmt.Sprintf("Event suspended: %s", msg.Title),
			fmt.Sprintf("The event %q at %s was suspended: not enough participants before %s.", msg.Title, msg.SpaceName, when)
	case KindCancelled:
		return fmt.Sprintf("Event cancelled: %s", msg.Title),
			fmt.Sprintf("The event %q at %s on %s was cancelled by its creator.", msg.Title, msg.SpaceName, when)
	case KindUpdated:
		return fmt.Sprintf("Event updated: %s", msg.Title),
			fmt.Sprintf("The event %q at %s was updated. It is now scheduled for %s.", msg.Title, msg.SpaceName, when)
	case KindNewNearby:
		return fmt.Sprintf("New event at %s", msg.SpaceName),
			fmt.Sprintf("A new event %q was scheduled at %s for %s. Spots are open!", msg.Title, msg.SpaceName, when)
	}

	return msg.Title, fmt.Sprintf("Update on the event %q at %s.", msg.Title, msg.SpaceName)
}

func (m *Mailer) Send(msg Message) error {
	subject, body := subjectAndBody(msg)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	for _, to := range msg.Recipients {
		mail := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
			m.from, to, subject, body,
		)
		if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(mail)); err != nil {
			return fmt.Errorf("send email to %s: %w", to, err)
		}
	}

	return nil
}
