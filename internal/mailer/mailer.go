package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Mailer sends transactional mail over SMTP. Every send is best effort: the
// error goes back to the caller and is never retried here.
type Mailer struct {
	host     string
	port     string
	from     string
	password string
	log      *zerolog.Logger
}

type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

func New(host, port, from, password string, log *zerolog.Logger) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password, log: log}
}

func (m *Mailer) Send(msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML != "" {
		boundary := fmt.Sprintf("b%d", time.Now().UnixNano())
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	} else {
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s", msg.Text)
	}

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, msg.To, []byte(b.String())); err != nil {
		m.log.Warn().Err(err).Strs("to", msg.To).Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// SendInvite mails an event invitation to one recipient.
func (m *Mailer) SendInvite(to, partnerName, eventName string, start time.Time, message string) error {
	text := fmt.Sprintf("%s invites you to %q on %s.", partnerName, eventName, start.Format("2 January 2006 15:04"))
	if message != "" {
		text += "\n\n" + message
	}
	return m.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Invitation: %s", eventName),
		Text:    text,
		HTML: fmt.Sprintf("<p><b>%s</b> invites you to <b>%s</b> on %s.</p><p>%s</p>",
			partnerName, eventName, start.Format("2 January 2006 15:04"), message),
	})
}

// SendShare forwards an event's details to an address chosen by the partner.
func (m *Mailer) SendShare(to, partnerName, eventName string, start time.Time, message string) error {
	text := fmt.Sprintf("%s shared the event %q starting %s with you.", partnerName, eventName, start.Format("2 January 2006 15:04"))
	if message != "" {
		text += "\n\n" + message
	}
	return m.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("%s shared an event with you", partnerName),
		Text:    text,
	})
}

// SendCancellationNotice tells a registered participant the event is off.
func (m *Mailer) SendCancellationNotice(to, eventName, reason string) error {
	return m.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Cancelled: %s", eventName),
		Text:    fmt.Sprintf("The event %q has been cancelled.\n\nReason: %s", eventName, reason),
	})
}
