package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mail implements core.Notifier over SMTP
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
	send              sendMailFunc
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(params MailParams) Mail {
	return Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		send:              smtp.SendMail,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
	}
}

// Notify mails text, using its first line as the subject
func (m Mail) Notify(text string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	err := m.send(
		serverAddress,
		m.auth,
		m.from,
		[]string{m.to},
		m.message(text),
	)

	if err != nil {
		log.WithError(err).Error("notification/mail: failed to send email")
	}
}

func (m Mail) message(text string) []byte {
	subject, _, _ := strings.Cut(text, "\n")
	subject = strings.NewReplacer("*", "", "`", "").Replace(subject)

	return []byte(fmt.Sprintf("To: <%s>\r\nFrom: \"stockcast\" <%s>\r\nSubject: %s\r\n\r\n%s\r\n",
		m.to, m.from, subject, text))
}
