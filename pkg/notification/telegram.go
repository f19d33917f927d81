// Package notification sends run summaries to Telegram users or by mail
package notification

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// ErrNoRecipients is returned when a notifier has nobody to send to
var ErrNoRecipients = errors.New("notification: no recipients")

type sender interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
}

// Telegram implements core.Notifier by messaging every configured user
type Telegram struct {
	users  []int
	client sender
}

// Option configures a Telegram notifier
type Option func(*Telegram)

// WithUsers adds recipients by Telegram user ID
func WithUsers(users ...int) Option {
	return func(t *Telegram) {
		t.users = append(t.users, users...)
	}
}

// NewTelegram connects a bot with token and returns a notifier for its users
func NewTelegram(token string, options ...Option) (*Telegram, error) {
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     token,
		Poller:    &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return newTelegram(client, options...)
}

func newTelegram(client sender, options ...Option) (*Telegram, error) {
	t := &Telegram{client: client}
	for _, option := range options {
		option(t)
	}

	if len(t.users) == 0 {
		return nil, ErrNoRecipients
	}

	return t, nil
}

// Notify sends text to all users, logging failures
func (t *Telegram) Notify(text string) {
	for _, user := range t.users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text)
		if err != nil {
			log.WithError(err).WithField("user", user).Error("failed to send notification")
		}
	}
}
