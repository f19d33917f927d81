package notification

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

type fakeSender struct {
	sent []int64
	fail map[int64]bool
}

func (f *fakeSender) Send(to tb.Recipient, what interface{}, _ ...interface{}) (*tb.Message, error) {
	user := to.(*tb.User)
	if f.fail[user.ID] {
		return nil, errors.New("blocked")
	}
	f.sent = append(f.sent, user.ID)
	return &tb.Message{Text: what.(string)}, nil
}

func TestTelegram_Notify(t *testing.T) {
	client := &fakeSender{fail: map[int64]bool{2: true}}

	notifier, err := newTelegram(client, WithUsers(1, 2), WithUsers(3))
	require.NoError(t, err)

	notifier.Notify("*TSLA* 30-day forecast")
	assert.Equal(t, []int64{1, 3}, client.sent)
}

func TestTelegram_NoUsers(t *testing.T) {
	_, err := newTelegram(&fakeSender{})
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestMail_Notify(t *testing.T) {
	var (
		addr string
		body string
		to   []string
	)

	m := NewMail(MailParams{
		SMTPServerAddress: "smtp.example.com",
		SMTPServerPort:    587,
		To:                "me@example.com",
		From:              "bot@example.com",
	})
	m.send = func(a string, _ smtp.Auth, _ string, recipients []string, msg []byte) error {
		addr, to, body = a, recipients, string(msg)
		return nil
	}

	m.Notify("*TSLA* 30-day forecast\nRMSE train `1.0`")

	assert.Equal(t, "smtp.example.com:587", addr)
	assert.Equal(t, []string{"me@example.com"}, to)
	assert.Contains(t, body, "Subject: TSLA 30-day forecast\r\n")
	assert.Contains(t, body, "RMSE train `1.0`")
}

type recorder struct {
	messages []string
}

func (r *recorder) Notify(text string) {
	r.messages = append(r.messages, text)
}

func TestGroup_Notify(t *testing.T) {
	first, second := &recorder{}, &recorder{}

	Group{first, second}.Notify("done")

	assert.Equal(t, []string{"done"}, first.messages)
	assert.Equal(t, []string{"done"}, second.messages)
}
