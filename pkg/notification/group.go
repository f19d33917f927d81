package notification

import "github.com/raykavin/stockcast/pkg/core"

// Group fans a message out to several notifiers
type Group []core.Notifier

// Notify implements core.Notifier
func (g Group) Notify(text string) {
	for _, notifier := range g {
		notifier.Notify(text)
	}
}
