// Package notify delivers phase-completion messages through the desktop.
package notify

import "fyne.io/fyne/v2"

// Desktop sends notifications through the fyne app.
type Desktop struct {
	app fyne.App
}

// NewDesktop creates a notifier bound to app.
func NewDesktop(app fyne.App) *Desktop {
	return &Desktop{app: app}
}

// Notify shows a system notification.
func (notifier *Desktop) Notify(title, body string) {
	notifier.app.SendNotification(fyne.NewNotification(title, body))
}

// Discard drops every notification.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(string, string) {}
