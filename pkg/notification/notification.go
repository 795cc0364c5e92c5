// Package notification delivers the short user-facing messages the client
// shows after an action: "Perfil atualizado!", "Item removido.", errors from
// the API. Every notice goes through all configured channels:
//
//	n := notification.New(notification.Console(os.Stdout), notification.Log())
//	n.Success("Perfil atualizado!")
//	n.Error("E-mail e/ou senha incorreta")
package notification

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one message shown to the user.
type Notice struct {
	Level   Level
	Message string
}

// Channel renders notices somewhere.
type Channel interface {
	Deliver(n Notice) error
}

// ChannelFunc adapts a function to Channel.
type ChannelFunc func(n Notice) error

func (f ChannelFunc) Deliver(n Notice) error { return f(n) }

// Notifier fans a notice out to its channels. A nil *Notifier drops notices.
type Notifier struct {
	channels []Channel
}

// New returns a Notifier delivering to channels in order.
func New(channels ...Channel) *Notifier {
	return &Notifier{channels: channels}
}

// Success shows a success notice.
func (n *Notifier) Success(msg string) { n.Send(Notice{Level: LevelSuccess, Message: msg}) }

// Error shows an error notice.
func (n *Notifier) Error(msg string) { n.Send(Notice{Level: LevelError, Message: msg}) }

// Info shows a neutral notice.
func (n *Notifier) Info(msg string) { n.Send(Notice{Level: LevelInfo, Message: msg}) }

// Send dispatches notice through every channel. Channel failures are logged,
// never returned: a notice that cannot be shown must not fail the action.
func (n *Notifier) Send(notice Notice) {
	if n == nil {
		return
	}
	for _, ch := range n.channels {
		if err := ch.Deliver(notice); err != nil {
			logger.Error("notification: channel failed", "level", notice.Level, "error", err)
		}
	}
}

// ------------------- Console channel -------------------

var symbols = map[Level]string{
	LevelSuccess: "✔",
	LevelError:   "✖",
	LevelInfo:    "•",
}

// Console writes one line per notice to w.
func Console(w io.Writer) Channel {
	return ChannelFunc(func(n Notice) error {
		_, err := fmt.Fprintf(w, "%s %s\n", symbols[n.Level], n.Message)
		return err
	})
}

// ------------------- Log channel -------------------

// Log mirrors notices into the structured log; errors at WARN so they reach
// the file and Mongo sinks.
func Log() Channel {
	return ChannelFunc(func(n Notice) error {
		if n.Level == LevelError {
			logger.Warn("notification", "level", n.Level, "message", n.Message)
		} else {
			logger.Info("notification", "level", n.Level, "message", n.Message)
		}
		return nil
	})
}

// ------------------- Recorder channel -------------------

// Recorder keeps every notice in memory. Used in tests.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Deliver(n Notice) error {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
	return nil
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
