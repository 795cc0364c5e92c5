package notification_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
)

func TestFanOutToChannels(t *testing.T) {
	var buf bytes.Buffer
	rec := &notification.Recorder{}
	n := notification.New(notification.Console(&buf), rec)

	n.Success("Perfil atualizado!")
	n.Error("E-mail e/ou senha incorreta")
	n.Info("Item removido.")

	assert.Equal(t, "✔ Perfil atualizado!\n✖ E-mail e/ou senha incorreta\n• Item removido.\n", buf.String())
	assert.Len(t, rec.Notices(), 3)

	last, ok := rec.Last()
	assert.True(t, ok)
	assert.Equal(t, notification.Notice{Level: notification.LevelInfo, Message: "Item removido."}, last)
}

func TestFailingChannelDoesNotStopOthers(t *testing.T) {
	rec := &notification.Recorder{}
	failing := notification.ChannelFunc(func(notification.Notice) error { return errors.New("closed") })

	notification.New(failing, rec).Error("x")

	assert.Len(t, rec.Notices(), 1)
}

func TestNilNotifier(t *testing.T) {
	var n *notification.Notifier
	assert.NotPanics(t, func() { n.Success("ok") })
}
