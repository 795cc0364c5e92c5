package testkit

import (
	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
)

// MockChannel is a testify-backed notification.Channel for asserting exactly
// which notices a flow shows:
//
//	ch := &testkit.MockChannel{}
//	ch.On("Deliver", notification.Notice{Level: notification.LevelSuccess, Message: "Perfil atualizado!"}).Return(nil).Once()
//	svc := services.NewRegisterService(client, notification.New(ch))
//	// ...
//	ch.AssertExpectations(t)
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Deliver(n notification.Notice) error {
	return m.Called(n).Error(0)
}
