package services

import (
	"context"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/pkg/http"
	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
	"github.com/shashiranjanraj/foodexplorer/pkg/validate"
)

const (
	msgFillAllFields    = "Preencha todos os campos."
	msgNameTooShort     = "O nome deve ter no mínimo 3 caracteres."
	msgInvalidEmail     = "Por favor, insira um email válido."
	msgPasswordTooShort = "A senha deve ter no mínimo 6 caracteres."
	msgAdminCreated     = "Administrador cadastrado com sucesso!"
	msgRegisterFailed   = "Não foi possível cadastrar."
)

// RegisterService creates administrator accounts.
type RegisterService struct {
	api    *api.Client
	notify *notification.Notifier
}

func NewRegisterService(client *api.Client, notify *notification.Notifier) *RegisterService {
	return &RegisterService{api: client, notify: notify}
}

// RegisterAdmin checks form locally and, when it passes, sends it.
func (s *RegisterService) RegisterAdmin(ctx context.Context, form api.AdminForm) error {
	if err := checkAdminForm(form); err != nil {
		s.notify.Error(err.Message)
		return err
	}

	if err := s.api.CreateAdmin(ctx, form); err != nil {
		logger.WithCtx(ctx).Error("register: create admin", "email", form.Email, "error", err)
		if msg, ok := http.ServerMessage(err); ok {
			s.notify.Error(msg)
		} else {
			s.notify.Error(msgRegisterFailed)
		}
		return err
	}

	s.notify.Success(msgAdminCreated)
	return nil
}

// checkAdminForm reports the first problem in the order the form shows them:
// any empty field, then name, email and password.
func checkAdminForm(form api.AdminForm) *ValidationError {
	errs := validate.Check(form)
	if len(errs) == 0 {
		return nil
	}
	for field, f := range errs {
		if f.Rule == "required" {
			return &ValidationError{Field: field, Message: msgFillAllFields}
		}
	}
	if _, bad := errs["name"]; bad {
		return &ValidationError{Field: "name", Message: msgNameTooShort}
	}
	if _, bad := errs["email"]; bad {
		return &ValidationError{Field: "email", Message: msgInvalidEmail}
	}
	return &ValidationError{Field: "password", Message: msgPasswordTooShort}
}
