package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/pkg/kv"
)

// Persisted keys, before the store prefix is applied.
const (
	KeyUser  = "user"
	KeyToken = "token"
	KeyOrder = "order"
)

// IdentityRepository persists the signed-in user and token.
type IdentityRepository struct {
	store kv.Store
}

func NewIdentityRepository(store kv.Store) *IdentityRepository {
	return &IdentityRepository{store: store}
}

// Load returns the stored user and token. ok is false unless both exist.
func (r *IdentityRepository) Load(ctx context.Context) (user *models.User, token string, ok bool, err error) {
	token, err = r.store.Get(ctx, KeyToken)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}

	raw, err := r.store.Get(ctx, KeyUser)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, "", false, fmt.Errorf("repositories: decode %s: %w", KeyUser, err)
	}
	return &u, token, true, nil
}

// Save writes the user subset and the raw token.
func (r *IdentityRepository) Save(ctx context.Context, user models.User, token string) error {
	if err := r.SaveUser(ctx, user); err != nil {
		return err
	}
	return r.store.Set(ctx, KeyToken, token)
}

// SaveUser writes only the user subset.
func (r *IdentityRepository) SaveUser(ctx context.Context, user models.User) error {
	subset := models.User{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}
	b, err := json.Marshal(subset)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KeyUser, string(b))
}

// Clear deletes user and token. The order key is left alone.
func (r *IdentityRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyToken); err != nil {
		return err
	}
	return r.store.Delete(ctx, KeyUser)
}
