package api_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/pkg/http"
	"github.com/shashiranjanraj/foodexplorer/pkg/testkit"
)

const base = "http://api.test"

func TestCreateSession(t *testing.T) {
	mt := testkit.NewMockTransport(testkit.Stub{
		Method: "POST", Path: "/sessions",
		Body: map[string]any{"user": map[string]any{"id": 1, "name": "Ana", "email": "ana@x.com"}, "token": "tok"},
	})
	testkit.Install(t, mt)

	s, err := api.New(base, 0).CreateSession(context.Background(), "ana@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, models.ID("1"), s.User.ID)

	call := mt.CallsTo("POST", "/sessions")[0]
	testkit.AssertJSONBody(t, map[string]string{"email": "ana@x.com", "password": "secret"}, call.Body)
	assert.Empty(t, call.Header.Get("Authorization"))
}

func TestServerMessageSurfaces(t *testing.T) {
	testkit.Install(t, testkit.NewMockTransport(testkit.Stub{
		Method: "POST", Path: "/sessions", Status: 401,
		Body: map[string]string{"message": "E-mail e/ou senha incorreta"},
	}))

	_, err := api.New(base, 0).CreateSession(context.Background(), "a@b.co", "x")
	msg, ok := http.ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "E-mail e/ou senha incorreta", msg)
}

func TestPaymentDishesSendsIDsInOrder(t *testing.T) {
	mt := testkit.NewMockTransport(testkit.Stub{
		Method: "GET", Path: "/payment",
		Body: `[{"id":2,"name":"Suco","price":8,"image":"s.png"}]`,
	})
	testkit.Install(t, mt)

	dishes, err := api.New(base+"/", 0).PaymentDishes(context.Background(), http.Auth{Token: "tok"}, []models.ID{"2", "1"})
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "8", dishes[0].Price.String())

	call := mt.CallsTo("GET", "/payment")[0]
	assert.Equal(t, "dishIds=2%2C1", call.Query)
	assert.Equal(t, "Bearer tok", call.Header.Get("Authorization"))
}

func TestUploadAvatarIsMultipart(t *testing.T) {
	mt := testkit.NewMockTransport(testkit.Stub{Method: "PATCH", Path: "/users/avatar", Body: map[string]string{"avatar": "new.png"}})
	testkit.Install(t, mt)

	name, err := api.New(base, 0).UploadAvatar(context.Background(), http.Auth{Token: "tok"},
		api.Upload{Filename: "me.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "new.png", name)

	call := mt.CallsTo("PATCH", "/users/avatar")[0]
	assert.True(t, strings.HasPrefix(call.Header.Get("Content-Type"), "multipart/form-data"))
	assert.Contains(t, string(call.Body), `name="avatar"; filename="me.png"`)
}

func TestTransportFailureIsWrapped(t *testing.T) {
	testkit.Install(t, testkit.NewMockTransport(testkit.Stub{Method: "POST", Path: "/orders", Err: errors.New("connection refused")}))

	err := api.New(base, 0).CreateOrder(context.Background(), http.Auth{Token: "tok"}, models.NewOrder("1"))
	require.Error(t, err)
	_, isServer := http.ServerMessage(err)
	assert.False(t, isServer)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "http://api.test/files/p.png", api.New(base, 0).FileURL("p.png"))
}
