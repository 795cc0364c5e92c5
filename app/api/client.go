// Package api is the typed client for the Food Explorer HTTP API.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/pkg/http"
)

// Client talks to one API base URL. Authenticated calls take an explicit
// http.Auth; the client itself holds no credentials.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for baseURL, e.g. "http://localhost:3333".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// FileURL is where the API serves an uploaded image.
func (c *Client) FileURL(name string) string {
	return c.baseURL + "/files/" + name
}

// Session is the body of a successful POST /sessions.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Upload is a file sent as multipart form data.
type Upload struct {
	Filename string
	Content  io.Reader
}

// CreateSession signs in with email and password.
func (c *Client) CreateSession(ctx context.Context, email, password string) (Session, error) {
	var out Session
	err := c.do(ctx, http.Post(c.url("/sessions")).
		Route("/sessions").
		Body(map[string]string{"email": email, "password": password}), &out)
	if err != nil {
		return Session{}, err
	}
	if out.Token == "" {
		return Session{}, fmt.Errorf("api: /sessions: response has no token")
	}
	return out, nil
}

// UploadAvatar replaces the user's avatar and returns the stored file name.
func (c *Client) UploadAvatar(ctx context.Context, a http.Auth, file Upload) (string, error) {
	var out struct {
		Avatar string `json:"avatar"`
	}
	err := c.do(ctx, http.Patch(c.url("/users/avatar")).
		Route("/users/avatar").
		Auth(a).
		File("avatar", file.Filename, file.Content), &out)
	return out.Avatar, err
}

// UpdateUser sends the edited profile.
func (c *Client) UpdateUser(ctx context.Context, a http.Auth, u models.User) error {
	return c.do(ctx, http.Put(c.url("/users")).Route("/users").Auth(a).Body(u), nil)
}

// AdminForm is the body of POST /admin.
type AdminForm struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateAdmin registers an administrator account.
func (c *Client) CreateAdmin(ctx context.Context, form AdminForm) error {
	return c.do(ctx, http.Post(c.url("/admin")).Route("/admin").Body(form), nil)
}

// PaymentDishes fetches the catalog records for ids in a single call.
func (c *Client) PaymentDishes(ctx context.Context, a http.Auth, ids []models.ID) ([]models.Dish, error) {
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = id.String()
	}
	var out []models.Dish
	err := c.do(ctx, http.Get(c.url("/payment")).
		Route("/payment").
		Auth(a).
		Query("dishIds", strings.Join(joined, ",")), &out)
	return out, err
}

// CreateOrder submits order, wrapped as {"order": ...}.
func (c *Client) CreateOrder(ctx context.Context, a http.Auth, order models.Order) error {
	body := map[string]models.Order{"order": order}
	return c.do(ctx, http.Post(c.url("/orders")).Route("/orders").Auth(a).Body(body), nil)
}

func (c *Client) url(path string) string { return c.baseURL + path }

func (c *Client) do(ctx context.Context, req *http.Request, dest interface{}) error {
	resp, err := req.Timeout(c.timeout).WithContext(ctx).Send()
	if err != nil {
		return err
	}
	if err := resp.Throw(); err != nil {
		return err
	}
	if dest == nil || len(resp.Raw) == 0 {
		return nil
	}
	return resp.JSON(dest)
}
