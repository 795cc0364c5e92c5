// Package http provides the fluent HTTP client used for every call to the
// Food Explorer API.
//
// Usage:
//
//	resp, err := http.Get(baseURL + "/payment").
//	    Query("dishIds", "1,2,3").
//	    Auth(session.Auth()).
//	    WithContext(ctx).
//	    Send()
//
//	var dishes []models.Dish
//	err = resp.JSON(&dishes)
//
//	// POST JSON body
//	resp, err := http.Post(baseURL + "/sessions").
//	    Body(map[string]any{"email": email, "password": password}).
//	    Send()
//
// Requests are never retried: every failure goes back to the caller, who
// tells the user and lets them try again.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	gohttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/metrics"
	"github.com/shashiranjanraj/foodexplorer/pkg/reqid"
)

// defaultTransport is the connection-pooled transport used in production.
// Tests can replace DefaultClient.Transport to inject mocks.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared HTTP client used by all outgoing requests.
// Tests can swap DefaultClient.Transport to intercept calls:
//
//	http.DefaultClient.Transport = myMockTransport
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
// Call via defer after injecting a test transport.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ------------------- Auth -------------------

// Auth is the request context for authenticated calls. It is passed
// explicitly to every request instead of living in a shared client default,
// so signing out cannot leave a stale Authorization header behind.
type Auth struct {
	Token string
}

// Anonymous is the zero Auth: no Authorization header is sent.
var Anonymous = Auth{}

// Authenticated reports whether a bearer token is present.
func (a Auth) Authenticated() bool { return a.Token != "" }

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	method  string
	url     string
	route   string
	query   url.Values
	headers map[string]string
	body    interface{}
	form    *multipartFile
	timeout time.Duration
	ctx     context.Context
}

type multipartFile struct {
	field    string
	filename string
	content  io.Reader
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(gohttp.MethodPut, url) }

// Patch starts a PATCH request.
func Patch(url string) *Request { return newRequest(gohttp.MethodPatch, url) }

func newRequest(method, url string) *Request {
	return &Request{
		method:  method,
		url:     url,
		route:   url,
		query:   nil,
		headers: map[string]string{"Accept": "application/json"},
		timeout: 30 * time.Second,
		ctx:     context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Query adds a query-string parameter.
func (r *Request) Query(key, value string) *Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Add(key, value)
	return r
}

// Route names the endpoint for metrics and logs, e.g. "/payment". Defaults to
// the full URL.
func (r *Request) Route(name string) *Request {
	r.route = name
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Auth applies a request context. Anonymous leaves the request untouched.
func (r *Request) Auth(a Auth) *Request {
	if a.Authenticated() {
		return r.Bearer(a.Token)
	}
	return r
}

// Body sets the request body. v is marshalled to JSON automatically.
// Pass a string or []byte to send raw bodies.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// File sends content as a multipart/form-data file under field.
func (r *Request) File(field, filename string, content io.Reader) *Request {
	r.form = &multipartFile{field: field, filename: filename, content: content}
	return r
}

// Timeout sets the request timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithContext sets a custom context.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// ------------------- Send -------------------

// Send executes the request and returns a Response. A non-2xx status is not
// an error here; call Response.Throw to turn it into an *APIError.
func (r *Request) Send() (*Response, error) {
	ctx, id := reqid.Ensure(r.ctx)
	log := logger.WithCtx(ctx)
	start := time.Now()

	resp, err := r.do(ctx, id)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.ObserveAPICall(r.method, r.route, status, time.Since(start))

	if err != nil {
		log.Warn("http: request failed", "method", r.method, "route", r.route, "error", err)
		return nil, fmt.Errorf("http: %s %s: %w", r.method, r.route, err)
	}

	log.Debug("http: request", "method", r.method, "route", r.route,
		"status", resp.StatusCode, "duration", time.Since(start).String())
	return resp, nil
}

func (r *Request) do(ctx context.Context, id string) (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	target := r.url
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set(reqid.Header, id)

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.form != nil {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(r.form.field, r.form.filename)
		if err != nil {
			return nil, "", fmt.Errorf("multipart: %w", err)
		}
		if _, err := io.Copy(part, r.form.content); err != nil {
			return nil, "", fmt.Errorf("multipart: copy %s: %w", r.form.filename, err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("multipart: close: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}

	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ------------------- Response -------------------

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Throw returns an *APIError if the response status is not 2xx.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	apiErr := &APIError{Status: r.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(r.Raw, &body) == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
