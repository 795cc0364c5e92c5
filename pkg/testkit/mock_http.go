package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	fxhttp "github.com/shashiranjanraj/foodexplorer/pkg/http"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// Stub is one canned API response. Body is sent as-is when it is a string or
// []byte and JSON-encoded otherwise. A non-nil Err simulates a transport
// failure (no response at all).
type Stub struct {
	Method string
	Path   string
	Status int
	Body   interface{}
	Err    error
}

// Call is a recorded outgoing request.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// MockTransport implements http.RoundTripper. It answers outgoing requests
// from a list of stubs matched on method and path, and records every call.
//
// Install it on the shared client before the test:
//
//	mt := testkit.NewMockTransport(testkit.Stub{Method: "POST", Path: "/sessions", Body: resp})
//	testkit.Install(t, mt)
//	// ... run test ...
//	testkit.AssertMocksAllCalled(t, mt)
type MockTransport struct {
	mu    sync.Mutex
	stubs []*stubEntry
	calls []Call
}

type stubEntry struct {
	stub      Stub
	callCount int
}

// NewMockTransport builds a MockTransport answering with stubs.
func NewMockTransport(stubs ...Stub) *MockTransport {
	mt := &MockTransport{}
	for _, s := range stubs {
		mt.Stub(s)
	}
	return mt
}

// Stub adds or replaces the response for s.Method s.Path.
func (mt *MockTransport) Stub(s Stub) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	s.Method = strings.ToUpper(s.Method)
	for _, e := range mt.stubs {
		if e.stub.Method == s.Method && e.stub.Path == s.Path {
			e.stub = s
			return
		}
	}
	mt.stubs = append(mt.stubs, &stubEntry{stub: s})
}

// Install swaps the shared client's transport for mt until the test ends.
func Install(t *testing.T, mt *MockTransport) {
	t.Helper()
	fxhttp.DefaultClient.Transport = mt
	t.Cleanup(fxhttp.ResetTransport)
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.calls = append(mt.calls, Call{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})

	for _, entry := range mt.stubs {
		if entry.stub.Method != req.Method || entry.stub.Path != req.URL.Path {
			continue
		}
		entry.callCount++
		if entry.stub.Err != nil {
			return nil, entry.stub.Err
		}
		return buildHTTPResponse(req, entry.stub)
	}

	return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call %s %s: no matching stub", req.Method, req.URL)
}

// Calls returns a copy of every recorded call.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]Call(nil), mt.calls...)
}

// CallsTo returns the recorded calls to method path.
func (mt *MockTransport) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range mt.Calls() {
		if c.Method == strings.ToUpper(method) && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// AssertAllCalled reports every stub that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.stubs {
		if e.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: stub %s %s was never called", e.stub.Method, e.stub.Path))
		}
	}
	return errs
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func buildHTTPResponse(req *http.Request, s Stub) (*http.Response, error) {
	code := s.Status
	if code == 0 {
		code = http.StatusOK
	}

	var bodyBytes []byte
	switch b := s.Body.(type) {
	case nil:
	case []byte:
		bodyBytes = b
	case string:
		bodyBytes = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("testkit: encode stub body: %w", err)
		}
		bodyBytes = encoded
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(bodyBytes)),
		Request:    req,
	}, nil
}
