package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/handlers"
)

// TestClient drives the real router over httptest.
type TestClient struct {
	Server *httptest.Server
	Engine *TestEngine
}

// NewTestClient builds a test engine and serves the full API over it.
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	engine := NewTestEngine(t)
	router := handlers.NewRouter(engine.Store, engine.Logger, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestClient{
		Server: server,
		Engine: engine,
	}
}

// Store is a shortcut to the underlying engine store.
func (tc *TestClient) Store() *dashboard.Store {
	return tc.Engine.Store
}

// Get performs a GET request
func (tc *TestClient) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(tc.Server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// Post performs a POST request with a JSON body
func (tc *TestClient) Post(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return tc.do(t, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body
func (tc *TestClient) Put(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return tc.do(t, http.MethodPut, path, body)
}

// Delete performs a DELETE request
func (tc *TestClient) Delete(t *testing.T, path string) *http.Response {
	t.Helper()
	return tc.do(t, http.MethodDelete, path, nil)
}

func (tc *TestClient) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// AssertStatus fails the test when the response status differs.
func AssertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(data))
	}
}

// ParseResponse decodes the response body into v and closes it.
func ParseResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// DrainBody closes the response body, reading it fully first.
func DrainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
