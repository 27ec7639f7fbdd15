package repositories

import (
	"context"
	"sync"

	"homecare_client/internal/transport"
)

type cannedResponse struct {
	status int
	body   string
	err    error
}

// fakeSender answers requests from a table keyed by "METHOD path" and records calls.
type fakeSender struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	calls     []transport.Request
}

func newFakeSender() *fakeSender {
	return &fakeSender{responses: make(map[string]cannedResponse)}
}

func (f *fakeSender) on(method, path string, status int, body string) {
	f.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

func (f *fakeSender) fail(method, path string, err error) {
	f.responses[method+" "+path] = cannedResponse{err: err}
}

func (f *fakeSender) Send(ctx context.Context, req transport.Request) (*transport.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	canned, ok := f.responses[req.Method+" "+req.Path]
	if !ok {
		return &transport.Response{Method: req.Method, URL: req.Path, StatusCode: 404}, nil
	}
	if canned.err != nil {
		return nil, canned.err
	}
	return &transport.Response{Method: req.Method, URL: req.Path, StatusCode: canned.status, Body: []byte(canned.body)}, nil
}

func (f *fakeSender) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}
