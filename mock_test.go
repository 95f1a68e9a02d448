package dataapi

import (
	"context"
	"sync"

	"github.com/kailas-cloud/dataapi/internal/domain/command"
	"github.com/kailas-cloud/dataapi/internal/transport/httpapi"
)

// mockCommander records envelopes and answers with resp/err or fn.
type mockCommander struct {
	mu   sync.Mutex
	sent []command.Envelope
	resp httpapi.Response
	err  error
	doFn func(env command.Envelope) (httpapi.Response, error)
}

func (m *mockCommander) Do(_ context.Context, env command.Envelope) (httpapi.Response, error) {
	m.mu.Lock()
	m.sent = append(m.sent, env)
	m.mu.Unlock()
	if m.doFn != nil {
		return m.doFn(env)
	}
	return m.resp, m.err
}

func (m *mockCommander) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockCommander) last() command.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func newMockClient(namespace string, m *mockCommander) *Client {
	return &Client{
		endpoint:  "http://localhost:8181",
		namespace: namespace,
		transport: m,
	}
}
