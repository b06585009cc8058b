package auditor

import (
	"context"
	"fmt"
	"sync"

	"github.com/eleven-am/routeshift/internal/domain"
)

type mockResolver struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	lookups []string
}

func newMockResolver(answers map[string]string) *mockResolver {
	return &mockResolver{answers: answers, errs: make(map[string]error)}
}

func (m *mockResolver) LookupIPv4(ctx context.Context, hostname string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, hostname)

	if err, ok := m.errs[hostname]; ok {
		return "", err
	}
	if addr, ok := m.answers[hostname]; ok {
		return addr, nil
	}
	return "", fmt.Errorf("%w: %s: NXDOMAIN", domain.ErrUnresolvableHost, hostname)
}

func (m *mockResolver) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lookups)
}
