package applier

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/smithy-go"
)

type createCall struct {
	table string
	cidr  string
	eni   string
}

type mockCreator struct {
	mu       sync.Mutex
	calls    []createCall
	errs     map[string]error
	existing map[string]bool
	inFlight int
	peak     int
	gate     chan struct{}
}

func newMockCreator() *mockCreator {
	return &mockCreator{
		errs:     make(map[string]error),
		existing: make(map[string]bool),
	}
}

func (m *mockCreator) CreateRoute(ctx context.Context, routeTableID, destinationCIDR, networkInterfaceID string) error {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	m.mu.Unlock()

	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	m.calls = append(m.calls, createCall{table: routeTableID, cidr: destinationCIDR, eni: networkInterfaceID})

	key := routeTableID + "|" + destinationCIDR
	if err, ok := m.errs[key]; ok {
		return err
	}
	if m.existing[key] {
		return fmt.Errorf("create route %s in %s: %w", destinationCIDR, routeTableID, &smithy.GenericAPIError{
			Code:    "RouteAlreadyExists",
			Message: "The route identified by " + destinationCIDR + " already exists.",
		})
	}
	m.existing[key] = true
	return nil
}

func (m *mockCreator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
