package applier

import (
	"context"
	"sync"

	"github.com/eleven-am/routeshift/internal/domain"
)

// PlannedRoute is a creation request captured by a DryRunCreator.
type PlannedRoute struct {
	TableID            domain.RouteTableID
	DestinationCIDR    string
	NetworkInterfaceID string
}

// DryRunCreator records creation requests without sending them anywhere.
type DryRunCreator struct {
	mu      sync.Mutex
	planned []PlannedRoute
}

func NewDryRunCreator() *DryRunCreator {
	return &DryRunCreator{}
}

func (d *DryRunCreator) CreateRoute(ctx context.Context, routeTableID, destinationCIDR, networkInterfaceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.planned = append(d.planned, PlannedRoute{
		TableID:            routeTableID,
		DestinationCIDR:    destinationCIDR,
		NetworkInterfaceID: networkInterfaceID,
	})
	return nil
}

func (d *DryRunCreator) Planned() []PlannedRoute {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PlannedRoute, len(d.planned))
	copy(out, d.planned)
	return out
}
