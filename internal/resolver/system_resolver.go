package resolver

import (
	"context"
	"fmt"
	"net"

	"github.com/eleven-am/routeshift/internal/domain"
)

type ipLookuper interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// SystemResolver defers to the operating system resolver, which honours
// /etc/hosts and nsswitch unlike DNSResolver.
type SystemResolver struct {
	lookup ipLookuper
}

func NewSystemResolver() *SystemResolver {
	return &SystemResolver{lookup: net.DefaultResolver}
}

func (r *SystemResolver) LookupIPv4(ctx context.Context, hostname string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("%w: empty hostname", domain.ErrUnresolvableHost)
	}
	ips, err := r.lookup.LookupIP(ctx, "ip4", hostname)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrUnresolvableHost, hostname, err)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s: no IPv4 address", domain.ErrUnresolvableHost, hostname)
}
