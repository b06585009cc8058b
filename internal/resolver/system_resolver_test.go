package resolver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/eleven-am/routeshift/internal/domain"
)

type fakeLookuper struct {
	ips map[string][]net.IP
}

func (f *fakeLookuper) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	if ips, ok := f.ips[host]; ok {
		return ips, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func TestSystemResolver_LookupIPv4(t *testing.T) {
	r := &SystemResolver{lookup: &fakeLookuper{ips: map[string][]net.IP{
		"app.internal":   {net.ParseIP("10.1.2.3")},
		"mixed.internal": {net.ParseIP("fd00::1"), net.ParseIP("192.168.1.1")},
		"v6.internal":    {net.ParseIP("fd00::1")},
	}}}

	got, err := r.LookupIPv4(context.Background(), "app.internal")
	if err != nil || got != "10.1.2.3" {
		t.Errorf("LookupIPv4(app.internal) = %q, %v", got, err)
	}

	got, err = r.LookupIPv4(context.Background(), "mixed.internal")
	if err != nil || got != "192.168.1.1" {
		t.Errorf("LookupIPv4(mixed.internal) = %q, %v", got, err)
	}

	for _, host := range []string{"v6.internal", "missing.internal", ""} {
		if _, err := r.LookupIPv4(context.Background(), host); !errors.Is(err, domain.ErrUnresolvableHost) {
			t.Errorf("LookupIPv4(%q) error = %v, want ErrUnresolvableHost", host, err)
		}
	}
}

func TestNewSystemResolver(t *testing.T) {
	if NewSystemResolver().lookup == nil {
		t.Error("expected default resolver")
	}
}
