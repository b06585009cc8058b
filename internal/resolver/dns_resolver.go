package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/eleven-am/routeshift/internal/cidr"
	"github.com/eleven-am/routeshift/internal/domain"
)

const (
	DefaultResolvConf = "/etc/resolv.conf"
	defaultTimeout    = 5 * time.Second
)

type exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// DNSResolver queries A records directly against a list of nameservers,
// trying each in order until one answers. Short names are expanded through
// the search list the way the system resolver does.
type DNSResolver struct {
	client  exchanger
	servers []string
	search  []string
	ndots   int
}

func NewDNSResolver(servers []string, timeout time.Duration) *DNSResolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		normalized = append(normalized, withDefaultPort(s, "53"))
	}
	return &DNSResolver{
		client:  &dns.Client{Net: "udp", Timeout: timeout},
		servers: normalized,
	}
}

// NewDNSResolverFromConfig reads nameservers from a resolv.conf style file.
func NewDNSResolverFromConfig(path string, timeout time.Duration) (*DNSResolver, error) {
	if path == "" {
		path = DefaultResolvConf
	}
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resolver config %s: %w", path, err)
	}
	if len(conf.Servers) == 0 {
		return nil, fmt.Errorf("resolver config %s lists no nameservers", path)
	}
	if timeout <= 0 && conf.Timeout > 0 {
		timeout = time.Duration(conf.Timeout) * time.Second
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	r := NewDNSResolver(servers, timeout)
	r.search = conf.Search
	r.ndots = conf.Ndots
	return r, nil
}

func (r *DNSResolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// Names lists the fully qualified names tried for hostname, in order.
func (r *DNSResolver) Names(hostname string) []string {
	if len(r.search) == 0 {
		return []string{dns.Fqdn(hostname)}
	}
	conf := dns.ClientConfig{Search: r.search, Ndots: r.ndots}
	return conf.NameList(hostname)
}

func (r *DNSResolver) LookupIPv4(ctx context.Context, hostname string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("%w: empty hostname", domain.ErrUnresolvableHost)
	}
	if addr, err := cidr.ParseAddr(hostname); err == nil {
		return addr.String(), nil
	}

	var lastErr error
	for _, name := range r.Names(hostname) {
		addr, err := r.lookupName(ctx, name)
		if err == nil {
			return addr, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %s: %v", domain.ErrUnresolvableHost, hostname, lastErr)
}

// lookupName asks each server in turn for the A record of a fully
// qualified name. NXDOMAIN and empty answers are final for that name.
func (r *DNSResolver) lookupName(ctx context.Context, name string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		in, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = fmt.Errorf("query %s: %w", server, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		switch in.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return "", fmt.Errorf("%s: NXDOMAIN", name)
		default:
			lastErr = fmt.Errorf("query %s: %s", server, dns.RcodeToString[in.Rcode])
			continue
		}
		for _, rr := range in.Answer {
			if a, ok := rr.(*dns.A); ok {
				return a.A.String(), nil
			}
		}
		return "", fmt.Errorf("%s: no A record", name)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no nameservers configured")
	}
	return "", lastErr
}

func withDefaultPort(server, port string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, port)
}
