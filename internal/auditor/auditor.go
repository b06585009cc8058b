package auditor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/routeshift/internal/cidr"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
)

const DefaultConcurrency = 1

type Auditor struct {
	resolver    domain.Resolver
	concurrency int
	log         logrus.FieldLogger
}

type Option func(*Auditor)

func WithConcurrency(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Auditor) {
		if log != nil {
			a.log = log
		}
	}
}

func New(resolver domain.Resolver, opts ...Option) *Auditor {
	a := &Auditor{
		resolver:    resolver,
		concurrency: DefaultConcurrency,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type routePrefix struct {
	route  domain.Route
	prefix cidr.Prefix
}

type hostSlot struct {
	match   *domain.MatchResult
	failure *domain.HostFailure
}

// Audit resolves every host and reports the ones whose address is still
// covered by at least one route. An invalid route CIDR aborts the audit
// before any lookup; a host that fails to resolve is recorded and skipped.
// Matches keep host input order and, within a match, route input order.
func (a *Auditor) Audit(ctx context.Context, hosts []domain.HostRecord, routes []domain.Route) (domain.AuditReport, error) {
	prefixes, err := a.parseRoutes(routes)
	if err != nil {
		return domain.AuditReport{}, err
	}

	slots := make([]hostSlot, len(hosts))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, host := range hosts {
		g.Go(func() error {
			slots[i] = a.auditHost(ctx, host, prefixes)
			return nil
		})
	}
	_ = g.Wait()

	report := domain.AuditReport{Examined: len(hosts)}
	for _, s := range slots {
		if s.failure != nil {
			report.Failures = append(report.Failures, *s.failure)
		}
		if s.match != nil {
			report.Matches = append(report.Matches, *s.match)
		}
	}
	return report, nil
}

func (a *Auditor) parseRoutes(routes []domain.Route) ([]routePrefix, error) {
	prefixes := make([]routePrefix, 0, len(routes))
	for i, route := range routes {
		p, err := cidr.ParsePrefix(route.DestinationCIDR)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		if p.HostBitsSet() {
			a.log.WithField(logfields.CIDR, route.DestinationCIDR).
				Warnf("Route network has host bits set, matching as %s", p.Masked())
		}
		prefixes = append(prefixes, routePrefix{route: route, prefix: p})
	}
	return prefixes, nil
}

func (a *Auditor) auditHost(ctx context.Context, host domain.HostRecord, prefixes []routePrefix) hostSlot {
	log := a.log.WithFields(logrus.Fields{
		logfields.Host:      host.Hostname,
		logfields.Project:   host.ProjectID,
		logfields.Component: host.ComponentID,
		logfields.Config:    host.ConfigID,
	})

	fail := func(err error) hostSlot {
		log.WithError(err).Warn("Skipping host")
		return hostSlot{failure: &domain.HostFailure{Host: host, Err: err}}
	}

	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("%w: %s: %w", domain.ErrUnresolvableHost, host.Hostname, err))
	}
	if host.Hostname == "" {
		return fail(fmt.Errorf("%w: empty hostname", domain.ErrUnresolvableHost))
	}

	address, err := a.resolver.LookupIPv4(ctx, host.Hostname)
	if err != nil {
		if !errors.Is(err, domain.ErrUnresolvableHost) {
			err = fmt.Errorf("%w: %s: %w", domain.ErrUnresolvableHost, host.Hostname, err)
		}
		return fail(err)
	}

	addr, err := cidr.ParseAddr(address)
	if err != nil {
		return fail(fmt.Errorf("%s resolved to %q: %w", host.Hostname, address, err))
	}

	var matched []domain.Route
	for _, rp := range prefixes {
		if rp.prefix.Contains(addr) {
			matched = append(matched, rp.route)
		}
	}
	if len(matched) == 0 {
		log.WithField(logfields.Address, address).Debug("No legacy route matches")
		return hostSlot{}
	}

	log.WithFields(logrus.Fields{
		logfields.Address: address,
		logfields.Count:   len(matched),
	}).Info("Host still routed through legacy routes")

	return hostSlot{match: &domain.MatchResult{
		ProjectID:     host.ProjectID,
		ComponentID:   host.ComponentID,
		ConfigID:      host.ConfigID,
		Hostname:      host.Hostname,
		Address:       address,
		MatchedRoutes: matched,
	}}
}
