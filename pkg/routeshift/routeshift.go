package routeshift

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"

	"github.com/eleven-am/routeshift/internal/applier"
	internalaws "github.com/eleven-am/routeshift/internal/aws"
	"github.com/eleven-am/routeshift/internal/auditor"
	"github.com/eleven-am/routeshift/internal/cidr"
	"github.com/eleven-am/routeshift/internal/document"
	"github.com/eleven-am/routeshift/internal/resolver"
)

// NewAccountContext creates an account context handing out EC2 clients.
// The roleARNPattern should contain %s as a placeholder for the account ID.
// Example: "arn:aws:iam::%s:role/RouteShiftOperatorRole"
// GetClient with an empty account ID uses cfg as is.
func NewAccountContext(cfg aws.Config, roleARNPattern string) *AccountContext {
	return internalaws.NewAccountContext(cfg, roleARNPattern)
}

// Matches reports whether an IPv4 address lies inside an IPv4 CIDR. Both the
// address and the network are masked to the prefix length, so a /0 matches
// every address and a /32 matches only itself.
func Matches(address, cidrBlock string) (bool, error) {
	return cidr.Matches(address, cidrBlock)
}

// Options tune ApplyRoutes and FindLegacyHosts.
type Options struct {
	// Concurrency bounds the number of requests in flight. Zero means one.
	Concurrency int
	// Logger receives per-item failures. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// OnOutcome, when set, is called as each route creation completes.
	OnOutcome func(RouteOutcome)
}

// ApplyRoutes creates every route in every table, all targeting targetENI.
// A failed creation is recorded in the result and never stops the others.
// Outcomes are ordered by table, then route, whatever the concurrency.
func ApplyRoutes(ctx context.Context, creator RouteCreator, tables []string, routes []Route, targetENI string, opts Options) ApplyResult {
	return applier.New(creator,
		applier.WithConcurrency(opts.Concurrency),
		applier.WithLogger(opts.Logger),
		applier.WithOutcomeFunc(opts.OnOutcome),
	).Apply(ctx, tables, routes, targetENI)
}

// FindLegacyHosts resolves each host and returns those whose address is
// covered by at least one route. An invalid route CIDR is returned as an
// error before any host is resolved; hosts that fail to resolve are listed
// in AuditReport.Failures.
func FindLegacyHosts(ctx context.Context, r Resolver, hosts []HostRecord, routes []Route, opts Options) (AuditReport, error) {
	return auditor.New(r,
		auditor.WithConcurrency(opts.Concurrency),
		auditor.WithLogger(opts.Logger),
	).Audit(ctx, hosts, routes)
}

// DryRunCreator records creation requests instead of sending them.
type DryRunCreator = applier.DryRunCreator

func NewDryRunCreator() *DryRunCreator {
	return applier.NewDryRunCreator()
}

// NewDNSResolver queries A records against the given nameservers in order.
// A server without a port uses 53.
func NewDNSResolver(servers []string, timeout time.Duration) Resolver {
	return resolver.NewDNSResolver(servers, timeout)
}

// NewDNSResolverFromConfig reads nameservers from a resolv.conf file.
func NewDNSResolverFromConfig(path string, timeout time.Duration) (Resolver, error) {
	r, err := resolver.NewDNSResolverFromConfig(path, timeout)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewSystemResolver uses the operating system resolver.
func NewSystemResolver() Resolver {
	return resolver.NewSystemResolver()
}

func LoadRoutes(r io.Reader) ([]Route, error) {
	return document.LoadRoutes(r)
}

func LoadRoutesFile(path string) ([]Route, error) {
	return document.LoadRoutesFile(path)
}

func WriteRoutes(w io.Writer, routes []Route) error {
	return document.WriteRoutes(w, routes)
}

func LoadHosts(r io.Reader) ([]HostRecord, error) {
	return document.LoadHosts(r)
}

func LoadHostsFile(path string) ([]HostRecord, error) {
	return document.LoadHostsFile(path)
}

func WriteMatches(w io.Writer, matches []MatchResult) error {
	return document.WriteMatches(w, matches)
}
