package applier

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/routeshift/internal/aws"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
)

const DefaultConcurrency = 1

// OutcomeFunc is called once per creation request as it completes. Calls
// are serialized but, with concurrency above one, not in input order.
type OutcomeFunc func(domain.RouteOutcome)

type Applier struct {
	creator     domain.RouteCreator
	concurrency int
	log         logrus.FieldLogger
	onOutcome   OutcomeFunc
}

type Option func(*Applier)

func WithConcurrency(n int) Option {
	return func(a *Applier) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Applier) {
		if log != nil {
			a.log = log
		}
	}
}

func WithOutcomeFunc(fn OutcomeFunc) Option {
	return func(a *Applier) {
		a.onOutcome = fn
	}
}

func New(creator domain.RouteCreator, opts ...Option) *Applier {
	a := &Applier{
		creator:     creator,
		concurrency: DefaultConcurrency,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply issues one creation request per (table, route) pair, pointing every
// route at targetENI. Failures are recorded and never stop the remaining
// requests. Outcomes are ordered by table, then route.
func (a *Applier) Apply(ctx context.Context, tables []domain.RouteTableID, routes []domain.Route, targetENI string) domain.ApplyResult {
	outcomes := make([]domain.RouteOutcome, len(tables)*len(routes))
	var mu sync.Mutex

	report := func(o domain.RouteOutcome) {
		if a.onOutcome == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		a.onOutcome(o)
	}

	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for t, table := range tables {
		for r, route := range routes {
			idx := t*len(routes) + r
			outcomes[idx] = domain.RouteOutcome{TableID: table, Route: route}

			g.Go(func() error {
				outcome := &outcomes[idx]
				if err := ctx.Err(); err != nil {
					outcome.Err = a.failure(table, route, targetENI, err)
				} else if err := a.creator.CreateRoute(ctx, table, route.DestinationCIDR, targetENI); err != nil {
					outcome.Err = a.failure(table, route, targetENI, err)
				} else {
					a.log.WithFields(logrus.Fields{
						logfields.RouteTable: table,
						logfields.CIDR:       route.DestinationCIDR,
						logfields.Interface:  targetENI,
					}).Debug("Route created")
				}
				report(*outcome)
				return nil
			})
		}
	}
	_ = g.Wait()

	result := domain.ApplyResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err == nil {
			result.Succeeded++
		}
	}
	return result
}

func (a *Applier) failure(table domain.RouteTableID, route domain.Route, targetENI string, cause error) error {
	fields := logrus.Fields{
		logfields.RouteTable: table,
		logfields.CIDR:       route.DestinationCIDR,
		logfields.Interface:  targetENI,
	}
	if code := aws.APIErrorCode(cause); code != "" {
		fields[logfields.ErrorCode] = code
	}
	a.log.WithFields(fields).WithError(cause).Warn("Route creation failed")
	return fmt.Errorf("%w: %s -> %s in %s: %w", domain.ErrRouteCreationFailed, route.DestinationCIDR, targetENI, table, cause)
}
