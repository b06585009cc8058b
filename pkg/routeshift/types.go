package routeshift

import (
	internalaws "github.com/eleven-am/routeshift/internal/aws"
	"github.com/eleven-am/routeshift/internal/domain"
)

type AccountContext = internalaws.AccountContext

type Route = domain.Route

type HostRecord = domain.HostRecord

type MatchResult = domain.MatchResult

type RouteOutcome = domain.RouteOutcome

type ApplyResult = domain.ApplyResult

type HostFailure = domain.HostFailure

type AuditReport = domain.AuditReport

type RouteTableData = domain.RouteTableData

type RouteTableRoute = domain.RouteTableRoute

type ENIData = domain.ENIData

// RouteCreator is satisfied by the EC2 client returned from
// AccountContext.GetClient and by DryRunCreator.
type RouteCreator = domain.RouteCreator

type NetworkClient = domain.NetworkClient

// Resolver maps a hostname to a dotted-quad IPv4 address.
type Resolver = domain.Resolver

var (
	ErrInvalidCIDR            = domain.ErrInvalidCIDR
	ErrInvalidAddress         = domain.ErrInvalidAddress
	ErrUnresolvableHost       = domain.ErrUnresolvableHost
	ErrRouteCreationFailed    = domain.ErrRouteCreationFailed
	ErrRouteAlreadyExists     = domain.ErrRouteAlreadyExists
	ErrMalformedInputDocument = domain.ErrMalformedInputDocument
)
