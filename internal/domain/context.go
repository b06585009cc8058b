package domain

import (
	"context"
	"time"
)

type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

type AccountContext interface {
	AssumeRole(ctx context.Context, accountID string) (AWSCredentials, error)
	GetClient(ctx context.Context, accountID string) (NetworkClient, error)
}

// RouteCreator is the only capability the applier needs.
type RouteCreator interface {
	CreateRoute(ctx context.Context, routeTableID, destinationCIDR, networkInterfaceID string) error
}

type NetworkClient interface {
	RouteCreator
	GetRouteTable(ctx context.Context, rtID string) (*RouteTableData, error)
	GetNetworkInterface(ctx context.Context, eniID string) (*ENIData, error)
}

// Resolver turns a hostname into an IPv4 address in dotted-quad form.
type Resolver interface {
	LookupIPv4(ctx context.Context, hostname string) (string, error)
}
