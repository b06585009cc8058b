package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/eleven-am/routeshift/internal/domain"
)

type fakeNetworkClient struct {
	mu          sync.Mutex
	created     []string
	createErrs  map[string]error
	routeTables map[string]*domain.RouteTableData
	enis        map[string]*domain.ENIData
}

func newFakeNetworkClient() *fakeNetworkClient {
	return &fakeNetworkClient{
		createErrs:  make(map[string]error),
		routeTables: make(map[string]*domain.RouteTableData),
		enis:        make(map[string]*domain.ENIData),
	}
}

func (f *fakeNetworkClient) CreateRoute(ctx context.Context, routeTableID, destinationCIDR, networkInterfaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := routeTableID + "|" + destinationCIDR + "|" + networkInterfaceID
	f.created = append(f.created, key)
	return f.createErrs[routeTableID+"|"+destinationCIDR]
}

func (f *fakeNetworkClient) GetRouteTable(ctx context.Context, rtID string) (*domain.RouteTableData, error) {
	if rt, ok := f.routeTables[rtID]; ok {
		return rt, nil
	}
	return nil, fmt.Errorf("route table %s not found", rtID)
}

func (f *fakeNetworkClient) GetNetworkInterface(ctx context.Context, eniID string) (*domain.ENIData, error) {
	if eni, ok := f.enis[eniID]; ok {
		return eni, nil
	}
	return nil, fmt.Errorf("network interface %s not found", eniID)
}

type fakeResolver struct {
	answers map[string]string
}

func (f *fakeResolver) LookupIPv4(ctx context.Context, hostname string) (string, error) {
	if addr, ok := f.answers[hostname]; ok {
		return addr, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnresolvableHost, hostname)
}

type recordedClientRequest struct {
	region string
	opts   AWSOptions
}

type testDeps struct {
	client    *fakeNetworkClient
	clientErr error
	requests  []recordedClientRequest

	resolver     *fakeResolver
	resolverOpts []ResolverOptions
}

func (d *testDeps) newNetworkClient(ctx context.Context, region string, opts AWSOptions, log logrus.FieldLogger) (domain.NetworkClient, error) {
	d.requests = append(d.requests, recordedClientRequest{region: region, opts: opts})
	if d.clientErr != nil {
		return nil, d.clientErr
	}
	return d.client, nil
}

func (d *testDeps) newResolver(opts ResolverOptions) (domain.Resolver, error) {
	d.resolverOpts = append(d.resolverOpts, opts)
	return d.resolver, nil
}
