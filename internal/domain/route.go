package domain

type RouteTableID = string

// Route is a destination CIDR loaded from the route source document.
// TargetInterfaceID is informational; the applier always targets the ENI
// given on the command line.
type Route struct {
	DestinationCIDR   string
	TargetInterfaceID string
}

type HostRecord struct {
	ProjectID   string
	ComponentID string
	ConfigID    string
	Hostname    string
}

// MatchResult is emitted once per host that still resolves into at least
// one route. MatchedRoutes keeps route input order.
type MatchResult struct {
	ProjectID     string
	ComponentID   string
	ConfigID      string
	Hostname      string
	Address       string
	MatchedRoutes []Route
}

func (m MatchResult) MatchedCIDRs() []string {
	cidrs := make([]string, 0, len(m.MatchedRoutes))
	for _, r := range m.MatchedRoutes {
		cidrs = append(cidrs, r.DestinationCIDR)
	}
	return cidrs
}

// RouteTableRoute is a route as currently installed in a route table.
type RouteTableRoute struct {
	DestinationCIDR    string
	NetworkInterfaceID string
	GatewayID          string
	Origin             string
	State              string
}

type RouteTableData struct {
	ID     string
	VPCID  string
	Routes []RouteTableRoute
}

type ENIData struct {
	ID        string
	VPCID     string
	SubnetID  string
	PrivateIP string
	Status    string
}
