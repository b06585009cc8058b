package aws

import (
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/eleven-am/routeshift/internal/domain"
)

func toRouteTableData(rt *ec2types.RouteTable) *domain.RouteTableData {
	data := &domain.RouteTableData{
		ID:    derefString(rt.RouteTableId),
		VPCID: derefString(rt.VpcId),
	}
	for _, r := range rt.Routes {
		// IPv6 and prefix-list routes have no place in the route document.
		if r.DestinationCidrBlock == nil {
			continue
		}
		data.Routes = append(data.Routes, domain.RouteTableRoute{
			DestinationCIDR:    *r.DestinationCidrBlock,
			NetworkInterfaceID: derefString(r.NetworkInterfaceId),
			GatewayID:          derefString(r.GatewayId),
			Origin:             string(r.Origin),
			State:              string(r.State),
		})
	}
	return data
}

func toENIData(eni *ec2types.NetworkInterface) *domain.ENIData {
	return &domain.ENIData{
		ID:        derefString(eni.NetworkInterfaceId),
		VPCID:     derefString(eni.VpcId),
		SubnetID:  derefString(eni.SubnetId),
		PrivateIP: derefString(eni.PrivateIpAddress),
		Status:    string(eni.Status),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
