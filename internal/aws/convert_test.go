package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

func TestToRouteTableData(t *testing.T) {
	rt := &ec2types.RouteTable{
		RouteTableId: aws.String("rtb-123"),
		VpcId:        aws.String("vpc-abc"),
		Routes: []ec2types.Route{
			{
				DestinationCidrBlock: aws.String("10.0.0.0/16"),
				GatewayId:            aws.String("local"),
				Origin:               ec2types.RouteOriginCreateRouteTable,
				State:                ec2types.RouteStateActive,
			},
			{
				DestinationCidrBlock: aws.String("192.168.0.0/16"),
				NetworkInterfaceId:   aws.String("eni-legacy"),
				Origin:               ec2types.RouteOriginCreateRoute,
				State:                ec2types.RouteStateBlackhole,
			},
			{
				DestinationPrefixListId: aws.String("pl-123"),
				GatewayId:               aws.String("vpce-1"),
			},
		},
	}

	result := toRouteTableData(rt)

	if result.ID != "rtb-123" {
		t.Errorf("expected ID rtb-123, got %s", result.ID)
	}
	if result.VPCID != "vpc-abc" {
		t.Errorf("expected VPCID vpc-abc, got %s", result.VPCID)
	}
	if len(result.Routes) != 2 {
		t.Fatalf("expected prefix-list route to be skipped, got %d routes", len(result.Routes))
	}

	local := result.Routes[0]
	if local.GatewayID != "local" || local.Origin != "CreateRouteTable" || local.State != "active" {
		t.Errorf("unexpected local route: %+v", local)
	}

	legacy := result.Routes[1]
	if legacy.DestinationCIDR != "192.168.0.0/16" {
		t.Errorf("expected 192.168.0.0/16, got %s", legacy.DestinationCIDR)
	}
	if legacy.NetworkInterfaceID != "eni-legacy" {
		t.Errorf("expected eni-legacy, got %s", legacy.NetworkInterfaceID)
	}
	if legacy.State != "blackhole" {
		t.Errorf("expected blackhole, got %s", legacy.State)
	}
}

func TestToRouteTableData_Empty(t *testing.T) {
	result := toRouteTableData(&ec2types.RouteTable{})

	if result.ID != "" || result.VPCID != "" {
		t.Errorf("expected empty identity, got %+v", result)
	}
	if len(result.Routes) != 0 {
		t.Errorf("expected no routes, got %d", len(result.Routes))
	}
}

func TestToENIData(t *testing.T) {
	eni := &ec2types.NetworkInterface{
		NetworkInterfaceId: aws.String("eni-1"),
		VpcId:              aws.String("vpc-1"),
		SubnetId:           aws.String("subnet-1"),
		PrivateIpAddress:   aws.String("10.0.0.10"),
		Status:             ec2types.NetworkInterfaceStatusAvailable,
	}

	result := toENIData(eni)

	if result.ID != "eni-1" || result.VPCID != "vpc-1" || result.SubnetID != "subnet-1" {
		t.Errorf("unexpected identity: %+v", result)
	}
	if result.PrivateIP != "10.0.0.10" {
		t.Errorf("expected 10.0.0.10, got %s", result.PrivateIP)
	}
	if result.Status != "available" {
		t.Errorf("expected available, got %s", result.Status)
	}
}

func TestDerefString(t *testing.T) {
	if derefString(nil) != "" {
		t.Error("expected empty string for nil")
	}
	if derefString(aws.String("x")) != "x" {
		t.Error("expected x")
	}
}
