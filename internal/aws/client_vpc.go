package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/eleven-am/routeshift/internal/domain"
)

const errCodeRouteAlreadyExists = "RouteAlreadyExists"

func (c *Client) CreateRoute(ctx context.Context, routeTableID, destinationCIDR, networkInterfaceID string) error {
	_, err := c.ec2Client.CreateRoute(ctx, &ec2.CreateRouteInput{
		RouteTableId:         aws.String(routeTableID),
		DestinationCidrBlock: aws.String(destinationCIDR),
		NetworkInterfaceId:   aws.String(networkInterfaceID),
	})
	if err != nil {
		if APIErrorCode(err) == errCodeRouteAlreadyExists {
			return fmt.Errorf("create route %s in %s: %w: %w", destinationCIDR, routeTableID, domain.ErrRouteAlreadyExists, err)
		}
		return fmt.Errorf("create route %s in %s: %w", destinationCIDR, routeTableID, err)
	}
	c.routeTable.invalidate(c.cacheKey("rt", routeTableID))
	return nil
}

func (c *Client) GetRouteTable(ctx context.Context, rtID string) (*domain.RouteTableData, error) {
	key := c.cacheKey("rt", rtID)
	if v, ok := c.routeTable.get(key); ok {
		return v, nil
	}
	pages := ec2.NewDescribeRouteTablesPaginator(c.ec2Client, &ec2.DescribeRouteTablesInput{
		RouteTableIds: []string{rtID},
	})
	tables, err := collectPages(ctx, pages, func(out *ec2.DescribeRouteTablesOutput) []ec2types.RouteTable {
		return out.RouteTables
	})
	if err != nil {
		return nil, fmt.Errorf("describe route table %s: %w", rtID, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("route table %s not found", rtID)
	}
	data := toRouteTableData(&tables[0])
	c.routeTable.set(key, data)
	return data, nil
}

func (c *Client) GetNetworkInterface(ctx context.Context, eniID string) (*domain.ENIData, error) {
	key := c.cacheKey("eni", eniID)
	if v, ok := c.eni.get(key); ok {
		return v, nil
	}
	out, err := c.ec2Client.DescribeNetworkInterfaces(ctx, &ec2.DescribeNetworkInterfacesInput{
		NetworkInterfaceIds: []string{eniID},
	})
	if err != nil {
		return nil, fmt.Errorf("describe network interface %s: %w", eniID, err)
	}
	if len(out.NetworkInterfaces) == 0 {
		return nil, fmt.Errorf("network interface %s not found", eniID)
	}
	data := toENIData(&out.NetworkInterfaces[0])
	c.eni.set(key, data)
	return data, nil
}

// APIErrorCode returns the AWS error code carried by err, or "".
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
