package aws

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/ratelimit"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/eleven-am/routeshift/internal/domain"
)

const defaultMaxAttempts = 5

// ec2API is the subset of the EC2 client used here.
type ec2API interface {
	CreateRoute(ctx context.Context, params *ec2.CreateRouteInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error)
	DescribeRouteTables(ctx context.Context, params *ec2.DescribeRouteTablesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRouteTablesOutput, error)
	DescribeNetworkInterfaces(ctx context.Context, params *ec2.DescribeNetworkInterfacesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeNetworkInterfacesOutput, error)
}

type Client struct {
	ec2Client  ec2API
	accountID  string
	region     string
	routeTable *ttlCache[*domain.RouteTableData]
	eni        *ttlCache[*domain.ENIData]
}

func newRetryer(maxAttempts int) aws.Retryer {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxAttempts
		o.MaxBackoff = 30 * time.Second
		o.Backoff = retry.NewExponentialJitterBackoff(o.MaxBackoff)
		o.RateLimiter = ratelimit.None
	})
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	maxAttempts int
	cacheTTL    time.Duration
}

// WithMaxAttempts bounds SDK-level retries for every EC2 call.
func WithMaxAttempts(n int) ClientOption {
	return func(o *clientOptions) { o.maxAttempts = n }
}

func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(o *clientOptions) { o.cacheTTL = ttl }
}

func NewClient(cfg aws.Config, accountID, region string, opts ...ClientOption) *Client {
	o := clientOptions{maxAttempts: defaultMaxAttempts, cacheTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(&o)
	}
	retryer := newRetryer(o.maxAttempts)
	return &Client{
		ec2Client: ec2.NewFromConfig(cfg, func(eo *ec2.Options) {
			eo.Retryer = retryer
			if region != "" {
				eo.Region = region
			}
		}),
		accountID:  accountID,
		region:     region,
		routeTable: newTTLCache[*domain.RouteTableData](o.cacheTTL, 500),
		eni:        newTTLCache[*domain.ENIData](o.cacheTTL, 500),
	}
}

func (c *Client) AccountID() string {
	return c.accountID
}

func (c *Client) Region() string {
	return c.region
}

func (c *Client) cacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}
