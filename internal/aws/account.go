package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/eleven-am/routeshift/internal/domain"
)

const (
	defaultRoleARNPattern = "arn:aws:iam::%s:role/RouteShiftOperatorRole"
	credentialRefreshSkew = 5 * time.Minute
	roleSessionDuration   = time.Hour
)

var (
	_ domain.AccountContext = (*AccountContext)(nil)
	_ domain.NetworkClient  = (*Client)(nil)
)

type stsAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type credentialEntry struct {
	creds      domain.AWSCredentials
	expiration time.Time
}

// AccountContext hands out EC2 clients for a target account. An empty
// account ID uses the base configuration without assuming a role.
type AccountContext struct {
	baseConfig      aws.Config
	roleARNPattern  string
	clientOpts      []ClientOption
	stsClient       stsAPI
	credentialCache map[string]credentialEntry
	clientPool      map[string]*Client
	mu              sync.RWMutex
}

func NewAccountContext(cfg aws.Config, roleARNPattern string, opts ...ClientOption) *AccountContext {
	if roleARNPattern == "" {
		roleARNPattern = defaultRoleARNPattern
	}
	return &AccountContext{
		baseConfig:      cfg,
		roleARNPattern:  roleARNPattern,
		clientOpts:      opts,
		stsClient:       sts.NewFromConfig(cfg),
		credentialCache: make(map[string]credentialEntry),
		clientPool:      make(map[string]*Client),
	}
}

func (a *AccountContext) AssumeRole(ctx context.Context, accountID string) (domain.AWSCredentials, error) {
	a.mu.RLock()
	entry, exists := a.credentialCache[accountID]
	a.mu.RUnlock()

	if exists && time.Now().Add(credentialRefreshSkew).Before(entry.expiration) {
		return entry.creds, nil
	}

	roleARN := a.roleARN(accountID)
	out, err := a.stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(sessionName(accountID)),
		DurationSeconds: aws.Int32(int32(roleSessionDuration / time.Second)),
	})
	if err != nil {
		return domain.AWSCredentials{}, fmt.Errorf("assume role %s: %w", roleARN, err)
	}
	if out.Credentials == nil {
		return domain.AWSCredentials{}, fmt.Errorf("assume role %s: no credentials returned", roleARN)
	}

	creds := domain.AWSCredentials{
		AccessKeyID:     derefString(out.Credentials.AccessKeyId),
		SecretAccessKey: derefString(out.Credentials.SecretAccessKey),
		SessionToken:    derefString(out.Credentials.SessionToken),
	}
	if out.Credentials.Expiration != nil {
		creds.Expiration = *out.Credentials.Expiration
	}

	a.mu.Lock()
	a.credentialCache[accountID] = credentialEntry{
		creds:      creds,
		expiration: creds.Expiration,
	}
	a.mu.Unlock()

	return creds, nil
}

// CallerIdentity returns the account and ARN of the base credentials.
func (a *AccountContext) CallerIdentity(ctx context.Context) (account, arn string, err error) {
	out, err := a.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", "", fmt.Errorf("get caller identity: %w", err)
	}
	return derefString(out.Account), derefString(out.Arn), nil
}

func (a *AccountContext) GetClient(ctx context.Context, accountID string) (domain.NetworkClient, error) {
	return a.client(ctx, accountID)
}

func (a *AccountContext) client(ctx context.Context, accountID string) (*Client, error) {
	a.mu.RLock()
	client, exists := a.clientPool[accountID]
	a.mu.RUnlock()
	if exists {
		return client, nil
	}

	cfg := a.baseConfig.Copy()
	if accountID != "" {
		creds := a.roleCredentials(accountID)
		if _, err := creds.Retrieve(ctx); err != nil {
			return nil, fmt.Errorf("assume role %s: %w", a.roleARN(accountID), err)
		}
		cfg.Credentials = creds
	}

	client = NewClient(cfg, accountID, cfg.Region, a.clientOpts...)

	a.mu.Lock()
	if pooled, ok := a.clientPool[accountID]; ok {
		client = pooled
	} else {
		a.clientPool[accountID] = client
	}
	a.mu.Unlock()

	return client, nil
}

// roleCredentials assumes the account role on first use and again whenever
// the session comes within credentialRefreshSkew of expiry.
func (a *AccountContext) roleCredentials(accountID string) *aws.CredentialsCache {
	provider := stscreds.NewAssumeRoleProvider(a.stsClient, a.roleARN(accountID), func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = sessionName(accountID)
		o.Duration = roleSessionDuration
	})
	return aws.NewCredentialsCache(provider, func(o *aws.CredentialsCacheOptions) {
		o.ExpiryWindow = credentialRefreshSkew
	})
}

func (a *AccountContext) roleARN(accountID string) string {
	return fmt.Sprintf(a.roleARNPattern, accountID)
}

func sessionName(accountID string) string {
	return "routeshift-" + accountID
}
