package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
)

type fakeSTS struct {
	calls       []sts.AssumeRoleInput
	expiration  time.Time
	err         error
	identityErr error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/operator"),
	}, nil
}

func (f *fakeSTS) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.calls = append(f.calls, *params)
	if f.err != nil {
		return nil, f.err
	}
	return &sts.AssumeRoleOutput{
		Credentials: &ststypes.Credentials{
			AccessKeyId:     aws.String("AKIAEXAMPLE"),
			SecretAccessKey: aws.String("secret"),
			SessionToken:    aws.String("token"),
			Expiration:      aws.Time(f.expiration),
		},
	}, nil
}

func newTestAccountContext(fake *fakeSTS, pattern string) *AccountContext {
	a := NewAccountContext(aws.Config{Region: "eu-west-1"}, pattern)
	a.stsClient = fake
	return a
}

func TestNewAccountContext_DefaultPattern(t *testing.T) {
	a := NewAccountContext(aws.Config{}, "")

	if a.roleARNPattern != defaultRoleARNPattern {
		t.Errorf("expected default pattern, got %s", a.roleARNPattern)
	}
}

func TestAssumeRole(t *testing.T) {
	fake := &fakeSTS{expiration: time.Now().Add(time.Hour)}
	a := newTestAccountContext(fake, "arn:aws:iam::%s:role/Ops")

	creds, err := a.AssumeRole(context.Background(), "111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creds.AccessKeyID != "AKIAEXAMPLE" || creds.SessionToken != "token" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 AssumeRole call, got %d", len(fake.calls))
	}
	if aws.ToString(fake.calls[0].RoleArn) != "arn:aws:iam::111111111111:role/Ops" {
		t.Errorf("unexpected role ARN %s", aws.ToString(fake.calls[0].RoleArn))
	}
	if aws.ToString(fake.calls[0].RoleSessionName) != "routeshift-111111111111" {
		t.Errorf("unexpected session name %s", aws.ToString(fake.calls[0].RoleSessionName))
	}
}

func TestAssumeRole_CachesUntilNearExpiry(t *testing.T) {
	fake := &fakeSTS{expiration: time.Now().Add(time.Hour)}
	a := newTestAccountContext(fake, "")

	for i := 0; i < 3; i++ {
		if _, err := a.AssumeRole(context.Background(), "111111111111"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(fake.calls) != 1 {
		t.Errorf("expected cached credentials, got %d AssumeRole calls", len(fake.calls))
	}

	fake.expiration = time.Now().Add(time.Minute)
	a.credentialCache["222222222222"] = credentialEntry{expiration: time.Now().Add(time.Minute)}
	if _, err := a.AssumeRole(context.Background(), "222222222222"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Errorf("expected refresh of near-expiry credentials, got %d calls", len(fake.calls))
	}
}

func TestAssumeRole_Error(t *testing.T) {
	fake := &fakeSTS{err: errors.New("AccessDenied")}
	a := newTestAccountContext(fake, "")

	_, err := a.AssumeRole(context.Background(), "111111111111")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fake.err) {
		t.Errorf("expected wrapped STS error, got %v", err)
	}
}

func TestGetClient_BaseAccount(t *testing.T) {
	fake := &fakeSTS{}
	a := newTestAccountContext(fake, "")

	c1, err := a.GetClient(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2, err := a.GetClient(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c1 != c2 {
		t.Error("expected pooled client for the base account")
	}
	if len(fake.calls) != 0 {
		t.Errorf("base account should not assume a role, got %d calls", len(fake.calls))
	}
}

func TestGetClient_AssumedAccount(t *testing.T) {
	fake := &fakeSTS{expiration: time.Now().Add(time.Hour)}
	a := newTestAccountContext(fake, "")

	client, err := a.client(context.Background(), "111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.AccountID() != "111111111111" {
		t.Errorf("expected account 111111111111, got %s", client.AccountID())
	}
	if client.Region() != "eu-west-1" {
		t.Errorf("expected region from base config, got %s", client.Region())
	}

	if _, err := a.client(context.Background(), "111111111111"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Errorf("expected pooled client reuse, got %d AssumeRole calls", len(fake.calls))
	}
}

func TestGetClient_RefreshesRoleCredentials(t *testing.T) {
	fake := &fakeSTS{expiration: time.Now().Add(time.Minute)}
	a := newTestAccountContext(fake, "arn:aws:iam::%s:role/Ops")
	ctx := context.Background()

	client, err := a.client(ctx, "111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 AssumeRole call, got %d", len(fake.calls))
	}
	if aws.ToString(fake.calls[0].RoleSessionName) != "routeshift-111111111111" {
		t.Errorf("unexpected session name %s", aws.ToString(fake.calls[0].RoleSessionName))
	}

	provider := client.ec2Client.(*ec2.Client).Options().Credentials

	// The first session is inside the refresh window, so the next request
	// assumes the role again.
	fake.expiration = time.Now().Add(time.Hour)
	creds, err := provider.Retrieve(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.SessionToken != "token" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected refresh of near-expiry session, got %d AssumeRole calls", len(fake.calls))
	}

	if _, err := provider.Retrieve(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Errorf("expected fresh session to be reused, got %d AssumeRole calls", len(fake.calls))
	}
}

func TestGetClient_AssumeRoleError(t *testing.T) {
	fake := &fakeSTS{err: errors.New("AccessDenied")}
	a := newTestAccountContext(fake, "")

	if _, err := a.GetClient(context.Background(), "111111111111"); !errors.Is(err, fake.err) {
		t.Fatalf("expected wrapped STS error, got %v", err)
	}
	if len(a.clientPool) != 0 {
		t.Error("failed client should not be pooled")
	}
}

func TestCallerIdentity(t *testing.T) {
	a := newTestAccountContext(&fakeSTS{}, "")

	account, arn, err := a.CallerIdentity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account != "123456789012" || arn != "arn:aws:iam::123456789012:user/operator" {
		t.Errorf("unexpected identity: %s %s", account, arn)
	}
}

func TestCallerIdentity_Error(t *testing.T) {
	cause := errors.New("ExpiredToken")
	a := newTestAccountContext(&fakeSTS{identityErr: cause}, "")

	if _, _, err := a.CallerIdentity(context.Background()); !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}
