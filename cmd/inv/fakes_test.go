package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/identity"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/inventory"
)

// ── AWS provider mock ─────────────────────────────────────────────────────────

type mockAWSProvider struct {
	profileErr  error
	accountID   string
	accountErr  error
	lastProfile string   // profile name passed to LoadProfile
	regionCalls []string // regions passed to ConfigForRegion
}

func (m *mockAWSProvider) LoadProfile(_ context.Context, profile string) (*common.ProfileConfig, error) {
	m.lastProfile = profile
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	name := profile
	if name == "" {
		name = "default"
	}
	return &common.ProfileConfig{
		ProfileName: name,
		Region:      "us-east-1",
		Config:      aws.Config{Region: "us-east-1"},
	}, nil
}

func (m *mockAWSProvider) ResolveAccountID(_ context.Context, cfg *common.ProfileConfig) (string, error) {
	if m.accountErr != nil {
		return "", m.accountErr
	}
	cfg.AccountID = m.accountID
	return m.accountID, nil
}

func (m *mockAWSProvider) ConfigForRegion(cfg *common.ProfileConfig, region string) aws.Config {
	m.regionCalls = append(m.regionCalls, region)
	c := cfg.Config.Copy()
	c.Region = region
	return c
}

func goodMockAWS() *mockAWSProvider {
	return &mockAWSProvider{accountID: "123456789012"}
}

func accessDenied() error {
	return &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized"}
}

// ── region discovery ──────────────────────────────────────────────────────────

type fakeRegions struct {
	names []string
	err   error
}

func (f *fakeRegions) DescribeRegions(_ context.Context, _ *ec2svc.DescribeRegionsInput, _ ...func(*ec2svc.Options)) (*ec2svc.DescribeRegionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ec2svc.DescribeRegionsOutput{}
	for _, n := range f.names {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: aws.String(n)})
	}
	return out, nil
}

func regionFactory(f *fakeRegions) common.ClientFactory {
	return func(aws.Config) *common.ClientSet { return &common.ClientSet{EC2: f} }
}

// ── inventory clients ─────────────────────────────────────────────────────────

// fakeAccount is a tiny single-page AWS account keyed by region.
type fakeAccount struct {
	instances map[string][]ec2types.Instance
	ec2Errs   map[string]error
	buckets   map[string]s3types.BucketLocationConstraint // bucket → constraint
	order     []string                                    // bucket listing order
	tagged    map[string][]taggingtypes.ResourceTagMapping
}

func (a *fakeAccount) factory() inventory.ClientFactory {
	return func(cfg aws.Config) *inventory.Clients {
		return &inventory.Clients{
			EC2:     &fakeEC2{instances: a.instances[cfg.Region], err: a.ec2Errs[cfg.Region]},
			S3:      &fakeS3{account: a},
			Tagging: &fakeTagging{mappings: a.tagged[cfg.Region]},
		}
	}
}

type fakeEC2 struct {
	instances []ec2types.Instance
	err       error
}

func (f *fakeEC2) DescribeInstances(_ context.Context, _ *ec2svc.DescribeInstancesInput, _ ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ec2svc.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: f.instances}},
	}, nil
}

type fakeS3 struct {
	account *fakeAccount
}

func (f *fakeS3) ListBuckets(_ context.Context, _ *s3svc.ListBucketsInput, _ ...func(*s3svc.Options)) (*s3svc.ListBucketsOutput, error) {
	out := &s3svc.ListBucketsOutput{}
	for _, name := range f.account.order {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) GetBucketLocation(_ context.Context, in *s3svc.GetBucketLocationInput, _ ...func(*s3svc.Options)) (*s3svc.GetBucketLocationOutput, error) {
	c, ok := f.account.buckets[aws.ToString(in.Bucket)]
	if !ok {
		return nil, accessDenied()
	}
	return &s3svc.GetBucketLocationOutput{LocationConstraint: c}, nil
}

type fakeTagging struct {
	mappings []taggingtypes.ResourceTagMapping
}

func (f *fakeTagging) GetResources(_ context.Context, _ *tagging.GetResourcesInput, _ ...func(*tagging.Options)) (*tagging.GetResourcesOutput, error) {
	return &tagging.GetResourcesOutput{ResourceTagMappingList: f.mappings}, nil
}

func instance(id string, state ec2types.InstanceStateName) ec2types.Instance {
	return ec2types.Instance{
		InstanceId: aws.String(id),
		State:      &ec2types.InstanceState{Name: state},
	}
}

// ── identity clients ──────────────────────────────────────────────────────────

type fakeSTS struct {
	arn string
	err error
}

func (f *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String(f.arn),
		UserId:  aws.String("AROAEXAMPLE:session"),
	}, nil
}

// fakeIAM answers single-page listings and policy reads. documents is keyed
// by policy ARN; a missing ARN fails GetPolicy.
type fakeIAM struct {
	rolePolicies []iamtypes.AttachedPolicy
	documents    map[string]string
}

func (f *fakeIAM) ListAttachedUserPolicies(context.Context, *iamsvc.ListAttachedUserPoliciesInput, ...func(*iamsvc.Options)) (*iamsvc.ListAttachedUserPoliciesOutput, error) {
	return &iamsvc.ListAttachedUserPoliciesOutput{}, nil
}

func (f *fakeIAM) ListGroupsForUser(context.Context, *iamsvc.ListGroupsForUserInput, ...func(*iamsvc.Options)) (*iamsvc.ListGroupsForUserOutput, error) {
	return &iamsvc.ListGroupsForUserOutput{}, nil
}

func (f *fakeIAM) ListAttachedGroupPolicies(context.Context, *iamsvc.ListAttachedGroupPoliciesInput, ...func(*iamsvc.Options)) (*iamsvc.ListAttachedGroupPoliciesOutput, error) {
	return &iamsvc.ListAttachedGroupPoliciesOutput{}, nil
}

func (f *fakeIAM) ListAttachedRolePolicies(context.Context, *iamsvc.ListAttachedRolePoliciesInput, ...func(*iamsvc.Options)) (*iamsvc.ListAttachedRolePoliciesOutput, error) {
	return &iamsvc.ListAttachedRolePoliciesOutput{AttachedPolicies: f.rolePolicies}, nil
}

func (f *fakeIAM) GetPolicy(_ context.Context, in *iamsvc.GetPolicyInput, _ ...func(*iamsvc.Options)) (*iamsvc.GetPolicyOutput, error) {
	arn := aws.ToString(in.PolicyArn)
	if _, ok := f.documents[arn]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchEntity", Message: "policy not found"}
	}
	return &iamsvc.GetPolicyOutput{Policy: &iamtypes.Policy{
		Arn:              aws.String(arn),
		PolicyName:       aws.String(arn[strings.LastIndex(arn, "/")+1:]),
		DefaultVersionId: aws.String("v3"),
	}}, nil
}

func (f *fakeIAM) GetPolicyVersion(_ context.Context, in *iamsvc.GetPolicyVersionInput, _ ...func(*iamsvc.Options)) (*iamsvc.GetPolicyVersionOutput, error) {
	doc, ok := f.documents[aws.ToString(in.PolicyArn)]
	if !ok {
		return nil, errors.New("unexpected GetPolicyVersion")
	}
	return &iamsvc.GetPolicyVersionOutput{PolicyVersion: &iamtypes.PolicyVersion{
		Document:  aws.String(doc),
		VersionId: in.VersionId,
	}}, nil
}

func identityFactory(s *fakeSTS, i *fakeIAM) identity.ClientFactory {
	return func(aws.Config) *identity.Clients { return &identity.Clients{STS: s, IAM: i} }
}

// ── helpers ───────────────────────────────────────────────────────────────────

// isolate points HOME at an empty directory so no config file is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

// runCLI executes the root command built over a with args and returns stdout.
// Logs are discarded unless a.logOut is set.
func runCLI(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a.logOut == nil {
		a.logOut = io.Discard
	}
	root := newRootCmdWith(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
