package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// ---------------------------------------------------------------------------
// Narrow client interfaces
//
// Each interface lists only the SDK operations used by this package.
// The real *ec2.Client, *rds.Client, etc. satisfy these automatically, and
// each one also satisfies the SDK's own XxxAPIClient interface so the SDK v2
// paginators can drive it. Replace any field in Clients with a stub struct in
// unit tests.
// ---------------------------------------------------------------------------

// ec2APIClient covers DescribeInstances (ec2.DescribeInstancesAPIClient).
type ec2APIClient interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2svc.DescribeInstancesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeInstancesOutput, error)
}

// rdsAPIClient covers DescribeDBInstances (rds.DescribeDBInstancesAPIClient).
type rdsAPIClient interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

// s3APIClient covers bucket listing and the per-bucket location lookup.
type s3APIClient interface {
	ListBuckets(
		ctx context.Context,
		params *s3svc.ListBucketsInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.ListBucketsOutput, error)

	GetBucketLocation(
		ctx context.Context,
		params *s3svc.GetBucketLocationInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.GetBucketLocationOutput, error)
}

// taggingAPIClient covers GetResources (tagging.GetResourcesAPIClient).
type taggingAPIClient interface {
	GetResources(
		ctx context.Context,
		params *tagging.GetResourcesInput,
		optFns ...func(*tagging.Options),
	) (*tagging.GetResourcesOutput, error)
}

// elbAPIClient covers DescribeLoadBalancers
// (elbv2.DescribeLoadBalancersAPIClient).
type elbAPIClient interface {
	DescribeLoadBalancers(
		ctx context.Context,
		params *elbv2.DescribeLoadBalancersInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeLoadBalancersOutput, error)
}

// cloudWatchAPIClient covers DescribeAlarms (cloudwatch.DescribeAlarmsAPIClient).
type cloudWatchAPIClient interface {
	DescribeAlarms(
		ctx context.Context,
		params *cloudwatch.DescribeAlarmsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.DescribeAlarmsOutput, error)
}

// ---------------------------------------------------------------------------
// Clients and factory
// ---------------------------------------------------------------------------

// Clients holds the service clients for one region.
// All fields are interfaces; swap any with a stub in tests.
type Clients struct {
	EC2        ec2APIClient
	RDS        rdsAPIClient
	S3         s3APIClient
	Tagging    taggingAPIClient
	ELB        elbAPIClient
	CloudWatch cloudWatchAPIClient
}

// ClientFactory creates a Clients from a region-scoped aws.Config.
type ClientFactory func(cfg aws.Config) *Clients

// NewClients is the production ClientFactory. SDK clients are cheap to
// construct; the expensive part (credential resolution) is cached on cfg.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		EC2:        ec2svc.NewFromConfig(cfg),
		RDS:        rds.NewFromConfig(cfg),
		S3:         s3svc.NewFromConfig(cfg),
		Tagging:    tagging.NewFromConfig(cfg),
		ELB:        elbv2.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}
}
