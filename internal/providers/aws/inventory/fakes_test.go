package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ---------------------------------------------------------------------------
// Pagination helpers
//
// Fakes hand out pages addressed by opaque "page-N" tokens. The last page
// carries a nil token, which ends every SDK paginator.
// ---------------------------------------------------------------------------

func pageIndex(token *string) int {
	if token == nil || *token == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(*token, "page-"))
	if err != nil {
		panic(fmt.Sprintf("bad page token %q", *token))
	}
	return n
}

func nextToken(i, pages int) *string {
	if i+1 >= pages {
		return nil
	}
	return aws.String(fmt.Sprintf("page-%d", i+1))
}

func accessDenied() error {
	return &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized"}
}

// ---------------------------------------------------------------------------
// EC2
// ---------------------------------------------------------------------------

type fakeEC2 struct {
	pages [][]ec2types.Instance
	err   error
	calls int
	input *ec2svc.DescribeInstancesInput
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2svc.DescribeInstancesInput, _ ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	f.calls++
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &ec2svc.DescribeInstancesOutput{}, nil
	}
	i := pageIndex(in.NextToken)
	return &ec2svc.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: f.pages[i]}},
		NextToken:    nextToken(i, len(f.pages)),
	}, nil
}

func instance(id string, state ec2types.InstanceStateName) ec2types.Instance {
	return ec2types.Instance{
		InstanceId: aws.String(id),
		State:      &ec2types.InstanceState{Name: state},
	}
}

// ---------------------------------------------------------------------------
// RDS
// ---------------------------------------------------------------------------

type fakeRDS struct {
	pages [][]rdstypes.DBInstance
	err   error
	calls int
	input *rdssvc.DescribeDBInstancesInput
}

func (f *fakeRDS) DescribeDBInstances(_ context.Context, in *rdssvc.DescribeDBInstancesInput, _ ...func(*rdssvc.Options)) (*rdssvc.DescribeDBInstancesOutput, error) {
	f.calls++
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &rdssvc.DescribeDBInstancesOutput{}, nil
	}
	i := pageIndex(in.Marker)
	return &rdssvc.DescribeDBInstancesOutput{
		DBInstances: f.pages[i],
		Marker:      nextToken(i, len(f.pages)),
	}, nil
}

func dbInstance(id, engine, status string) rdstypes.DBInstance {
	return rdstypes.DBInstance{
		DBInstanceIdentifier: aws.String(id),
		Engine:               aws.String(engine),
		DBInstanceStatus:     aws.String(status),
	}
}

// ---------------------------------------------------------------------------
// S3
// ---------------------------------------------------------------------------

type fakeS3 struct {
	pages       [][]string
	listErr     error
	locations   map[string]s3types.BucketLocationConstraint
	locationErr map[string]error
	listCalls   int
	input       *s3svc.ListBucketsInput
}

func (f *fakeS3) ListBuckets(_ context.Context, in *s3svc.ListBucketsInput, _ ...func(*s3svc.Options)) (*s3svc.ListBucketsOutput, error) {
	f.listCalls++
	f.input = in
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pages) == 0 {
		return &s3svc.ListBucketsOutput{}, nil
	}
	i := pageIndex(in.ContinuationToken)
	out := &s3svc.ListBucketsOutput{ContinuationToken: nextToken(i, len(f.pages))}
	for _, name := range f.pages[i] {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) GetBucketLocation(_ context.Context, in *s3svc.GetBucketLocationInput, _ ...func(*s3svc.Options)) (*s3svc.GetBucketLocationOutput, error) {
	name := aws.ToString(in.Bucket)
	if err := f.locationErr[name]; err != nil {
		return nil, err
	}
	return &s3svc.GetBucketLocationOutput{LocationConstraint: f.locations[name]}, nil
}

// ---------------------------------------------------------------------------
// Tagging
// ---------------------------------------------------------------------------

type fakeTagging struct {
	pages [][]taggingtypes.ResourceTagMapping
	err   error
	calls int
	input *tagging.GetResourcesInput
}

func (f *fakeTagging) GetResources(_ context.Context, in *tagging.GetResourcesInput, _ ...func(*tagging.Options)) (*tagging.GetResourcesOutput, error) {
	f.calls++
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &tagging.GetResourcesOutput{}, nil
	}
	i := pageIndex(in.PaginationToken)
	return &tagging.GetResourcesOutput{
		ResourceTagMappingList: f.pages[i],
		PaginationToken:        nextToken(i, len(f.pages)),
	}, nil
}

func tagMapping(arn string, kv ...string) taggingtypes.ResourceTagMapping {
	m := taggingtypes.ResourceTagMapping{ResourceARN: aws.String(arn)}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Tags = append(m.Tags, taggingtypes.Tag{Key: aws.String(kv[i]), Value: aws.String(kv[i+1])})
	}
	return m
}

// ---------------------------------------------------------------------------
// ELBv2
// ---------------------------------------------------------------------------

type fakeELB struct {
	pages [][]elbtypes.LoadBalancer
	err   error
	input *elbv2.DescribeLoadBalancersInput
}

func (f *fakeELB) DescribeLoadBalancers(_ context.Context, in *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &elbv2.DescribeLoadBalancersOutput{}, nil
	}
	i := pageIndex(in.Marker)
	return &elbv2.DescribeLoadBalancersOutput{
		LoadBalancers: f.pages[i],
		NextMarker:    nextToken(i, len(f.pages)),
	}, nil
}

// ---------------------------------------------------------------------------
// CloudWatch
// ---------------------------------------------------------------------------

type fakeCloudWatch struct {
	metric    []cwtypes.MetricAlarm
	composite []cwtypes.CompositeAlarm
	err       error
	input     *cloudwatch.DescribeAlarmsInput
}

func (f *fakeCloudWatch) DescribeAlarms(_ context.Context, in *cloudwatch.DescribeAlarmsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.DescribeAlarmsOutput{MetricAlarms: f.metric, CompositeAlarms: f.composite}, nil
}

// ---------------------------------------------------------------------------
// Factory
// ---------------------------------------------------------------------------

// recordingFactory returns the same Clients for every region and remembers
// which regions were requested.
type recordingFactory struct {
	clients *Clients
	regions []string
}

func (r *recordingFactory) factory(cfg aws.Config) *Clients {
	r.regions = append(r.regions, cfg.Region)
	return r.clients
}

func optionsWith(clients *Clients) (Options, *recordingFactory) {
	rf := &recordingFactory{clients: clients}
	return Options{PageSize: DefaultPageSize, Factory: rf.factory}, rf
}
