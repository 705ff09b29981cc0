package regions

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

type fakeRegionClient struct {
	regions []string
	err     error
	calls   int
	input   *ec2.DescribeRegionsInput
}

func (f *fakeRegionClient) DescribeRegions(_ context.Context, in *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	f.calls++
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	out := &ec2.DescribeRegionsOutput{}
	for _, r := range f.regions {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: aws.String(r)})
	}
	return out, nil
}

func assertUsableList(t *testing.T, regions []string) {
	t.Helper()
	require.NotEmpty(t, regions)
	seen := map[string]bool{}
	for _, r := range regions {
		assert.NotEmpty(t, r)
		assert.False(t, seen[r], "duplicate region %q", r)
		seen[r] = true
	}
}

func TestCatalogs_NonEmptyAndDuplicateFree(t *testing.T) {
	catalogs := map[string]Catalog{
		"commercial":        NewCommercial(false),
		"with restricted":   NewCommercial(true),
		"explicit":          NewStatic("eu-west-1", "us-east-1", "eu-west-1"),
		"empty falls back":  NewStatic(),
		"dynamic":           NewDynamic(&fakeRegionClient{regions: []string{"us-east-1", "eu-west-1", "us-east-1"}}),
		"dynamic one entry": NewDynamic(&fakeRegionClient{regions: []string{"ap-south-1"}}),
	}
	for name, c := range catalogs {
		t.Run(name, func(t *testing.T) {
			regions, err := c.ListRegions(context.Background())
			require.NoError(t, err)
			assertUsableList(t, regions)
		})
	}
}

func TestCommercialRegions_ExcludesRestrictedPartitions(t *testing.T) {
	regions, err := NewCommercial(false).ListRegions(context.Background())
	require.NoError(t, err)

	assert.Len(t, regions, 28)
	assert.Equal(t, "us-east-1", regions[0])
	assert.Equal(t, "sa-east-1", regions[len(regions)-1])
	for _, r := range RestrictedRegions() {
		assert.NotContains(t, regions, r)
	}
}

func TestNewCommercial_IncludeRestrictedAppendsAtEnd(t *testing.T) {
	regions, err := NewCommercial(true).ListRegions(context.Background())
	require.NoError(t, err)

	assert.Len(t, regions, 28+len(RestrictedRegions()))
	assert.Equal(t, RestrictedRegions(), regions[28:])
}

func TestNewStatic_KeepsFirstOccurrenceOrder(t *testing.T) {
	regions, err := NewStatic("eu-west-1", "", "us-east-1", "eu-west-1").ListRegions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, regions)
}

func TestStatic_ListRegionsReturnsCopy(t *testing.T) {
	c := NewStatic("us-east-1", "eu-west-1")
	first, _ := c.ListRegions(context.Background())
	first[0] = "mutated"

	second, _ := c.ListRegions(context.Background())
	assert.Equal(t, "us-east-1", second[0])
}

func TestDynamic_OptedInRegionsOnly(t *testing.T) {
	client := &fakeRegionClient{regions: []string{"us-east-1", "eu-west-1"}}
	regions, err := NewDynamic(client).ListRegions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, regions)
	assert.Equal(t, 1, client.calls)
	require.NotNil(t, client.input)
	assert.False(t, aws.ToBool(client.input.AllRegions))
}

func TestDynamic_UpstreamFailureIsProviderQueryError(t *testing.T) {
	client := &fakeRegionClient{err: errors.New("UnauthorizedOperation")}
	_, err := NewDynamic(client).ListRegions(context.Background())
	require.Error(t, err)

	var pqe *models.ProviderQueryError
	require.ErrorAs(t, err, &pqe)
	assert.Equal(t, "DescribeRegions", pqe.Op)
	assert.Contains(t, err.Error(), "UnauthorizedOperation")
}

func TestDynamic_EmptyDirectoryIsAnError(t *testing.T) {
	_, err := NewDynamic(&fakeRegionClient{}).ListRegions(context.Background())
	var pqe *models.ProviderQueryError
	require.ErrorAs(t, err, &pqe)
}

func TestCatalogNames(t *testing.T) {
	assert.Equal(t, "static", NewStatic().Name())
	assert.Equal(t, "dynamic", NewDynamic(&fakeRegionClient{}).Name())
}
