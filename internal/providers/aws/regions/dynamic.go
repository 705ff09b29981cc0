package regions

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/common"
)

// AnchorRegion is the region the directory query is sent to. Region
// directory data is the same from any commercial region.
const AnchorRegion = common.DefaultRegion

// Dynamic asks EC2 DescribeRegions for the regions enabled on the account.
// It stays correct as AWS adds regions, at the cost of one network call.
type Dynamic struct {
	client common.EC2RegionClient
}

// NewDynamic returns a catalog backed by client, which should be built from
// a config whose region is AnchorRegion.
func NewDynamic(client common.EC2RegionClient) *Dynamic {
	return &Dynamic{client: client}
}

// ListRegions implements Catalog. Only regions the account has opted into
// are returned. An upstream failure is returned as a ProviderQueryError.
func (d *Dynamic) ListRegions(ctx context.Context) ([]string, error) {
	scope := models.RegionScope(AnchorRegion)

	out, err := d.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		// AllRegions false (default) returns only regions the account has
		// opted into; it excludes disabled / not-subscribed regions.
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, models.NewProviderQueryError(models.ServiceEC2, "DescribeRegions", scope, err)
	}

	names := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		names = append(names, aws.ToString(r.RegionName))
	}

	regions := dedupe(names)
	if len(regions) == 0 {
		return nil, models.NewProviderQueryError(models.ServiceEC2, "DescribeRegions", scope,
			errors.New("no regions returned"))
	}
	return regions, nil
}

// Name implements Catalog.
func (d *Dynamic) Name() string { return string(SourceDynamic) }
