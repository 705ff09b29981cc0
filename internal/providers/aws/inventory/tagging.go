package inventory

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// tagSeparator joins key=value pairs in the Details column.
const tagSeparator = ", "

// TaggedResourceCollector lists every resource the Resource Groups Tagging
// API knows about in a region, whatever its service. ResourceID is the ARN
// and Details the resource's tags.
type TaggedResourceCollector struct {
	base
}

func (c *TaggedResourceCollector) Service() models.Service { return models.ServiceTagging }

func (c *TaggedResourceCollector) Global() bool { return false }

// Collect pages through GetResources in the scope's region.
func (c *TaggedResourceCollector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	region, err := regionOf(models.ServiceTagging, scope)
	if err != nil {
		return nil, err
	}
	client := c.clientsFor(region).Tagging

	paginator := tagging.NewGetResourcesPaginator(client, &tagging.GetResourcesInput{
		ResourcesPerPage: aws.Int32(clampPageSize(c.pageSize, 1, 100)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceTagging, "GetResources", scope, err)
		}
		for _, m := range page.ResourceTagMappingList {
			records = append(records, models.ResourceRecord{
				Region:     region,
				Service:    models.ServiceTagging,
				ResourceID: aws.ToString(m.ResourceARN),
				Details:    JoinTags(m.Tags),
			})
		}
	}
	return records, nil
}

// JoinTags renders tags as "k1=v1, k2=v2" in the order given. No sorting is
// applied: the API order is kept.
func JoinTags(tags []taggingtypes.Tag) string {
	pairs := make([]string, 0, len(tags))
	for _, t := range tags {
		pairs = append(pairs, aws.ToString(t.Key)+"="+aws.ToString(t.Value))
	}
	return strings.Join(pairs, tagSeparator)
}
