package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/common"
)

// DefaultS3Region is where a bucket lives when GetBucketLocation reports no
// location constraint.
const DefaultS3Region = common.DefaultRegion

// legacyEURegion is what the historical "EU" location constraint means.
const legacyEURegion = "eu-west-1"

// S3Collector lists every bucket in the account. Buckets are account-wide,
// so the collector runs once per scan; each bucket's home region is resolved
// with a separate GetBucketLocation call.
type S3Collector struct {
	base
}

func (c *S3Collector) Service() models.Service { return models.ServiceS3 }

func (c *S3Collector) Global() bool { return true }

// Collect lists buckets from the default region and resolves each one's
// location. A failed location lookup marks that bucket's region as
// models.UnknownRegion; it never fails the listing.
func (c *S3Collector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	client := c.clientsFor(DefaultS3Region).S3

	paginator := s3svc.NewListBucketsPaginator(client, &s3svc.ListBucketsInput{
		MaxBuckets: aws.Int32(clampPageSize(c.pageSize, 1, 10000)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceS3, "ListBuckets", scope, err)
		}
		for _, b := range page.Buckets {
			name := aws.ToString(b.Name)
			records = append(records, models.ResourceRecord{
				Region:     c.bucketRegion(ctx, client, name),
				Service:    models.ServiceS3,
				ResourceID: name,
				Details:    "Bucket",
			})
		}
	}
	return records, nil
}

// bucketRegion resolves a bucket's home region.
//
//   - lookup error:        models.UnknownRegion
//   - no constraint:       DefaultS3Region
//   - legacy "EU":         eu-west-1
//   - otherwise:           the constraint itself
func (c *S3Collector) bucketRegion(ctx context.Context, client s3APIClient, name string) string {
	out, err := client.GetBucketLocation(ctx, &s3svc.GetBucketLocationInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		pqe := models.NewProviderQueryError(models.ServiceS3, "GetBucketLocation", models.GlobalScope(), err)
		c.log.Warn().Err(pqe).Str("bucket", name).Msg("bucket location lookup failed")
		return models.UnknownRegion
	}
	if out == nil {
		return DefaultS3Region
	}
	return regionForConstraint(out.LocationConstraint)
}

// regionForConstraint maps a LocationConstraint to a region name.
func regionForConstraint(c s3types.BucketLocationConstraint) string {
	switch c {
	case "":
		return DefaultS3Region
	case s3types.BucketLocationConstraintEu:
		return legacyEURegion
	default:
		return string(c)
	}
}
