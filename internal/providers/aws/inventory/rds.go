package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// RDSCollector lists RDS database instances.
type RDSCollector struct {
	base
}

func (c *RDSCollector) Service() models.Service { return models.ServiceRDS }

func (c *RDSCollector) Global() bool { return false }

// Collect pages through DescribeDBInstances in the scope's region.
func (c *RDSCollector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	region, err := regionOf(models.ServiceRDS, scope)
	if err != nil {
		return nil, err
	}
	client := c.clientsFor(region).RDS

	paginator := rdssvc.NewDescribeDBInstancesPaginator(client, &rdssvc.DescribeDBInstancesInput{
		MaxRecords: aws.Int32(clampPageSize(c.pageSize, 20, 100)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceRDS, "DescribeDBInstances", scope, err)
		}
		for _, db := range page.DBInstances {
			records = append(records, toRDSRecord(db, region))
		}
	}
	return records, nil
}

// toRDSRecord converts an SDK DBInstance to a ResourceRecord.
func toRDSRecord(db rdstypes.DBInstance, region string) models.ResourceRecord {
	return models.ResourceRecord{
		Region:     region,
		Service:    models.ServiceRDS,
		ResourceID: aws.ToString(db.DBInstanceIdentifier),
		Details: fmt.Sprintf("Engine: %s, Status: %s",
			aws.ToString(db.Engine), aws.ToString(db.DBInstanceStatus)),
	}
}
