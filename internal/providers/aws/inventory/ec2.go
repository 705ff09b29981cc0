package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// EC2Collector lists EC2 instances in every state.
type EC2Collector struct {
	base
}

func (c *EC2Collector) Service() models.Service { return models.ServiceEC2 }

func (c *EC2Collector) Global() bool { return false }

// Collect pages through DescribeInstances and emits one record per instance
// across all reservations.
func (c *EC2Collector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	region, err := regionOf(models.ServiceEC2, scope)
	if err != nil {
		return nil, err
	}
	client := c.clientsFor(region).EC2

	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{
		MaxResults: aws.Int32(clampPageSize(c.pageSize, 5, 1000)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceEC2, "DescribeInstances", scope, err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				records = append(records, toEC2Record(inst, region))
			}
		}
	}
	return records, nil
}

// toEC2Record converts an SDK EC2 instance to a ResourceRecord.
func toEC2Record(inst ec2types.Instance, region string) models.ResourceRecord {
	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}
	return models.ResourceRecord{
		Region:     region,
		Service:    models.ServiceEC2,
		ResourceID: aws.ToString(inst.InstanceId),
		Details:    "State: " + state,
	}
}
