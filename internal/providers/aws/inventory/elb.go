package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// LoadBalancerCollector lists Application, Network, and Gateway load
// balancers (ELBv2).
type LoadBalancerCollector struct {
	base
}

func (c *LoadBalancerCollector) Service() models.Service { return models.ServiceELB }

func (c *LoadBalancerCollector) Global() bool { return false }

// Collect pages through DescribeLoadBalancers in the scope's region.
func (c *LoadBalancerCollector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	region, err := regionOf(models.ServiceELB, scope)
	if err != nil {
		return nil, err
	}
	client := c.clientsFor(region).ELB

	paginator := elbv2.NewDescribeLoadBalancersPaginator(client, &elbv2.DescribeLoadBalancersInput{
		PageSize: aws.Int32(clampPageSize(c.pageSize, 1, 400)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceELB, "DescribeLoadBalancers", scope, err)
		}
		for _, lb := range page.LoadBalancers {
			records = append(records, toLoadBalancerRecord(lb, region))
		}
	}
	return records, nil
}

func toLoadBalancerRecord(lb elbtypes.LoadBalancer, region string) models.ResourceRecord {
	var state string
	if lb.State != nil {
		state = string(lb.State.Code)
	}
	return models.ResourceRecord{
		Region:     region,
		Service:    models.ServiceELB,
		ResourceID: aws.ToString(lb.LoadBalancerName),
		Details:    fmt.Sprintf("Type: %s, State: %s", lb.Type, state),
	}
}
