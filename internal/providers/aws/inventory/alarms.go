package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// AlarmCollector lists CloudWatch metric and composite alarms.
type AlarmCollector struct {
	base
}

func (c *AlarmCollector) Service() models.Service { return models.ServiceCloudWatch }

func (c *AlarmCollector) Global() bool { return false }

// Collect pages through DescribeAlarms in the scope's region. Metric alarms
// are emitted before composite alarms within each page.
func (c *AlarmCollector) Collect(ctx context.Context, scope models.Scope) ([]models.ResourceRecord, error) {
	region, err := regionOf(models.ServiceCloudWatch, scope)
	if err != nil {
		return nil, err
	}
	client := c.clientsFor(region).CloudWatch

	paginator := cloudwatch.NewDescribeAlarmsPaginator(client, &cloudwatch.DescribeAlarmsInput{
		AlarmTypes: []cwtypes.AlarmType{cwtypes.AlarmTypeMetricAlarm, cwtypes.AlarmTypeCompositeAlarm},
		MaxRecords: aws.Int32(clampPageSize(c.pageSize, 1, 100)),
	})

	var records []models.ResourceRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewProviderQueryError(models.ServiceCloudWatch, "DescribeAlarms", scope, err)
		}
		for _, a := range page.MetricAlarms {
			records = append(records, alarmRecord(region, aws.ToString(a.AlarmName), a.StateValue))
		}
		for _, a := range page.CompositeAlarms {
			records = append(records, alarmRecord(region, aws.ToString(a.AlarmName), a.StateValue))
		}
	}
	return records, nil
}

func alarmRecord(region, name string, state cwtypes.StateValue) models.ResourceRecord {
	return models.ResourceRecord{
		Region:     region,
		Service:    models.ServiceCloudWatch,
		ResourceID: name,
		Details:    "State: " + string(state),
	}
}
