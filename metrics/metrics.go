// Package metrics publishes club activity counters to CloudWatch.
// file: metrics/metrics.go
package metrics

import (
	"time"

	"badminton-club/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

// Publisher receives the events the club service reports.
type Publisher interface {
	TransitionApplied(op string)
	TransitionRejected(op, code string)
	SnapshotSaved(latency time.Duration)
	SnapshotSaveFailed()
	DashboardConnections(count int)
}

// Noop discards every metric.
type Noop struct{}

func (Noop) TransitionApplied(string) {}
func (Noop) TransitionRejected(string, string) {}
func (Noop) SnapshotSaved(time.Duration) {}
func (Noop) SnapshotSaveFailed() {}
func (Noop) DashboardConnections(int) {}

// CloudWatch sends each event as a single datum under Namespace.
type CloudWatch struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	now       func() time.Time
}

// NewCloudWatch builds a publisher on the default AWS session.
func NewCloudWatch(namespace string) (*CloudWatch, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchWithClient(cloudwatch.New(sess), namespace), nil
}

// NewCloudWatchWithClient wraps an existing client.
func NewCloudWatchWithClient(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace, now: time.Now}
}

// TransitionApplied counts an accepted state change.
func (c *CloudWatch) TransitionApplied(op string) {
	c.putMetric("TransitionsApplied", 1, cloudwatch.StandardUnitCount, dim("Operation", op))
}

// TransitionRejected counts a refused state change by error code.
func (c *CloudWatch) TransitionRejected(op, code string) {
	c.putMetric("TransitionsRejected", 1, cloudwatch.StandardUnitCount, dim("Operation", op), dim("Code", code))
}

// SnapshotSaved records how long persisting the snapshot took.
func (c *CloudWatch) SnapshotSaved(latency time.Duration) {
	c.putMetric("SnapshotSaveLatencyMs", float64(latency.Milliseconds()), cloudwatch.StandardUnitMilliseconds)
}

// SnapshotSaveFailed counts a snapshot that could not be persisted.
func (c *CloudWatch) SnapshotSaveFailed() {
	c.putMetric("SnapshotSaveFailures", 1, cloudwatch.StandardUnitCount)
}

// DashboardConnections pushes the current websocket connection count.
func (c *CloudWatch) DashboardConnections(count int) {
	c.putMetric("DashboardConnections", float64(count), cloudwatch.StandardUnitCount)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------

func dim(name, value string) *cloudwatch.Dimension {
	return &cloudwatch.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

func (c *CloudWatch) putMetric(metricName string, value float64, unit string, dims ...*cloudwatch.Dimension) {
	_, err := c.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: dims,
				Timestamp:  aws.Time(c.now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
