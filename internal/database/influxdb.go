package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

// misReportMeasurement holds one point per generated monthly report
const misReportMeasurement = "mis_report"

// InfluxDBClient writes MIS report totals to InfluxDB 2.x
type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
	logger   *zap.Logger
	now      func() time.Time
}

// NewInfluxDBClient connects to InfluxDB and checks its health
func NewInfluxDBClient(cfg config.InfluxDBConfig, logger *zap.Logger) (*InfluxDBClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("initializing InfluxDB client",
		zap.String("url", cfg.URL), zap.String("org", cfg.Org), zap.String("bucket", cfg.Bucket))

	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		logger.Warn("InfluxDB health check did not pass", zap.String("status", string(health.Status)))
	}

	return &InfluxDBClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		org:      cfg.Org,
		bucket:   cfg.Bucket,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// misReportPoint converts a report into a mis_report point
func misReportPoint(report *models.MISReport, ts time.Time) *write.Point {
	return influxdb2.NewPoint(misReportMeasurement,
		map[string]string{
			"year":  strconv.Itoa(report.Period.Year),
			"month": fmt.Sprintf("%02d", report.Period.Month),
		},
		map[string]interface{}{
			"tasks_total":       report.Tasks.Total,
			"tasks_completed":   report.Tasks.ByStatus.Count(models.TaskStatusCompleted),
			"fms_total":         report.FMS.Total,
			"fms_completed":     report.FMS.Completed,
			"checklists_total":  report.Checklists.Total,
			"checklists_done":   report.Checklists.Done,
			"helptickets_total": report.HelpTickets.Total,
			"helptickets_open":  report.HelpTickets.Open,
		},
		ts)
}

// RecordMISReport writes the report totals as one point
func (c *InfluxDBClient) RecordMISReport(ctx context.Context, report *models.MISReport) error {
	if err := c.writeAPI.WritePoint(ctx, misReportPoint(report, c.now())); err != nil {
		return fmt.Errorf("failed to write to InfluxDB: %w", err)
	}
	c.logger.Debug("MIS report point written",
		zap.Int("year", report.Period.Year),
		zap.Int("month", report.Period.Month),
		zap.String("bucket", c.bucket))
	return nil
}

// Close closes the InfluxDB client
func (c *InfluxDBClient) Close() {
	c.client.Close()
}
