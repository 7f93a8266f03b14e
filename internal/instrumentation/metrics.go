package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrStatus     = "status"
	attrOperation  = "operation"
	attrService    = "service"
	attrTool       = "tool"
	attrAccount    = "account"
	attrWorkingDay = "working_day"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Availability engine metrics
	availabilityChecksTotal  metric.Int64Counter
	availabilityFreeSlots    metric.Int64Histogram
	availabilityCalendars    metric.Int64Histogram
	availabilityDegradations metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// Availability Metrics
	m.availabilityChecksTotal, err = meter.Int64Counter(
		"availability_checks_total",
		metric.WithDescription("Total number of availability checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_checks_total counter: %w", err)
	}

	m.availabilityFreeSlots, err = meter.Int64Histogram(
		"availability_free_slots",
		metric.WithDescription("Number of free slots returned per availability check"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 20, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_free_slots histogram: %w", err)
	}

	m.availabilityCalendars, err = meter.Int64Histogram(
		"availability_calendars_checked",
		metric.WithDescription("Number of calendars consulted per availability check"),
		metric.WithUnit("{calendar}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_calendars_checked histogram: %w", err)
	}

	m.availabilityDegradations, err = meter.Int64Counter(
		"availability_degradations_total",
		metric.WithDescription("Availability checks that completed with one or more failed calendars"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_degradations_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, calendar)
//   - operation: Operation type (list, get, create, send, etc.)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAvailabilityCheck records one completed availability check.
//
// Parameters:
//   - status: Result status ("success" or "error")
//   - workingDay: Whether the checked date was a working day for the user
//   - freeSlots: Number of free slots returned
//   - calendarsChecked: Number of calendars that answered
func (m *Metrics) RecordAvailabilityCheck(ctx context.Context, status string, workingDay bool, freeSlots, calendarsChecked int) {
	if m.availabilityChecksTotal == nil {
		return // Instrumentation not initialized
	}

	m.availabilityChecksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
		attribute.Bool(attrWorkingDay, workingDay),
	))

	// Distributions only make sense for checks that actually ran the pipeline.
	if status == StatusSuccess && workingDay {
		m.availabilityFreeSlots.Record(ctx, int64(freeSlots))
		m.availabilityCalendars.Record(ctx, int64(calendarsChecked))
	}
}

// RecordAvailabilityDegradation records a check that succeeded with partial
// calendar coverage.
func (m *Metrics) RecordAvailabilityDegradation(ctx context.Context) {
	if m.availabilityDegradations == nil {
		return // Instrumentation not initialized
	}

	m.availabilityDegradations.Add(ctx, 1)
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "calendar_check_availability", "gmail_send")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithAccount records an MCP tool invocation with account info.
// This is the detailed version that includes account information when detailedLabels is enabled.
//
// Parameters:
//   - toolName: Name of the MCP tool
//   - status: Result status ("success" or "error")
//   - account: Target account email (only included if detailedLabels is true)
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
