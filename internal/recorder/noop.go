package recorder

import (
	"context"

	"CatalystScanner/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(context.Context, *model.ScanReport) error { return nil }
func (n *NoopRecorder) RecentScans(context.Context, string, int) ([]ScanRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
