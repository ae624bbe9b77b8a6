package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"students-api-go/models"
)

// Dataset keeps the loaded records resident in memory. Readers get an
// immutable snapshot; Reload swaps in a fully built replacement.
type Dataset struct {
	location string
	load     LoaderFunc
	records  atomic.Pointer[[]models.StudentRecord]
}

// NewDataset loads location once and returns the resident dataset
func NewDataset(ctx context.Context, location string) (*Dataset, error) {
	return newDataset(ctx, ResolveLocation(location), Load)
}

func newDataset(ctx context.Context, location string, load LoaderFunc) (*Dataset, error) {
	d := &Dataset{location: location, load: load}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// NewStaticDataset wraps records that are already in memory.
// Reload on a static dataset keeps the records as they are.
func NewStaticDataset(records []models.StudentRecord) *Dataset {
	d := &Dataset{
		load: func(context.Context, string) ([]models.StudentRecord, error) {
			return records, nil
		},
	}
	d.store(records)
	return d
}

// Records returns the current snapshot. Callers must not modify it.
func (d *Dataset) Records() []models.StudentRecord {
	p := d.records.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Location is the resolved source location
func (d *Dataset) Location() string {
	return d.location
}

// Reload reads the source again. On failure the previous snapshot stays active.
func (d *Dataset) Reload(ctx context.Context) error {
	records, err := d.load(ctx, d.location)
	if err != nil {
		return err
	}
	d.store(records)
	slog.Info("dataset loaded", "location", d.location, "records", len(records))
	return nil
}

func (d *Dataset) store(records []models.StudentRecord) {
	if records == nil {
		records = []models.StudentRecord{}
	}
	d.records.Store(&records)
}

// Refresh reloads the dataset every interval until ctx is cancelled.
func (d *Dataset) Refresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Reload(ctx); err != nil {
				slog.Error("dataset reload failed, keeping previous records",
					"location", d.location, "err", err)
			}
		}
	}
}
