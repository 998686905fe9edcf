package catalog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/timeutil"
)

var t0 = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*Store, *timeutil.MockClock) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })

	clock := timeutil.NewMockClock(t0)
	n := 0
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"),
		WithClock(clock),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var decimalPtrComparer = cmp.Comparer(func(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
})

func TestOpen_MigratesToLatest(t *testing.T) {
	store, _ := openTestStore(t)

	version, dirty, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestOpen_Reopen(t *testing.T) {
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })

	path := filepath.Join(t.TempDir(), "catalog.db")
	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.RecordDataset(context.Background(), DatasetRecord{Path: "a.npz", Reconstructor: "PtychoNN"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.npz", got[0].Path)
	assert.Len(t, got[0].ID, 36, "uuid string")
}

func TestRecordDataset_RoundTrip(t *testing.T) {
	store, clock := openTestStore(t)
	ctx := context.Background()

	first, err := store.RecordDataset(ctx, DatasetRecord{
		Path:          "out/training_data.npz",
		Reconstructor: "PtychoNN",
		Samples:       12,
		Channels:      2,
		PatternHeight: 64,
		PatternWidth:  64,
		PatchHeight:   32,
		PatchWidth:    32,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	assert.True(t, first.CreatedAt.Equal(t0))

	clock.Advance(time.Minute)
	second, err := store.RecordDataset(ctx, DatasetRecord{
		ID:            "explicit",
		Path:          "out/more.npz",
		Reconstructor: "PtychoPINN",
		Samples:       3,
		Channels:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit", second.ID)

	got, err := store.ListDatasets(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]DatasetRecord{first, second}, got); diff != "" {
		t.Errorf("ListDatasets mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordScan_RoundTrip(t *testing.T) {
	store, clock := openTestStore(t)
	ctx := context.Background()

	withBounds := ScanRecord{
		Name:        "Raster",
		Initializer: "Raster",
		Transform:   "+x+y",
		Path:        "scan.csv",
		Points:      6,
		MinX:        dec("0"),
		MaxX:        dec("2e-6"),
		MinY:        dec("-1.5e-6"),
		MaxY:        dec("0.000001"),
	}
	a, err := store.RecordScan(ctx, withBounds)
	require.NoError(t, err)

	clock.Advance(time.Second)
	b, err := store.RecordScan(ctx, ScanRecord{Name: "Custom", Initializer: "Custom", Transform: "-y+x", Path: "empty.csv"})
	require.NoError(t, err)

	got, err := store.ListScans(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]ScanRecord{a, b}, got, decimalPtrComparer); diff != "" {
		t.Errorf("ListScans mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got[1].MinX)
	assert.True(t, got[1].CreatedAt.Equal(t0.Add(time.Second)))
}

func TestListEmpty(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	ds, err := store.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Empty(t, ds)

	scans, err := store.ListScans(ctx)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestRecord_CancelledContext(t *testing.T) {
	store, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.RecordDataset(ctx, DatasetRecord{Path: "x.npz"})
	assert.Error(t, err)
}
