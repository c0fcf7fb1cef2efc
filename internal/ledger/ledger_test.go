// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svgbatch/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResults() []types.JobResult {
	return []types.JobResult{
		{
			Job:      types.Job{SourcePath: "a.svg", OutputPath: "a.png", Width: 512, Height: 512},
			Status:   types.ConversionDone,
			Duration: 42 * time.Millisecond,
		},
		{
			Job:    types.Job{SourcePath: "b.svg", OutputPath: "b.png", Width: 512, Height: 512},
			Status: types.ConversionFailed,
			Err:    errors.New("rsvg-convert exited with status 1"),
			Stderr: "Error reading SVG",
		},
		{
			Job:    types.Job{SourcePath: "c.svg", OutputPath: "c.png", Width: 512, Height: 512},
			Status: types.ConversionSkipped,
		},
	}
}

func TestRecordRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := s.RecordRun(ctx, types.RunInfo{
		Dir: "icons", Backend: "rsvg-convert", Width: 512, Height: 512,
		StartedAt: start, FinishedAt: start.Add(time.Second),
	}, sampleResults())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "icons", runs[0].Dir)
	assert.Equal(t, 1, runs[0].Converted)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, 1, runs[0].Failed)
	assert.True(t, runs[0].StartedAt.Equal(start))

	jobs, err := s.Jobs(ctx, id)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "a.svg", jobs[0].Source)
	assert.Equal(t, int64(42), jobs[0].DurationMS)
	assert.Equal(t, types.ConversionFailed, jobs[1].Status)
	assert.Equal(t, "Error reading SVG", jobs[1].Stderr)
	assert.Contains(t, jobs[1].Error, "status 1")
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, types.RunInfo{
			ID: string(rune('a' + i)), Dir: ".", Backend: "native",
			StartedAt: base.Add(time.Duration(i) * time.Hour), FinishedAt: base.Add(time.Duration(i) * time.Hour),
		}, nil)
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestRecentOrder_SubSecond(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	whole := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)

	tests := []struct {
		id    string
		start time.Time
	}{
		{"half", whole.Add(500 * time.Millisecond)},
		{"whole", whole},
		{"nano", whole.Add(500*time.Millisecond + time.Nanosecond)},
	}
	for _, tt := range tests {
		_, err := s.RecordRun(ctx, types.RunInfo{ID: tt.id, Dir: ".", Backend: "native",
			StartedAt: tt.start, FinishedAt: tt.start}, nil)
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "nano", runs[0].ID)
	assert.Equal(t, "half", runs[1].ID)
	assert.Equal(t, "whole", runs[2].ID)
	assert.True(t, runs[0].StartedAt.Equal(whole.Add(500*time.Millisecond+time.Nanosecond)))

	latest, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "nano", latest[0].ID)
}

func TestRecentOrder_SameStartUsesInsertionOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"first", "second"} {
		_, err := s.RecordRun(ctx, types.RunInfo{ID: id, Dir: ".", Backend: "native",
			StartedAt: start, FinishedAt: start}, nil)
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "second", runs[0].ID)
}

func TestRecordRun_Cancelled(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	results := append(sampleResults(), types.JobResult{
		Job:    types.Job{SourcePath: "d.svg", OutputPath: "d.png"},
		Status: types.ConversionCancelled,
		Err:    context.Canceled,
	})

	id, err := s.RecordRun(ctx, types.RunInfo{Dir: ".", Backend: "native"}, results)
	require.NoError(t, err)

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 1, runs[0].Cancelled)

	jobs, err := s.Jobs(ctx, id)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, types.ConversionCancelled, jobs[3].Status)
}

func TestRecordRun_DuplicateID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	info := types.RunInfo{ID: "same", Dir: ".", Backend: "native"}

	_, err := s.RecordRun(ctx, info, sampleResults())
	require.NoError(t, err)
	_, err = s.RecordRun(ctx, info, sampleResults())
	require.Error(t, err)

	jobs, err := s.Jobs(ctx, "same")
	require.NoError(t, err)
	assert.Len(t, jobs, 3, "failed transaction must not add job rows")
}
