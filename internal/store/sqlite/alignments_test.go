package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/domain"
	"github.com/listenupapp/listenup-narration/internal/store"
)

func makeTestAlignment(id, segmentID string, createdAt time.Time) *domain.Alignment {
	return &domain.Alignment{
		ID:        id,
		SegmentID: segmentID,
		AudioPath: "/narration/" + segmentID + ".wav",
		Language:  "en",
		Strategy:  domain.StrategyTranscript,
		Result: alignment.Result{
			SentenceTimings: []alignment.SentenceTiming{
				{SentenceID: "s1", StartMs: 0, EndMs: 1000, Confidence: 1, Words: []alignment.WordTiming{
					{Word: "Hello", StartMs: 0, EndMs: 500, Confidence: 0.98},
					{Word: "world.", StartMs: 500, EndMs: 1000, Confidence: 0.91},
				}},
				{SentenceID: "s2", StartMs: 1200, EndMs: 2000, Confidence: 0.5},
			},
			TotalDurationMs:   2000,
			AverageConfidence: 0.75,
			Warnings:          []string{},
		},
		Report:              alignment.Report{IsValid: true, Issues: []string{}},
		TranscriptWordCount: 5,
		DurationMs:          2250,
		CreatedAt:           createdAt,
	}
}

func TestSaveAndGetAlignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)
	want := makeTestAlignment("aln-1", "seg-1", created)

	require.NoError(t, s.SaveAlignment(ctx, want))

	got, err := s.GetAlignment(ctx, "aln-1")
	require.NoError(t, err)

	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, want.CreatedAt)
	got.CreatedAt = want.CreatedAt
	assert.Equal(t, want, got)
}

func TestSaveAlignment_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := makeTestAlignment("aln-1", "seg-1", time.Now())

	require.NoError(t, s.SaveAlignment(ctx, a))
	assert.ErrorIs(t, s.SaveAlignment(ctx, a), store.ErrAlreadyExists)
}

func TestGetAlignment_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAlignment(context.Background(), "aln-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetLatestAlignmentForSegment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Inserted out of order; created_at decides.
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-b", "seg-1", base.Add(2*time.Second))))
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-a", "seg-1", base.Add(500*time.Millisecond))))
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-c", "seg-1", base.Add(time.Second))))
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-other", "seg-2", base.Add(time.Hour))))

	got, err := s.GetLatestAlignmentForSegment(ctx, "seg-1")
	require.NoError(t, err)
	assert.Equal(t, "aln-b", got.ID)

	_, err = s.GetLatestAlignmentForSegment(ctx, "seg-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetLatestAlignmentForSegment_SameTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-first", "seg-1", at)))
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-second", "seg-1", at)))

	got, err := s.GetLatestAlignmentForSegment(ctx, "seg-1")
	require.NoError(t, err)
	assert.Equal(t, "aln-second", got.ID)
}

func TestDeleteAlignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAlignment(ctx, makeTestAlignment("aln-1", "seg-1", time.Now())))

	require.NoError(t, s.DeleteAlignment(ctx, "aln-1"))

	_, err := s.GetAlignment(ctx, "aln-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAlignment(ctx, "aln-1"), store.ErrNotFound)
}

func TestStore_ImplementsInterface(t *testing.T) {
	var _ store.Store = newTestStore(t)
}
