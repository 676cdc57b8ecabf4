package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/listenupapp/listenup-narration/internal/domain"
	"github.com/listenupapp/listenup-narration/internal/store"
)

// alignmentColumns must match the scan order in scanAlignment.
const alignmentColumns = `id, segment_id, audio_path, language, strategy,
	transcript_word_count, duration_ms, result_json, report_json, created_at`

func scanAlignment(scanner interface{ Scan(dest ...any) error }) (*domain.Alignment, error) {
	var (
		a          domain.Alignment
		strategy   string
		resultJSON string
		reportJSON string
		createdAt  string
	)

	err := scanner.Scan(
		&a.ID,
		&a.SegmentID,
		&a.AudioPath,
		&a.Language,
		&strategy,
		&a.TranscriptWordCount,
		&a.DurationMs,
		&resultJSON,
		&reportJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.Strategy = domain.Strategy(strategy)
	if err := json.Unmarshal([]byte(resultJSON), &a.Result); err != nil {
		return nil, fmt.Errorf("decode result of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &a.Report); err != nil {
		return nil, fmt.Errorf("decode report of %s: %w", a.ID, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", a.ID, err)
	}
	return &a, nil
}

// SaveAlignment inserts a new alignment.
// Returns store.ErrAlreadyExists if the ID is taken.
func (s *Store) SaveAlignment(ctx context.Context, a *domain.Alignment) error {
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	reportJSON, err := json.Marshal(a.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alignments (
			id, segment_id, audio_path, language, strategy,
			is_valid, average_confidence, sentence_count,
			transcript_word_count, duration_ms, result_json, report_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.SegmentID,
		a.AudioPath,
		a.Language,
		string(a.Strategy),
		a.Report.IsValid,
		a.Result.AverageConfidence,
		a.SentenceCount(),
		a.TranscriptWordCount,
		a.DurationMs,
		string(resultJSON),
		string(reportJSON),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	s.logger.Debug("alignment saved",
		"id", a.ID,
		"segment_id", a.SegmentID,
		"strategy", a.Strategy,
	)
	return nil
}

// GetAlignment retrieves an alignment by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetAlignment(ctx context.Context, id string) (*domain.Alignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+alignmentColumns+` FROM alignments WHERE id = ?`, id)

	a, err := scanAlignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetLatestAlignmentForSegment returns the most recent alignment of a segment.
// Returns store.ErrNotFound if the segment was never aligned.
func (s *Store) GetLatestAlignmentForSegment(ctx context.Context, segmentID string) (*domain.Alignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+alignmentColumns+` FROM alignments
		WHERE segment_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`, segmentID)

	a, err := scanAlignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAlignment hard-deletes an alignment by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteAlignment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM alignments WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
