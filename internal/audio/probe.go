// Package audio reads narration file properties needed by the aligner.
package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/simonhull/audiometa"
)

// ErrNoDuration is returned when a file parses but reports no duration.
var ErrNoDuration = errors.New("audio: file reports no duration")

// Prober reads audio file durations from container metadata.
type Prober struct{}

// NewProber creates a Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Duration returns the playback length of the file at path.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("open audio %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	if file.Audio.Duration <= 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrNoDuration)
	}
	return file.Audio.Duration, nil
}
