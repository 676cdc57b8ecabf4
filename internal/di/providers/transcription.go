package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-narration/internal/audio"
	"github.com/listenupapp/listenup-narration/internal/config"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/transcription"
)

// TranscriptionClientHandle wraps the transcription client with shutdown capability.
type TranscriptionClientHandle struct {
	*transcription.Client
}

// Shutdown implements do.Shutdownable.
func (h *TranscriptionClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideTranscriptionClient provides the whisper service client.
func ProvideTranscriptionClient(i do.Injector) (*TranscriptionClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := transcription.New(transcription.Config{
		BaseURL:  cfg.Whisper.URL,
		Timeout:  cfg.Whisper.Timeout,
		Language: cfg.Whisper.Language,
		RPS:      cfg.Whisper.RPS,
	}, log.WithComponent("transcription").Logger)

	log.Info("Transcription client configured", "url", cfg.Whisper.URL, "timeout", cfg.Whisper.Timeout)

	return &TranscriptionClientHandle{Client: client}, nil
}

// ProvideAudioProber provides the audio duration probe.
func ProvideAudioProber(i do.Injector) (*audio.Prober, error) {
	return audio.NewProber(), nil
}
