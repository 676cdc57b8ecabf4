package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/audio"
	"github.com/listenupapp/listenup-narration/internal/config"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/service"
	"github.com/listenupapp/listenup-narration/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAlignmentService provides the alignment orchestration service.
func ProvideAlignmentService(i do.Injector) (*service.AlignmentService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*TranscriptionClientHandle](i)
	prober := do.MustInvoke[*audio.Prober](i)
	validator := do.MustInvoke[*validation.Validator](i)

	return service.NewAlignmentService(
		storeHandle.Store,
		clientHandle.Client,
		prober,
		validator,
		service.AlignmentConfig{
			Options: alignment.Options{
				StartLookahead: cfg.Align.StartLookahead,
				TokenWindow:    cfg.Align.TokenWindow,
			},
			MaxConcurrent:   cfg.Align.MaxConcurrent,
			FallbackEnabled: cfg.Align.FallbackEnabled,
			DefaultLanguage: cfg.Whisper.Language,
		},
		log.WithComponent("alignment"),
	), nil
}
