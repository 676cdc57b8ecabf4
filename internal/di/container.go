// Package di provides dependency injection configuration for the narration
// alignment service.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-narration/internal/audio"
	"github.com/listenupapp/listenup-narration/internal/config"
	"github.com/listenupapp/listenup-narration/internal/di/providers"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/service"
	"github.com/listenupapp/listenup-narration/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Transcription layer
	do.Provide(injector, providers.ProvideTranscriptionClient)
	do.Provide(injector, providers.ProvideAudioProber)

	// Business services
	do.Provide(injector, providers.ProvideAlignmentService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.TranscriptionClientHandle](injector)
	_ = do.MustInvoke[*audio.Prober](injector)

	_ = do.MustInvoke[*service.AlignmentService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
