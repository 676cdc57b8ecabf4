package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second
)

// Version is reported in the OpenAPI document. Set with
// -ldflags "-X github.com/listenupapp/listenup-narration/internal/di/providers.Version=...".
var Version = "dev"
