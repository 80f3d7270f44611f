package app

import (
	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/service"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Registry holds the enabled extractors (nil when the service was injected)
	Registry *extractors.Registry

	// Service provides the aggregation business logic
	Service service.Service
}
