package services

import (
	"context"
	"time"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Views   ViewRegistrySvc
	Sweeper ViewSweeperSvc
}

// ViewSweeperSvc manages the lifetime of idle views.
type ViewSweeperSvc interface {
	// Run closes idle views every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)

	// CloseAll closes every open view.
	CloseAll()
}
