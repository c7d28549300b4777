package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/appgate/internal/app"
	"github.com/allisson/appgate/internal/config"
)

// RunCleanAuditEvents deletes audit decision records older than the specified
// number of days.
//
// Requirements: the audit database must be migrated and accessible.
func RunCleanAuditEvents(ctx context.Context, days int) error {
	if days < 1 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("cleaning audit decision records", slog.Int("days", days))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	decisionUseCase, err := container.DecisionUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize decision use case: %w", err)
	}

	count, err := decisionUseCase.Clean(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to delete decision records: %w", err)
	}

	fmt.Printf("Successfully deleted %d decision record(s) older than %d day(s)\n", count, days)

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
	)

	return nil
}
