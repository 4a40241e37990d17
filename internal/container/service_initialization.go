package container

import (
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/simple-catalog/internal/config"
)

// InitializeAPI builds the container for the catalog API process
func InitializeAPI(cfg *config.AppConfig, logger *slog.Logger) (Container, error) {
	container := NewContainer()

	if err := RegisterAPIServices(container, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to register services: %w", err)
	}

	return container, nil
}

// InitializeWeb builds the container for the web front end process
func InitializeWeb(cfg *config.AppConfig, logger *slog.Logger) (Container, error) {
	container := NewContainer()

	if err := RegisterWebServices(container, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to register services: %w", err)
	}

	return container, nil
}
