package health

import (
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/cart-service/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
)

// NewHealthHandler builds the /health endpoint. The database check is only
// registered for the Postgres backend; the in-memory store has nothing to
// probe.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	options := []health.Option{
		health.WithComponent(health.Component{
			Name:    "cart-service",
			Version: "0.1",
		}),
		health.WithSystemInfo(),
	}

	if cfg.Storage == config.StoragePostgres {
		options = append(options, health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.DSN(),
				}),
			},
		))
	}

	h, err := health.New(options...)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
