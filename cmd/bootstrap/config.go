package bootstrap

import (
	"time"

	"lessonbook/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewBookingConfig,
		NewLocation,
	),
)

func NewBookingConfig(cfg config.Config) config.BookingConfig {
	return cfg.Booking
}

// NewLocation resolves the canonical location every instant is normalized to.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
