package scheduler

import (
	"fmt"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/pkg/types"
)

// Config параметры расписания боксов.
// Передается в планировщик при создании, глобального состояния нет.
type Config struct {
	TotalBays           int
	OpeningTime         types.TimeString
	ClosingTime         types.TimeString
	SlotIntervalMinutes int
	Location            *time.Location
}

// DefaultConfig возвращает расписание мастерской по умолчанию: 3 бокса, 08:00-17:00, шаг 30 минут
func DefaultConfig() Config {
	return Config{
		TotalBays:           domain.DefaultTotalBays,
		OpeningTime:         domain.DefaultOpeningTime,
		ClosingTime:         domain.DefaultClosingTime,
		SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
		Location:            time.UTC,
	}
}

// Validate проверяет корректность расписания
func (c Config) Validate() error {
	if c.TotalBays < 1 || c.TotalBays > domain.MaxTotalBays {
		return fmt.Errorf("%w: total bays must be between 1 and %d, got %d", ErrInvalidConfig, domain.MaxTotalBays, c.TotalBays)
	}
	if c.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive, got %d", ErrInvalidConfig, c.SlotIntervalMinutes)
	}
	if err := c.OpeningTime.Validate(); err != nil {
		return fmt.Errorf("%w: opening time: %w", ErrInvalidConfig, err)
	}
	if err := c.ClosingTime.Validate(); err != nil {
		return fmt.Errorf("%w: closing time: %w", ErrInvalidConfig, err)
	}
	if !c.OpeningTime.IsBefore(c.ClosingTime) {
		return fmt.Errorf("%w: opening time %s must be before closing time %s", ErrInvalidConfig, c.OpeningTime, c.ClosingTime)
	}
	return nil
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
