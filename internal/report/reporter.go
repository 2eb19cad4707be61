// Package report persists finished matches to the durable results sink.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cubeduel/internal/domain"
)

// ErrSinkUnavailable wraps any storage failure. Callers log and drop the
// result; the realtime outcome has already been delivered and cannot be
// rolled back.
var ErrSinkUnavailable = errors.New("report: results sink unavailable")

type Reporter interface {
	Save(ctx context.Context, res domain.MatchResult) error
}

// Match is the persisted row for one won game between authenticated
// players.
type Match struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Player1ID string `gorm:"index;not null" json:"player1_id"`
	Player2ID string `gorm:"index;not null" json:"player2_id"`
	WinnerID  string `gorm:"index;not null" json:"winner_id"`
	CubeSize  int    `gorm:"default:3" json:"cube_size"`

	PlayedAt int64 `gorm:"not null" json:"played_at"`
}

// PostgresReporter writes matches through gorm.
type PostgresReporter struct {
	db *gorm.DB
}

// Open connects to postgres, verifies the connection and migrates the
// matches table.
func Open(url string) (*PostgresReporter, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := db.AutoMigrate(&Match{}); err != nil {
		return nil, fmt.Errorf("migrate matches: %w", err)
	}
	return &PostgresReporter{db: db}, nil
}

func (r *PostgresReporter) Save(ctx context.Context, res domain.MatchResult) error {
	m := Match{
		Player1ID: string(res.Player1),
		Player2ID: string(res.Player2),
		WinnerID:  string(res.Winner),
		CubeSize:  res.CubeSize,
		PlayedAt:  res.PlayedAt.Unix(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	log.Info().Str("module", "report").
		Str("player1", m.Player1ID).
		Str("player2", m.Player2ID).
		Str("winner", m.WinnerID).
		Int("cube_size", m.CubeSize).
		Msg("match saved")
	return nil
}

// NopReporter is used when no database is configured; matches between
// authenticated players are simply not recorded.
type NopReporter struct{}

func (NopReporter) Save(_ context.Context, res domain.MatchResult) error {
	log.Debug().Str("module", "report").
		Str("winner", string(res.Winner)).
		Msg("no results sink configured, match dropped")
	return nil
}
