package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journowlAPI/internal/xp"
)

// XPService is the ledger: it applies monotonic XP deltas and derives the
// level from the stored total.
type XPService struct {
	db *pgxpool.Pool
}

func NewXPService(db *pgxpool.Pool) *XPService {
	return &XPService{db: db}
}

// Award adds XP atomically and returns the new ledger state. Negative
// amounts are rejected; XP is never reversed.
func (s *XPService) Award(ctx context.Context, userID uuid.UUID, amount int64, reason xp.Reason) (*xp.Progress, error) {
	if amount < 0 {
		return nil, fmt.Errorf("xp award cannot be negative: %d", amount)
	}

	query := `
	INSERT INTO user_xp (user_id, xp, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE
		SET xp = user_xp.xp + EXCLUDED.xp, updated_at = NOW()
	RETURNING user_id, xp, updated_at
	`

	progress := &xp.Progress{}
	err := s.db.QueryRow(ctx, query, userID, amount).Scan(
		&progress.UserID,
		&progress.XP,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to award xp: %w", err)
	}

	progress.Derive()
	xpAwarded.WithLabelValues(string(reason)).Add(float64(amount))
	return progress, nil
}

// GetProgress returns the ledger for a user. A user who was never
// initialized and never wrote an entry reads as zero XP, level 1.
func (s *XPService) GetProgress(ctx context.Context, userID uuid.UUID) (*xp.Progress, error) {
	query := `SELECT user_id, xp, updated_at FROM user_xp WHERE user_id = $1`

	progress := &xp.Progress{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&progress.UserID,
		&progress.XP,
		&progress.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		progress = &xp.Progress{UserID: userID}
		progress.Derive()
		return progress, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get xp: %w", err)
	}

	progress.Derive()
	return progress, nil
}
