package repository

import (
	"ambassadors/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type WarningRepository interface {
	InsertWarning(warning *models.Warning) error
	GetActiveWarnings(userID int64) ([]*models.Warning, error)
	HasActiveWarningAtLevel(userID int64, level int) (bool, error)
	DeactivateAllWarnings(userID int64) error
	GetWarningsByUser(userID int64) ([]*models.Warning, error)
}

type warningRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewWarningRepository(db *sqlx.DB, logger *zap.Logger) WarningRepository {
	return &warningRepository{db: db, logger: logger}
}

func (r *warningRepository) InsertWarning(warning *models.Warning) error {
	query := `INSERT INTO warnings (user_id, level, reason, window_start, window_end, sent_at, active)
	          VALUES ($1, $2, $3, $4, $5, $6, true) RETURNING id`
	return r.db.QueryRowx(query, warning.UserID, warning.Level, warning.Reason,
		warning.WindowStart, warning.WindowEnd, warning.SentAt).StructScan(warning)
}

// GetActiveWarnings returns the user's active warnings ordered by level.
func (r *warningRepository) GetActiveWarnings(userID int64) ([]*models.Warning, error) {
	var warnings []*models.Warning
	query := `SELECT id, user_id, level, reason, window_start, window_end, sent_at, active
	          FROM warnings WHERE user_id = $1 AND active = true ORDER BY level`
	if err := r.db.Select(&warnings, query, userID); err != nil {
		return nil, err
	}
	return warnings, nil
}

// HasActiveWarningAtLevel is the idempotency guard checked immediately
// before inserting a new warning. Two overlapping evaluation passes for the
// same user resolve to a single row at each level.
func (r *warningRepository) HasActiveWarningAtLevel(userID int64, level int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM warnings WHERE user_id = $1 AND level = $2 AND active = true`
	if err := r.db.Get(&count, query, userID, level); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeactivateAllWarnings closes every active warning for the user.
// Historical rows are kept for audit.
func (r *warningRepository) DeactivateAllWarnings(userID int64) error {
	query := `UPDATE warnings SET active = false WHERE user_id = $1 AND active = true`
	_, err := r.db.Exec(query, userID)
	return err
}

func (r *warningRepository) GetWarningsByUser(userID int64) ([]*models.Warning, error) {
	var warnings []*models.Warning
	query := `SELECT id, user_id, level, reason, window_start, window_end, sent_at, active
	          FROM warnings WHERE user_id = $1 ORDER BY sent_at DESC`
	if err := r.db.Select(&warnings, query, userID); err != nil {
		return nil, err
	}
	return warnings, nil
}
