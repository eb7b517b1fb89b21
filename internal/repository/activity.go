package repository

import (
	"database/sql"
	"time"

	"ambassadors/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MonthlyCount is one calendar-month aggregation bucket for a single
// media type. Months with no activity are zero-filled by the aggregation
// engine, not by SQL.
type MonthlyCount struct {
	Year      int    `db:"year"`
	Month     int    `db:"month"`
	MediaType string `db:"media_type"`
	Count     int    `db:"count"`
}

type ActivityRepository interface {
	SaveActivity(activity *models.Activity) (bool, error)
	CountsByMediaType(handle string, from, to time.Time) (map[string]int, error)
	HasActivityInRange(handle string, from, to time.Time) (bool, error)
	LastActivityAt(handle string) (*time.Time, error)
	MonthlyCounts(handle string, from, to time.Time) ([]MonthlyCount, error)
	GetActivitiesByUser(userID int64) ([]*models.Activity, error)
}

type activityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewActivityRepository(db *sqlx.DB, logger *zap.Logger) ActivityRepository {
	return &activityRepository{db: db, logger: logger}
}

// SaveActivity inserts an activity record. The unique permalink constraint
// deduplicates re-delivered webhooks and backfills; the bool result reports
// whether a new row was actually written.
func (r *activityRepository) SaveActivity(activity *models.Activity) (bool, error) {
	query := `INSERT INTO activities (media_type, permalink, timestamp, user_instagram_id, user_id)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (permalink) DO NOTHING
	          RETURNING id, created_at`
	err := r.db.QueryRowx(query, activity.MediaType, activity.Permalink, activity.Timestamp,
		activity.UserInstagramID, activity.UserID).StructScan(activity)
	if err != nil {
		if err == sql.ErrNoRows {
			// Conflict: the permalink was already ingested.
			r.logger.Debug("Duplicate activity skipped", zap.String("permalink", activity.Permalink))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountsByMediaType returns activity counts per media type for the given
// external handle over the half-open interval [from, to). Media types with
// no rows are absent from the map.
func (r *activityRepository) CountsByMediaType(handle string, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.Queryx(
		`SELECT media_type, COUNT(*) AS count
		 FROM activities
		 WHERE user_instagram_id = $1 AND timestamp >= $2 AND timestamp < $3
		 GROUP BY media_type`,
		handle, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mediaType string
		var count int
		if err := rows.Scan(&mediaType, &count); err != nil {
			return nil, err
		}
		counts[mediaType] = count
	}
	return counts, rows.Err()
}

func (r *activityRepository) HasActivityInRange(handle string, from, to time.Time) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM activities
	          WHERE user_instagram_id = $1 AND timestamp >= $2 AND timestamp < $3`
	if err := r.db.Get(&count, query, handle, from, to); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *activityRepository) LastActivityAt(handle string) (*time.Time, error) {
	var last time.Time
	query := `SELECT timestamp FROM activities
	          WHERE user_instagram_id = $1 ORDER BY timestamp DESC LIMIT 1`
	err := r.db.Get(&last, query, handle)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No activity recorded yet
		}
		return nil, err
	}
	return &last, nil
}

// MonthlyCounts groups a handle's activity into calendar-month buckets per
// media type over [from, to).
func (r *activityRepository) MonthlyCounts(handle string, from, to time.Time) ([]MonthlyCount, error) {
	var counts []MonthlyCount
	query := `SELECT EXTRACT(YEAR FROM timestamp)::int AS year,
	                 EXTRACT(MONTH FROM timestamp)::int AS month,
	                 media_type,
	                 COUNT(*)::int AS count
	          FROM activities
	          WHERE user_instagram_id = $1 AND timestamp >= $2 AND timestamp < $3
	          GROUP BY 1, 2, 3
	          ORDER BY 1, 2`
	if err := r.db.Select(&counts, query, handle, from, to); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *activityRepository) GetActivitiesByUser(userID int64) ([]*models.Activity, error) {
	var activities []*models.Activity
	query := `SELECT id, media_type, permalink, timestamp, user_instagram_id, user_id, created_at
	          FROM activities WHERE user_id = $1 ORDER BY timestamp DESC`
	if err := r.db.Select(&activities, query, userID); err != nil {
		return nil, err
	}
	return activities, nil
}
