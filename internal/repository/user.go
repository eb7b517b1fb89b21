package repository

import (
	"database/sql"
	"time"

	"ambassadors/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const userColumns = `id, name, username, instagram, role, active, team_id, phone, photo_url,
	warnings_count, warning_escalated, warning_paused_until, created_at`

type UserRepository interface {
	GetUserByID(id int64) (*models.User, error)
	GetAllUsers() ([]*models.User, error)
	GetAmbassadorsForEvaluation() ([]*models.User, error)
	GetTeamMembers(teamID int64) ([]*models.User, error)
	GetTeamByLeaderID(leaderID int64) (*models.Team, error)
	SetWarningEscalated(userID int64, escalated bool) error
	SetWarningPausedUntil(userID int64, until *time.Time) error
	IncrementWarningsCount(userID int64) error
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAllUsers() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`
	if err := r.db.Select(&users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// GetAmbassadorsForEvaluation returns the active ambassadors the warning
// engine should look at. Leaders and deactivated users are never evaluated.
func (r *userRepository) GetAmbassadorsForEvaluation() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE active = true AND role = $1 ORDER BY id`
	if err := r.db.Select(&users, query, models.RoleAmbassador); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetTeamMembers(teamID int64) ([]*models.User, error) {
	var users []*models.User
	query := `SELECT u.id, u.name, u.username, u.instagram, u.role, u.active, u.team_id,
		u.phone, u.photo_url, u.warnings_count, u.warning_escalated, u.warning_paused_until, u.created_at
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY u.name`
	if err := r.db.Select(&users, query, teamID); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetTeamByLeaderID(leaderID int64) (*models.Team, error) {
	var team models.Team
	query := `SELECT id, name, leader_id, created_at FROM teams WHERE leader_id = $1`
	err := r.db.Get(&team, query, leaderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No team for this leader
		}
		return nil, err
	}
	return &team, nil
}

func (r *userRepository) SetWarningEscalated(userID int64, escalated bool) error {
	query := `UPDATE users SET warning_escalated = $1 WHERE id = $2`
	_, err := r.db.Exec(query, escalated, userID)
	return err
}

func (r *userRepository) SetWarningPausedUntil(userID int64, until *time.Time) error {
	query := `UPDATE users SET warning_paused_until = $1 WHERE id = $2`
	_, err := r.db.Exec(query, until, userID)
	return err
}

func (r *userRepository) IncrementWarningsCount(userID int64) error {
	query := `UPDATE users SET warnings_count = warnings_count + 1 WHERE id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
