// Package warning implements the three-level escalation state machine for
// ambassador inactivity and quota non-compliance.
package warning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassadors/internal/compliance"
	"ambassadors/internal/models"
	"ambassadors/internal/notifier"
	"ambassadors/internal/repository"

	"go.uber.org/zap"
)

// ErrUserNotFound is returned by the operator commands (clear/pause) when
// the target user does not exist. Batch evaluation never returns it; there
// the affected user is silently skipped.
var ErrUserNotFound = errors.New("user not found")

// Engine advances each ambassador through the warning levels
// CLEAN -> 1 -> 2 -> 3, where level 3 is terminal and escalates to admins.
// Each evaluation pass re-reads warning state from the store, so re-running
// a pass without an intervening state change issues nothing new.
type Engine struct {
	users      repository.UserRepository
	warnings   repository.WarningRepository
	activities repository.ActivityRepository
	rules      repository.RuleRepository
	notify     notifier.Notifier
	logger     *zap.Logger
}

func NewEngine(
	users repository.UserRepository,
	warnings repository.WarningRepository,
	activities repository.ActivityRepository,
	rules repository.RuleRepository,
	notify notifier.Notifier,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		users:      users,
		warnings:   warnings,
		activities: activities,
		rules:      rules,
		notify:     notify,
		logger:     logger,
	}
}

// EvaluateAll runs one evaluation pass over all active ambassadors at the
// given instant. A failing user is logged and skipped; one ambassador's
// malformed data must not block the rest of the cohort. The context is only
// consulted between users: an in-flight user evaluation always finishes.
func (e *Engine) EvaluateAll(ctx context.Context, now time.Time) error {
	cfg, err := e.rules.GetWarningConfig()
	if err != nil {
		return fmt.Errorf("load warning config: %w", err)
	}
	rule, err := e.rules.GetGlobalRule()
	if err != nil {
		return fmt.Errorf("load posting rule: %w", err)
	}
	users, err := e.users.GetAmbassadorsForEvaluation()
	if err != nil {
		return fmt.Errorf("list ambassadors: %w", err)
	}

	e.logger.Info("Warning evaluation pass started", zap.Int("users", len(users)))
	for _, user := range users {
		if ctx.Err() != nil {
			e.logger.Info("Evaluation pass interrupted", zap.Error(ctx.Err()))
			return ctx.Err()
		}
		if err := e.evaluateUser(user, cfg, rule, now); err != nil {
			e.logger.Error("Failed to evaluate user",
				zap.Int64("user_id", user.ID),
				zap.String("username", user.Username),
				zap.Error(err))
		}
	}
	e.logger.Info("Warning evaluation pass finished")
	return nil
}

// transition is one guarded escalation rule. Rules are evaluated top to
// bottom and the pass over a user stops at the first rule that fires; the
// ordering is part of the contract (the inactivity path at level 3 wins
// over the non-compliance path when both hold).
type transition struct {
	name string
	fire func() (bool, error)
}

func (e *Engine) evaluateUser(user *models.User, cfg *models.WarningConfig, rule *models.PostingRule, now time.Time) error {
	if user.WarningEscalated {
		return nil // Terminal: level 3 reached, awaiting admin action
	}
	if user.IsPaused(now) {
		e.logger.Debug("User paused, skipping",
			zap.Int64("user_id", user.ID),
			zap.Timep("paused_until", user.WarningPausedUntil))
		return nil
	}
	handle := user.Handle()
	if handle == "" {
		// Activity is keyed by the external handle; nothing to match.
		e.logger.Debug("User has no instagram handle, skipping", zap.Int64("user_id", user.ID))
		return nil
	}

	actives, err := e.warnings.GetActiveWarnings(user.ID)
	if err != nil {
		return fmt.Errorf("load active warnings: %w", err)
	}
	level1 := findLevel(actives, models.WarningLevelFirst)
	level2 := findLevel(actives, models.WarningLevelSecond)
	if findLevel(actives, models.WarningLevelThird) != nil {
		return nil
	}

	windowStart := now.AddDate(0, 0, -cfg.InactivityWindowDays)

	transitions := []transition{
		{
			name: "first_inactivity",
			fire: func() (bool, error) {
				if level1 != nil {
					return false, nil
				}
				hasAny, err := e.activities.HasActivityInRange(handle, windowStart, now)
				if err != nil {
					return false, err
				}
				if hasAny {
					return false, nil
				}
				return true, e.issueWarning(user, models.WarningLevelFirst, models.ReasonInactivity, windowStart, now, cfg)
			},
		},
		{
			name: "second_inactivity",
			fire: func() (bool, error) {
				if level1 == nil || level2 != nil {
					return false, nil
				}
				if now.Before(level1.SentAt.AddDate(0, 0, cfg.SecondGraceDays)) {
					return false, nil
				}
				hasAny, err := e.activities.HasActivityInRange(handle, level1.WindowStart, now)
				if err != nil {
					return false, err
				}
				if hasAny {
					return false, nil
				}
				// The new window reuses the original window start.
				return true, e.issueWarning(user, models.WarningLevelSecond, models.ReasonInactivity, level1.WindowStart, now, cfg)
			},
		},
		{
			name: "third_inactivity",
			fire: func() (bool, error) {
				if level2 == nil {
					return false, nil
				}
				if now.Before(level2.SentAt.AddDate(0, 0, cfg.ThirdGraceDays)) {
					return false, nil
				}
				hasAny, err := e.activities.HasActivityInRange(handle, level2.WindowStart, now)
				if err != nil {
					return false, err
				}
				if hasAny {
					return false, nil
				}
				return true, e.issueWarning(user, models.WarningLevelThird, models.ReasonInactivity, level2.WindowStart, now, cfg)
			},
		},
		{
			name: "third_non_compliance",
			fire: func() (bool, error) {
				if level2 == nil {
					return false, nil
				}
				if now.Before(level2.SentAt.AddDate(0, 0, cfg.NoncomplianceGraceDays)) {
					return false, nil
				}
				hasPosted, err := e.activities.HasActivityInRange(handle, level2.SentAt, now)
				if err != nil {
					return false, err
				}
				if !hasPosted {
					return false, nil
				}
				counts, err := e.activities.CountsByMediaType(handle, level2.SentAt, now)
				if err != nil {
					return false, err
				}
				actual := compliance.CountsFromMap(counts)
				expected := compliance.ExpectedForWindow(rule, level2.SentAt, now)
				if compliance.Evaluate(actual, expected).OverallCompliant {
					return false, nil
				}
				return true, e.issueWarning(user, models.WarningLevelThird, models.ReasonNonCompliance, level2.SentAt, now, cfg)
			},
		},
	}

	for _, t := range transitions {
		fired, err := t.fire()
		if err != nil {
			return fmt.Errorf("transition %s: %w", t.name, err)
		}
		if fired {
			e.logger.Info("Warning transition fired",
				zap.Int64("user_id", user.ID),
				zap.String("username", user.Username),
				zap.String("transition", t.name))
			return nil
		}
	}
	return nil
}

// issueWarning persists a new warning row and notifies the ambassador.
// The active-warning check right before the insert is the idempotency
// guard against overlapping passes. Notification failures are logged and
// never roll back the persisted warning: the warning counts as issued
// once it is stored.
func (e *Engine) issueWarning(user *models.User, level int, reason string, windowStart, windowEnd time.Time, cfg *models.WarningConfig) error {
	exists, err := e.warnings.HasActiveWarningAtLevel(user.ID, level)
	if err != nil {
		return fmt.Errorf("check active warning: %w", err)
	}
	if exists {
		e.logger.Debug("Warning already active at level, not reissuing",
			zap.Int64("user_id", user.ID), zap.Int("level", level))
		return nil
	}

	warning := &models.Warning{
		UserID:      user.ID,
		Level:       level,
		Reason:      reason,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		SentAt:      windowEnd,
		Active:      true,
	}
	if err := e.warnings.InsertWarning(warning); err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	if err := e.users.IncrementWarningsCount(user.ID); err != nil {
		e.logger.Error("Failed to increment warnings count", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	data := notifier.WarningData{
		Level:       level,
		Reason:      reason,
		WindowStart: windowStart.Format(time.RFC3339),
		WindowEnd:   windowEnd.Format(time.RFC3339),
	}
	if err := e.notify.SendToAmbassador(user, cfg.TemplateForLevel(level), data); err != nil {
		e.logger.Error("Failed to notify ambassador, warning already persisted",
			zap.Int64("user_id", user.ID), zap.Int("level", level), zap.Error(err))
	}

	if level == models.WarningLevelThird {
		if err := e.users.SetWarningEscalated(user.ID, true); err != nil {
			return fmt.Errorf("set escalated flag: %w", err)
		}
		msg := fmt.Sprintf("Ambassador %s (%s) reached 3 warnings. Recommended removal.", user.Name, user.Username)
		if err := e.notify.NotifyAdmins(msg); err != nil {
			e.logger.Error("Failed to notify admins", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}
	return nil
}

// ClearUserWarnings deactivates every active warning for the user and
// resets the escalation flag, returning the user to a clean state. With
// continued inactivity the next pass starts a fresh chain at level 1.
// Historical warning rows are kept.
func (e *Engine) ClearUserWarnings(userID int64) error {
	user, err := e.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := e.warnings.DeactivateAllWarnings(userID); err != nil {
		return fmt.Errorf("deactivate warnings: %w", err)
	}
	if err := e.users.SetWarningEscalated(userID, false); err != nil {
		return fmt.Errorf("reset escalated flag: %w", err)
	}
	e.logger.Info("Cleared warnings for user", zap.Int64("user_id", userID))
	return nil
}

// PauseUserWarnings suspends evaluation for the user until the given
// instant; a nil until lifts the pause.
func (e *Engine) PauseUserWarnings(userID int64, until *time.Time) error {
	user, err := e.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := e.users.SetWarningPausedUntil(userID, until); err != nil {
		return fmt.Errorf("set pause: %w", err)
	}
	e.logger.Info("Updated warning pause for user",
		zap.Int64("user_id", userID), zap.Timep("until", until))
	return nil
}

func findLevel(warnings []*models.Warning, level int) *models.Warning {
	for _, w := range warnings {
		if w.Level == level {
			return w
		}
	}
	return nil
}
