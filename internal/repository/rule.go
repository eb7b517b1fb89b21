package repository

import (
	"database/sql"

	"ambassadors/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type RuleRepository interface {
	GetGlobalRule() (*models.PostingRule, error)
	UpdateGlobalRule(rule *models.PostingRule) error
	GetWarningConfig() (*models.WarningConfig, error)
	UpdateWarningConfig(cfg *models.WarningConfig) error
}

type ruleRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRuleRepository(db *sqlx.DB, logger *zap.Logger) RuleRepository {
	return &ruleRepository{db: db, logger: logger}
}

// GetGlobalRule returns the singleton posting rule. When the row is missing
// the hardcoded defaults apply; a missing rule is never an error.
func (r *ruleRepository) GetGlobalRule() (*models.PostingRule, error) {
	var rule models.PostingRule
	query := `SELECT id, stories_per_week, posts_per_week, reels_per_week, rules_text
	          FROM posting_rules ORDER BY id LIMIT 1`
	err := r.db.Get(&rule, query)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("No posting rule configured, using defaults")
			return models.DefaultPostingRule(), nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) UpdateGlobalRule(rule *models.PostingRule) error {
	query := `UPDATE posting_rules
	          SET stories_per_week = $1, posts_per_week = $2, reels_per_week = $3, rules_text = $4
	          WHERE id = (SELECT id FROM posting_rules ORDER BY id LIMIT 1)`
	res, err := r.db.Exec(query, rule.StoriesPerWeek, rule.PostsPerWeek, rule.ReelsPerWeek, rule.RulesText)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// First write: create the singleton row.
		insert := `INSERT INTO posting_rules (stories_per_week, posts_per_week, reels_per_week, rules_text)
		           VALUES ($1, $2, $3, $4)`
		_, err = r.db.Exec(insert, rule.StoriesPerWeek, rule.PostsPerWeek, rule.ReelsPerWeek, rule.RulesText)
	}
	return err
}

// GetWarningConfig returns the singleton escalation config, falling back to
// the documented defaults when unset.
func (r *ruleRepository) GetWarningConfig() (*models.WarningConfig, error) {
	var cfg models.WarningConfig
	query := `SELECT id, inactivity_window_days, second_grace_days, third_grace_days,
	                 noncompliance_grace_days, template_level_1, template_level_2, template_level_3
	          FROM warning_configs ORDER BY id LIMIT 1`
	err := r.db.Get(&cfg, query)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("No warning config found, using defaults")
			return models.DefaultWarningConfig(), nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ruleRepository) UpdateWarningConfig(cfg *models.WarningConfig) error {
	query := `UPDATE warning_configs
	          SET inactivity_window_days = $1, second_grace_days = $2, third_grace_days = $3,
	              noncompliance_grace_days = $4, template_level_1 = $5, template_level_2 = $6,
	              template_level_3 = $7
	          WHERE id = (SELECT id FROM warning_configs ORDER BY id LIMIT 1)`
	res, err := r.db.Exec(query, cfg.InactivityWindowDays, cfg.SecondGraceDays, cfg.ThirdGraceDays,
		cfg.NoncomplianceGraceDays, cfg.TemplateLevel1, cfg.TemplateLevel2, cfg.TemplateLevel3)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		insert := `INSERT INTO warning_configs (inactivity_window_days, second_grace_days, third_grace_days,
		               noncompliance_grace_days, template_level_1, template_level_2, template_level_3)
		           VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err = r.db.Exec(insert, cfg.InactivityWindowDays, cfg.SecondGraceDays, cfg.ThirdGraceDays,
			cfg.NoncomplianceGraceDays, cfg.TemplateLevel1, cfg.TemplateLevel2, cfg.TemplateLevel3)
	}
	return err
}
