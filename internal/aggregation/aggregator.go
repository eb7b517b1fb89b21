// Package aggregation folds raw activity records into the per-user,
// per-period shapes the compliance calculator and reporting endpoints
// consume. It only reads; nothing here has side effects.
package aggregation

import (
	"time"

	"ambassadors/internal/compliance"
	"ambassadors/internal/models"
	"ambassadors/internal/repository"

	"go.uber.org/zap"
)

// AmbassadorSummary is the per-user compliance report row.
type AmbassadorSummary struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Role     string             `json:"role"`
	Active   bool               `json:"active"`
	PhotoURL *string            `json:"photo_url,omitempty"`
	Actual   compliance.Counts  `json:"actual"`
	Expected compliance.Counts  `json:"expected"`
	Verdict  compliance.Verdict `json:"compliance"`
	Score    float64            `json:"score"`
}

// TrendBucket is one calendar month in the activity trend. Buckets are
// zero-filled: a month inside the requested range with no activity still
// appears with zero counts.
type TrendBucket struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	Counts         compliance.Counts `json:"counts"`
	CompliantUsers int               `json:"compliant_users"`
}

// Aggregator reads activity, user and rule state and produces report
// shapes. All intervals are half-open: [from, to).
type Aggregator struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	rules      repository.RuleRepository
	logger     *zap.Logger
}

func NewAggregator(users repository.UserRepository, activities repository.ActivityRepository, rules repository.RuleRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{users: users, activities: activities, rules: rules, logger: logger}
}

// AllCompliance reports every user's compliance over [from, to). When the
// bounds are nil the window defaults to the start of the current week
// through now. Users without an Instagram handle cannot be matched against
// activity and are skipped.
func (a *Aggregator) AllCompliance(from, to *time.Time) ([]*AmbassadorSummary, error) {
	start, end := weekWindow(from, to)

	users, err := a.users.GetAllUsers()
	if err != nil {
		return nil, err
	}
	rule, err := a.rules.GetGlobalRule()
	if err != nil {
		return nil, err
	}

	summaries := make([]*AmbassadorSummary, 0, len(users))
	for _, user := range users {
		if user.Handle() == "" {
			a.logger.Debug("Skipping user without instagram handle", zap.Int64("user_id", user.ID))
			continue
		}
		summary, err := a.summarize(user, rule, start, end)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UserCompliance reports a single user's compliance over [from, to),
// defaulting to the trailing 7 days. Returns nil when the user does not
// exist.
func (a *Aggregator) UserCompliance(userID int64, from, to *time.Time) (*AmbassadorSummary, error) {
	user, err := a.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil // User not found
	}

	now := time.Now().UTC()
	start, end := now.AddDate(0, 0, -7), now
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	rule, err := a.rules.GetGlobalRule()
	if err != nil {
		return nil, err
	}
	return a.summarize(user, rule, start, end)
}

// TeamCompliance reports compliance for every member of the team led by
// leaderID. A leader without a team yields an empty slice; activity from
// users outside any team never appears in team rollups.
func (a *Aggregator) TeamCompliance(leaderID int64, from, to *time.Time) ([]*AmbassadorSummary, error) {
	team, err := a.users.GetTeamByLeaderID(leaderID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return []*AmbassadorSummary{}, nil
	}

	members, err := a.users.GetTeamMembers(team.ID)
	if err != nil {
		return nil, err
	}
	rule, err := a.rules.GetGlobalRule()
	if err != nil {
		return nil, err
	}

	start, end := weekWindow(from, to)
	summaries := make([]*AmbassadorSummary, 0, len(members))
	for _, member := range members {
		if member.Handle() == "" {
			continue
		}
		summary, err := a.summarize(member, rule, start, end)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MonthlyTrend aggregates all ambassadors' activity into calendar-month
// buckets over [from, to). Every month in the range appears, zero-filled
// when empty. A user counts as compliant in a month only when all three
// categories meet the rule scaled to that month.
func (a *Aggregator) MonthlyTrend(from, to time.Time) ([]*TrendBucket, error) {
	users, err := a.users.GetAllUsers()
	if err != nil {
		return nil, err
	}
	rule, err := a.rules.GetGlobalRule()
	if err != nil {
		return nil, err
	}

	buckets := newTrendBuckets(from, to)
	for _, user := range users {
		if user.Handle() == "" {
			continue
		}
		monthly, err := a.activities.MonthlyCounts(user.Handle(), from, to)
		if err != nil {
			return nil, err
		}

		perMonth := make(map[[2]int]map[string]int)
		for _, mc := range monthly {
			key := [2]int{mc.Year, mc.Month}
			if perMonth[key] == nil {
				perMonth[key] = make(map[string]int)
			}
			perMonth[key][mc.MediaType] = mc.Count
		}

		for key, counts := range perMonth {
			bucket, ok := buckets[key]
			if !ok {
				continue // Outside the requested range
			}
			actual := compliance.CountsFromMap(counts)
			bucket.Counts.Stories += actual.Stories
			bucket.Counts.Posts += actual.Posts
			bucket.Counts.Reels += actual.Reels

			monthStart := time.Date(key[0], time.Month(key[1]), 1, 0, 0, 0, 0, time.UTC)
			monthEnd := monthStart.AddDate(0, 1, 0)
			expected := compliance.ExpectedForWindow(rule, monthStart, monthEnd)
			if compliance.Evaluate(actual, expected).OverallCompliant {
				bucket.CompliantUsers++
			}
		}
	}
	return sortedBuckets(from, to, buckets), nil
}

// LastActivity returns the timestamp of the user's most recent activity,
// nil when none is recorded or the user is unknown/unmatchable.
func (a *Aggregator) LastActivity(userID int64) (*time.Time, error) {
	user, err := a.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Handle() == "" {
		return nil, nil
	}
	return a.activities.LastActivityAt(user.Handle())
}

func (a *Aggregator) summarize(user *models.User, rule *models.PostingRule, from, to time.Time) (*AmbassadorSummary, error) {
	countMap, err := a.activities.CountsByMediaType(user.Handle(), from, to)
	if err != nil {
		return nil, err
	}
	actual := compliance.CountsFromMap(countMap)
	expected := compliance.ExpectedForWindow(rule, from, to)
	return &AmbassadorSummary{
		ID:       user.ID,
		Name:     user.Name,
		Role:     user.Role,
		Active:   user.Active,
		PhotoURL: user.PhotoURL,
		Actual:   actual,
		Expected: expected,
		Verdict:  compliance.Evaluate(actual, expected),
		Score:    compliance.Score(actual, expected),
	}, nil
}

// weekWindow resolves optional bounds to [start of current week, now).
func weekWindow(from, to *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -int(now.Weekday()))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := now
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}

func newTrendBuckets(from, to time.Time) map[[2]int]*TrendBucket {
	buckets := make(map[[2]int]*TrendBucket)
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cursor.Before(to) {
		key := [2]int{cursor.Year(), int(cursor.Month())}
		buckets[key] = &TrendBucket{Year: key[0], Month: key[1]}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return buckets
}

func sortedBuckets(from, to time.Time, buckets map[[2]int]*TrendBucket) []*TrendBucket {
	out := make([]*TrendBucket, 0, len(buckets))
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cursor.Before(to) {
		key := [2]int{cursor.Year(), int(cursor.Month())}
		if b, ok := buckets[key]; ok {
			out = append(out, b)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}
