// Package compliance derives quota verdicts from activity counts.
// Everything here is a pure function of its inputs so the warning engine
// and reporting can be tested without a database.
package compliance

import (
	"math"
	"time"

	"ambassadors/internal/models"
)

// Category verdict values.
const (
	Met   = "met"
	Unmet = "unmet"
)

// Counts holds per-category activity totals for one user and period.
type Counts struct {
	Stories int `json:"stories"`
	Posts   int `json:"posts"`
	Reels   int `json:"reels"`
}

// CountsFromMap builds Counts from a media_type -> count map, defaulting
// unseen categories to zero.
func CountsFromMap(m map[string]int) Counts {
	return Counts{
		Stories: m[models.MediaTypeStory],
		Posts:   m[models.MediaTypePost],
		Reels:   m[models.MediaTypeReel],
	}
}

// Verdict is the strict boolean compliance result for one user and period.
type Verdict struct {
	Story            string `json:"story"`
	Post             string `json:"post"`
	Reel             string `json:"reel"`
	OverallCompliant bool   `json:"overall_compliant"`
}

// ExpectedForWindow scales the weekly posting rule to the half-open window
// [from, to). Expected counts grow linearly with the window length, with a
// one-week floor, and are rounded up to whole posts. This keeps quotas
// comparable across arbitrary date ranges without special-casing partial
// weeks.
func ExpectedForWindow(rule *models.PostingRule, from, to time.Time) Counts {
	weeks := to.Sub(from).Hours() / 24 / 7
	if weeks < 1 {
		weeks = 1
	}
	scale := func(perWeek int) int {
		return int(math.Ceil(float64(perWeek) * weeks))
	}
	return Counts{
		Stories: scale(rule.StoriesPerWeek),
		Posts:   scale(rule.PostsPerWeek),
		Reels:   scale(rule.ReelsPerWeek),
	}
}

// Evaluate compares actual counts against expected counts. A category is
// met when actual >= expected; an expected count of zero is trivially met.
// OverallCompliant holds only when all three categories are met.
func Evaluate(actual, expected Counts) Verdict {
	v := Verdict{
		Story: categoryVerdict(actual.Stories, expected.Stories),
		Post:  categoryVerdict(actual.Posts, expected.Posts),
		Reel:  categoryVerdict(actual.Reels, expected.Reels),
	}
	v.OverallCompliant = v.Story == Met && v.Post == Met && v.Reel == Met
	return v
}

func categoryVerdict(actual, expected int) string {
	if expected <= 0 || actual >= expected {
		return Met
	}
	return Unmet
}

// Score is the normalized 0-100 compliance score used for continuous
// ranking: min(actual/expected, 1) * 100 averaged over the three
// categories. The warning engine never uses this; it relies on the strict
// boolean form from Evaluate.
func Score(actual, expected Counts) float64 {
	ratios := []float64{
		categoryRatio(actual.Stories, expected.Stories),
		categoryRatio(actual.Posts, expected.Posts),
		categoryRatio(actual.Reels, expected.Reels),
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios)) * 100
}

func categoryRatio(actual, expected int) float64 {
	if expected <= 0 {
		return 1
	}
	r := float64(actual) / float64(expected)
	if r > 1 {
		return 1
	}
	return r
}
