package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"launchsignal-backend/internal/domains/startup/model"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

func (s *startupService) GetFounderAnalytics(ctx context.Context, founderID uuid.UUID) (*model.FounderAnalytics, error) {
	listings, err := s.startups.ListByFounder(ctx, founderID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(listings))
	byID := make(map[uuid.UUID]*model.StartupListing, len(listings))
	var views int64
	for i := range listings {
		ids[i] = listings[i].ID
		byID[listings[i].ID] = &listings[i]
		views += listings[i].Views
	}

	feedback, upvotes, err := s.analytics.FounderTotals(ctx, ids)
	if err != nil {
		return nil, err
	}

	trending := []model.FounderTrendingItem{}
	if len(ids) > 0 {
		counts, err := s.upvotes.TopStartups(ctx, s.windowStart(model.WindowWeek), ids, model.FounderTrendingLimit)
		if err != nil {
			return nil, fmt.Errorf("founder weekly trending: %w", err)
		}
		for _, c := range counts {
			l, ok := byID[c.StartupID]
			if !ok {
				continue
			}
			trending = append(trending, model.FounderTrendingItem{
				ID:       l.ID,
				Name:     l.Name,
				Tagline:  l.Tagline,
				Upvotes:  c.Count,
				Views:    l.Views,
				Industry: l.Industry,
			})
		}
		sort.SliceStable(trending, func(i, j int) bool {
			return trending[i].Upvotes > trending[j].Upvotes
		})
	}

	return &model.FounderAnalytics{
		Stats: model.FounderStats{
			Views:        views,
			Feedbacks:    feedback,
			Matches:      upvotes,
			FeedbackRate: percent(feedback, views),
		},
		Trending: trending,
		Count:    len(listings),
	}, nil
}

func (s *startupService) GetStartupAnalytics(ctx context.Context, id, callerID uuid.UUID) (*model.StartupAnalytics, error) {
	startup, err := s.getStartup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !startup.IsOwnedBy(callerID) {
		return nil, model.NewNotOwnerError("You can only view analytics for your own startups")
	}

	now := s.now().UTC()
	since := startOfDay(now).AddDate(0, 0, -(model.AnalyticsDays - 1))

	src, err := s.analytics.Source(ctx, id, since)
	if err != nil {
		return nil, fmt.Errorf("load analytics: %w", err)
	}
	return buildAnalytics(src, now), nil
}

func (s *startupService) PruneViewBuckets(ctx context.Context) (int64, error) {
	return s.startups.PruneViewBuckets(ctx, s.now().Add(-model.ViewBucketRetention))
}

// buildAnalytics folds raw rows into the 30-day and 24-hour series (UTC)
// and derives the overview from them.
func buildAnalytics(src *model.AnalyticsSource, now time.Time) *model.StartupAnalytics {
	now = now.UTC()
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(model.AnalyticsDays - 1))

	daily := make([]model.DailyPoint, model.AnalyticsDays)
	dayIndex := make(map[string]int, model.AnalyticsDays)
	for i := range daily {
		date := first.AddDate(0, 0, i).Format(dateLayout)
		daily[i].Date = date
		dayIndex[date] = i
	}

	hourly := make([]model.HourlyPoint, 24)
	for h := range hourly {
		hourly[h].Hour = strconv.Itoa(h) + ":00"
	}

	todayKey := today.Format(dateLayout)
	for _, b := range src.ViewBuckets {
		at := b.At.UTC()
		if i, ok := dayIndex[at.Format(dateLayout)]; ok {
			daily[i].Views += b.Count
		}
		if at.Format(dateLayout) == todayKey {
			hourly[at.Hour()].Views += b.Count
		}
	}
	for _, u := range src.Upvotes {
		at := u.At.UTC()
		if i, ok := dayIndex[at.Format(dateLayout)]; ok {
			daily[i].Upvotes += u.Count
		}
		if at.Format(dateLayout) == todayKey {
			hourly[at.Hour()].Upvotes += u.Count
		}
	}
	for _, f := range src.Feedback {
		if i, ok := dayIndex[f.At.UTC().Format(dateLayout)]; ok {
			daily[i].Feedback += f.Count
		}
	}

	var totalViews int64
	for _, d := range daily {
		totalViews += d.Views
	}

	return &model.StartupAnalytics{
		Overview: model.AnalyticsOverview{
			TotalViews:     totalViews,
			TotalUpvotes:   src.TotalUpvotes,
			TotalFeedback:  src.TotalFeedback,
			EngagementRate: percent(src.TotalUpvotes, totalViews),
			FeedbackRate:   percent(src.TotalFeedback, totalViews),
			AvgViewsPerDay: decimal.NewFromInt(totalViews).Div(decimal.NewFromInt(model.AnalyticsDays)).Round(0).IntPart(),
			GrowthRate:     growthRate(daily),
		},
		DailyData:      daily,
		HourlyData:     hourly,
		TopPerformers:  topPerformers(daily),
		RecentActivity: recentActivity(src.RecentUpvotes, src.RecentFeedback),
	}
}

// percent returns round(part/whole*100), or 0 for an empty whole.
func percent(part, whole int64) int64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(whole)).
		Round(0).
		IntPart()
}

// growthRate compares the views of the most recent half of the series with
// the half before it.
func growthRate(daily []model.DailyPoint) int64 {
	var previous, recent int64
	split := len(daily) - model.GrowthWindowDays
	for i, d := range daily {
		if i < split {
			previous += d.Views
		} else {
			recent += d.Views
		}
	}
	if previous == 0 {
		return 0
	}
	return percent(recent-previous, previous)
}

func topPerformers(daily []model.DailyPoint) []model.TopPerformer {
	best := func(metric string, value func(model.DailyPoint) int64) model.TopPerformer {
		top := model.TopPerformer{Metric: metric}
		for i, d := range daily {
			if v := value(d); i == 0 || v > top.Value {
				top.Value = v
				top.Date = d.Date
			}
		}
		return top
	}

	return []model.TopPerformer{
		best("Peak View Day", func(d model.DailyPoint) int64 { return d.Views }),
		best("Best Engagement", func(d model.DailyPoint) int64 { return d.Upvotes }),
		best("Most Feedback", func(d model.DailyPoint) int64 { return d.Feedback }),
	}
}

func recentActivity(upvotes, feedback []model.Activity) []model.Activity {
	all := make([]model.Activity, 0, len(upvotes)+len(feedback))
	all = append(all, capActivities(upvotes)...)
	all = append(all, capActivities(feedback)...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > model.RecentActivityMax {
		all = all[:model.RecentActivityMax]
	}
	return all
}

func capActivities(a []model.Activity) []model.Activity {
	if len(a) > model.RecentPerKind {
		return a[:model.RecentPerKind]
	}
	return a
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
