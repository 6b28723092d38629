package model

import "time"

const (
	// Content rules
	MinNameLength        = 2
	MinTaglineLength     = 10
	MinDescriptionLength = 50
	MaxCategories        = 3
	MaxMediaEntries      = 5
	MaxMediaBytes        = 5 * 1024 * 1024

	// Ranking
	TrendingLimit        = 20
	FounderTrendingLimit = 5
	TrendingWeekWindow   = 7 * 24 * time.Hour

	// Analytics series
	AnalyticsDays     = 30
	GrowthWindowDays  = 15
	RecentActivityMax = 5
	RecentPerKind     = 3

	// View buckets older than this are pruned by the worker.
	ViewBucketRetention = 90 * 24 * time.Hour

	// Cache
	TrendingCacheTTL      = 60 * time.Second
	FilterOptionsCacheTTL = 5 * time.Minute
	FilterOptionsCacheKey = "startups:filter_options"
	trendingCacheKeyBase  = "startups:trending:"
)

// TrendingWindow selects the upvote range used for ranking.
type TrendingWindow string

const (
	WindowWeek TrendingWindow = "week"
	WindowAll  TrendingWindow = "all"
)

// ParseTrendingWindow maps "all" to the unbounded window and anything else
// to the last seven days.
func ParseTrendingWindow(s string) TrendingWindow {
	if TrendingWindow(s) == WindowAll {
		return WindowAll
	}
	return WindowWeek
}

func TrendingCacheKey(w TrendingWindow) string {
	return trendingCacheKeyBase + string(w)
}

// TrendingCachePattern matches every cached trending window.
const TrendingCachePattern = trendingCacheKeyBase + "*"
