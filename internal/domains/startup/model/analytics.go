package model

import (
	"time"

	"github.com/google/uuid"
)

// FounderStats aggregates across every startup a founder owns.
type FounderStats struct {
	Views        int64 `json:"views"`
	Feedbacks    int64 `json:"feedbacks"`
	Matches      int64 `json:"matches"`
	FeedbackRate int64 `json:"feedback_rate"`
}

type FounderTrendingItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Tagline  string    `json:"tagline"`
	Upvotes  int64     `json:"upvotes"`
	Views    int64     `json:"views"`
	Industry string    `json:"industry"`
}

type FounderAnalytics struct {
	Stats    FounderStats          `json:"stats"`
	Trending []FounderTrendingItem `json:"trending"`
	Count    int                   `json:"count"`
}

type AnalyticsOverview struct {
	TotalViews     int64 `json:"total_views"`
	TotalUpvotes   int64 `json:"total_upvotes"`
	TotalFeedback  int64 `json:"total_feedback"`
	EngagementRate int64 `json:"engagement_rate"`
	FeedbackRate   int64 `json:"feedback_rate"`
	AvgViewsPerDay int64 `json:"avg_views_per_day"`
	GrowthRate     int64 `json:"growth_rate"`
}

type DailyPoint struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Upvotes  int64  `json:"upvotes"`
	Feedback int64  `json:"feedback"`
}

type HourlyPoint struct {
	Hour    string `json:"hour"`
	Views   int64  `json:"views"`
	Upvotes int64  `json:"upvotes"`
}

type TopPerformer struct {
	Metric string `json:"metric"`
	Value  int64  `json:"value"`
	Date   string `json:"date"`
}

type ActivityKind string

const (
	ActivityUpvote   ActivityKind = "upvote"
	ActivityFeedback ActivityKind = "feedback"
)

type Activity struct {
	Type      ActivityKind `json:"type"`
	User      string       `json:"user"`
	Timestamp time.Time    `json:"timestamp"`
}

type StartupAnalytics struct {
	Overview       AnalyticsOverview `json:"overview"`
	DailyData      []DailyPoint      `json:"daily_data"`
	HourlyData     []HourlyPoint     `json:"hourly_data"`
	TopPerformers  []TopPerformer    `json:"top_performers"`
	RecentActivity []Activity        `json:"recent_activity"`
}

// TimeCount is a count attached to a timestamp, used for raw series rows
// (view buckets, upvotes, feedback) before they are folded into days/hours.
type TimeCount struct {
	At    time.Time
	Count int64
}

// AnalyticsSource is the raw data read for one startup's analytics.
type AnalyticsSource struct {
	ViewBuckets    []TimeCount
	Upvotes        []TimeCount
	Feedback       []TimeCount
	TotalUpvotes   int64
	TotalFeedback  int64
	RecentUpvotes  []Activity
	RecentFeedback []Activity
}
