package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/startup/model"
)

type upvoteRow struct {
	startupID uuid.UUID
	userID    uuid.UUID
	at        time.Time
}

type feedbackRow struct {
	startupID uuid.UUID
	author    string
	at        time.Time
}

// memStore implements the startup, upvote and analytics repositories in
// memory so services can be exercised without Postgres.
type memStore struct {
	mu       sync.Mutex
	now      func() time.Time
	startups map[uuid.UUID]*model.Startup
	names    map[uuid.UUID]string
	upvotes  []upvoteRow
	feedback []feedbackRow
	buckets  map[uuid.UUID]map[time.Time]int64

	feedErrs int
	writeErr error
	users    int64
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		now:      now,
		startups: map[uuid.UUID]*model.Startup{},
		names:    map[uuid.UUID]string{},
		buckets:  map[uuid.UUID]map[time.Time]int64{},
	}
}

func (m *memStore) upvoteCount(id uuid.UUID) int64 {
	var n int64
	for _, u := range m.upvotes {
		if u.startupID == id {
			n++
		}
	}
	return n
}

func (m *memStore) listing(s *model.Startup) model.StartupListing {
	return model.StartupListing{
		Startup:      *s,
		Upvotes:      m.upvoteCount(s.ID),
		FounderName:  m.names[s.FounderID],
		FounderEmail: "founder@example.com",
	}
}

func (m *memStore) sorted(keep func(*model.Startup) bool) []model.StartupListing {
	out := []model.StartupListing{}
	for _, s := range m.startups {
		if keep(s) {
			out = append(out, m.listing(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) hasUpvoted(startupID, userID uuid.UUID) bool {
	for _, u := range m.upvotes {
		if u.startupID == startupID && u.userID == userID {
			return true
		}
	}
	return false
}

// StartupRepository

func (m *memStore) Create(ctx context.Context, s *model.Startup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := *s
	m.startups[s.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, s *model.Startup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.startups[s.ID]; !ok {
		return model.ErrStartupNotFound
	}
	cp := *s
	m.startups[s.ID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Startup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.startups[id]
	if !ok {
		return nil, model.ErrStartupNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetListing(ctx context.Context, id uuid.UUID) (*model.StartupListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.startups[id]
	if !ok {
		return nil, model.ErrStartupNotFound
	}
	l := m.listing(s)
	return &l, nil
}

func (m *memStore) ListFeed(ctx context.Context, filter model.FeedFilter) ([]model.StartupListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feedErrs > 0 {
		m.feedErrs--
		return nil, context.DeadlineExceeded
	}
	return m.sorted(func(s *model.Startup) bool {
		if filter.ExcludeUpvoted != nil && m.hasUpvoted(s.ID, *filter.ExcludeUpvoted) {
			return false
		}
		if len(filter.Interests) == 0 {
			return true
		}
		for _, c := range s.Categories {
			for _, i := range filter.Interests {
				if c == i {
					return true
				}
			}
		}
		return false
	}), nil
}

func (m *memStore) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]model.StartupListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(s *model.Startup) bool { return s.FounderID == founderID }), nil
}

func (m *memStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Startup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Startup{}
	for _, id := range ids {
		if s, ok := m.startups[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) ListAdmin(ctx context.Context, status *model.Status, search string) ([]model.StartupListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(search)
	return m.sorted(func(s *model.Startup) bool {
		if status != nil && s.Status != *status {
			return false
		}
		return q == "" ||
			strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Tagline), q)
	}), nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Startup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.startups[id]
	if !ok {
		return nil, model.ErrStartupNotFound
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

func (m *memStore) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[model.Status]int64{}
	for _, s := range m.startups {
		counts[s.Status]++
	}
	return counts, nil
}

func (m *memStore) CountUsers(ctx context.Context) (int64, error) {
	return m.users, nil
}

func (m *memStore) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cats, inds := map[string]bool{}, map[string]bool{}
	for _, s := range m.startups {
		for _, c := range s.Categories {
			cats[c] = true
		}
		if s.Industry != "" {
			inds[s.Industry] = true
		}
	}
	opts := &model.FilterOptions{Categories: []string{}, Industries: []string{}}
	for c := range cats {
		opts.Categories = append(opts.Categories, c)
	}
	for i := range inds {
		opts.Industries = append(opts.Industries, i)
	}
	sort.Strings(opts.Categories)
	sort.Strings(opts.Industries)
	return opts, nil
}

func (m *memStore) IncrementView(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.startups[id]
	if !ok {
		return 0, model.ErrStartupNotFound
	}
	s.Views++
	if m.buckets[id] == nil {
		m.buckets[id] = map[time.Time]int64{}
	}
	m.buckets[id][at.UTC().Truncate(time.Hour)]++
	return s.Views, nil
}

func (m *memStore) PruneViewBuckets(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.buckets {
		for at := range b {
			if at.Before(before) {
				delete(b, at)
				n++
			}
		}
	}
	return n, nil
}

// UpvoteRepository

func (m *memStore) Add(ctx context.Context, startupID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasUpvoted(startupID, userID) {
		return false, nil
	}
	m.upvotes = append(m.upvotes, upvoteRow{startupID: startupID, userID: userID, at: m.now()})
	return true, nil
}

func (m *memStore) Remove(ctx context.Context, startupID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.upvotes[:0]
	for _, u := range m.upvotes {
		if u.startupID != startupID || u.userID != userID {
			kept = append(kept, u)
		}
	}
	m.upvotes = kept
	return nil
}

func (m *memStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UpvotedStartup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.UpvotedStartup{}
	for _, u := range m.upvotes {
		if u.userID != userID {
			continue
		}
		if s, ok := m.startups[u.startupID]; ok {
			out = append(out, model.UpvotedStartup{StartupListing: m.listing(s), UpvotedAt: u.at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpvotedAt.After(out[j].UpvotedAt) })
	return out, nil
}

func (m *memStore) TopStartups(ctx context.Context, since *time.Time, startupIDs []uuid.UUID, limit int) ([]model.UpvoteCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := map[uuid.UUID]bool{}
	for _, id := range startupIDs {
		allowed[id] = true
	}

	counts := map[uuid.UUID]int64{}
	for _, u := range m.upvotes {
		if since != nil && u.at.Before(*since) {
			continue
		}
		if startupIDs != nil && !allowed[u.startupID] {
			continue
		}
		counts[u.startupID]++
	}

	out := make([]model.UpvoteCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.UpvoteCount{StartupID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].StartupID.String() < out[j].StartupID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AnalyticsRepository

func (m *memStore) FounderTotals(ctx context.Context, startupIDs []uuid.UUID) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := map[uuid.UUID]bool{}
	for _, id := range startupIDs {
		ids[id] = true
	}
	var feedback, upvotes int64
	for _, f := range m.feedback {
		if ids[f.startupID] {
			feedback++
		}
	}
	for _, u := range m.upvotes {
		if ids[u.startupID] {
			upvotes++
		}
	}
	return feedback, upvotes, nil
}

func (m *memStore) Source(ctx context.Context, startupID uuid.UUID, since time.Time) (*model.AnalyticsSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := &model.AnalyticsSource{}
	for at, n := range m.buckets[startupID] {
		if !at.Before(since) {
			src.ViewBuckets = append(src.ViewBuckets, model.TimeCount{At: at, Count: n})
		}
	}
	for _, u := range m.upvotes {
		if u.startupID != startupID {
			continue
		}
		src.TotalUpvotes++
		if !u.at.Before(since) {
			src.Upvotes = append(src.Upvotes, model.TimeCount{At: u.at, Count: 1})
		}
		src.RecentUpvotes = append(src.RecentUpvotes, model.Activity{Type: model.ActivityUpvote, User: "Anonymous User", Timestamp: u.at})
	}
	for _, f := range m.feedback {
		if f.startupID != startupID {
			continue
		}
		src.TotalFeedback++
		if !f.at.Before(since) {
			src.Feedback = append(src.Feedback, model.TimeCount{At: f.at, Count: 1})
		}
		src.RecentFeedback = append(src.RecentFeedback, model.Activity{Type: model.ActivityFeedback, User: f.author, Timestamp: f.at})
	}
	return src, nil
}

type fakeInterests struct {
	byUser map[uuid.UUID][]string
	err    error
}

func (f *fakeInterests) GetInterests(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

// uploadingMedia stands in for object storage: data URLs become bucket URLs
// and discarded values are recorded.
type uploadingMedia struct {
	mu        sync.Mutex
	n         int
	discarded []string
}

func (u *uploadingMedia) Persist(ctx context.Context, prefix string, entries []string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e, "data:") {
			u.n++
			out = append(out, fmt.Sprintf("http://minio.local/bucket/%s/%d", prefix, u.n))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (u *uploadingMedia) Discard(ctx context.Context, stored []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range stored {
		if strings.HasPrefix(v, "http://minio.local/bucket/") {
			u.discarded = append(u.discarded, v)
		}
	}
}
