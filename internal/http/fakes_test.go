package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"tryhup-api/internal/domain"
)

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockUserRepo struct {
	byID     map[string]domain.User
	byEmail  map[string]string
	byHandle map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:     make(map[string]domain.User),
		byEmail:  make(map[string]string),
		byHandle: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.ErrConflict
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByHandle(ctx context.Context, handle string) (domain.User, error) {
	id, ok := m.byHandle[handle]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	prev, ok := m.byID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Handle != nil {
		delete(m.byHandle, *prev.Handle)
	}
	if user.Handle != nil {
		m.byHandle[*user.Handle] = user.ID
	}
	m.byID[user.ID] = user
	return nil
}

type mockLoginCodeRepo struct {
	codes []domain.LoginCode
}

func (m *mockLoginCodeRepo) LockEmail(context.Context, string) error { return nil }

func (m *mockLoginCodeRepo) InvalidateUnused(_ context.Context, email string) (int64, error) {
	var n int64
	for i := range m.codes {
		if m.codes[i].Email == email && !m.codes[i].Used {
			m.codes[i].Used = true
			n++
		}
	}
	return n, nil
}

func (m *mockLoginCodeRepo) Create(_ context.Context, code domain.LoginCode) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *mockLoginCodeRepo) LatestValid(_ context.Context, email string, now time.Time) (domain.LoginCode, error) {
	for i := len(m.codes) - 1; i >= 0; i-- {
		if m.codes[i].Email == email && m.codes[i].ValidAt(now) {
			return m.codes[i], nil
		}
	}
	return domain.LoginCode{}, domain.ErrNotFound
}

func (m *mockLoginCodeRepo) MarkUsed(_ context.Context, id string) error {
	for i := range m.codes {
		if m.codes[i].ID == id && !m.codes[i].Used {
			m.codes[i].Used = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockVerificationRepo struct {
	byID map[string]domain.VerificationRequest
}

func (m *mockVerificationRepo) Create(_ context.Context, v domain.VerificationRequest) error {
	m.byID[v.ID] = v
	return nil
}

func (m *mockVerificationRepo) GetByID(_ context.Context, id string) (domain.VerificationRequest, error) {
	v, ok := m.byID[id]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockVerificationRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.VerificationRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockVerificationRepo) GetByUserID(_ context.Context, userID string) (domain.VerificationRequest, error) {
	for _, v := range m.byID {
		if v.UserID == userID {
			return v, nil
		}
	}
	return domain.VerificationRequest{}, domain.ErrNotFound
}

func (m *mockVerificationRepo) UpdateReview(_ context.Context, v domain.VerificationRequest) error {
	if _, ok := m.byID[v.ID]; !ok {
		return domain.ErrNotFound
	}
	m.byID[v.ID] = v
	return nil
}

func (m *mockVerificationRepo) ListByStatus(_ context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	var out []domain.VerificationRequest
	for _, v := range m.byID {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

type mockFollowRepo struct {
	users *mockUserRepo
	edges map[[2]string]bool
}

func (m *mockFollowRepo) Create(_ context.Context, f domain.Follow) error {
	key := [2]string{f.FollowerID, f.FolloweeID}
	if m.edges[key] {
		return domain.ErrConflict
	}
	m.edges[key] = true
	return nil
}

func (m *mockFollowRepo) Delete(_ context.Context, followerID, followeeID string) error {
	key := [2]string{followerID, followeeID}
	if !m.edges[key] {
		return domain.ErrNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *mockFollowRepo) ListFollowers(_ context.Context, userID string) ([]domain.User, error) {
	var out []domain.User
	for key := range m.edges {
		if key[1] == userID {
			out = append(out, m.users.byID[key[0]])
		}
	}
	return out, nil
}

func (m *mockFollowRepo) ListFollowing(_ context.Context, userID string) ([]domain.User, error) {
	var out []domain.User
	for key := range m.edges {
		if key[0] == userID {
			out = append(out, m.users.byID[key[1]])
		}
	}
	return out, nil
}

func (m *mockFollowRepo) Counts(_ context.Context, userID string) (domain.SocialCounts, error) {
	var c domain.SocialCounts
	for key := range m.edges {
		if key[1] == userID {
			c.Followers++
		}
		if key[0] == userID {
			c.Following++
		}
	}
	return c, nil
}

type mockContentRepo struct {
	items   map[string]domain.Content
	follows *mockFollowRepo
}

func (m *mockContentRepo) Create(_ context.Context, c domain.Content) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockContentRepo) GetByID(_ context.Context, id string) (domain.Content, error) {
	c, ok := m.items[id]
	if !ok {
		return domain.Content{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockContentRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.Content, error) {
	return m.GetByID(ctx, id)
}

func (m *mockContentRepo) UpdateRating(_ context.Context, id string, avg float64, count int) error {
	c, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.RatingAvg, c.RatingCount = avg, count
	m.items[id] = c
	return nil
}

func (m *mockContentRepo) SetApproved(_ context.Context, id string, approved bool) error {
	c, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Approved = approved
	m.items[id] = c
	return nil
}

func (m *mockContentRepo) List(_ context.Context, approved *bool) ([]domain.Content, error) {
	var out []domain.Content
	for _, c := range m.items {
		if approved == nil || c.Approved == *approved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockContentRepo) FollowingPage(_ context.Context, viewerID string, limit, offset int) ([]domain.Content, int, error) {
	var all []domain.Content
	for _, c := range m.items {
		if c.Approved && c.OwnerID != nil && m.follows.edges[[2]string{viewerID, *c.OwnerID}] {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, limit, offset), len(all), nil
}

func (m *mockContentRepo) DiscoveryPage(_ context.Context, viewerID string, seed int64, limit, offset int) ([]domain.Content, int, error) {
	var all []domain.Content
	for _, c := range m.items {
		if !c.Approved {
			continue
		}
		if c.OwnerID != nil && m.follows.edges[[2]string{viewerID, *c.OwnerID}] {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return domain.DiscoveryLess(all[i], all[j], seed) })
	return window(all, limit, offset), len(all), nil
}

func window(all []domain.Content, limit, offset int) []domain.Content {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type mockCommentRepo struct {
	byID map[string]domain.Comment
}

func (m *mockCommentRepo) Create(_ context.Context, c domain.Comment) error {
	m.byID[c.ID] = c
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id string) (domain.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCommentRepo) ListApprovedByContent(_ context.Context, contentID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range m.byID {
		if c.ContentID == contentID && c.IsApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) ListByFilter(_ context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range m.byID {
		if (filter == domain.CommentFilterPending && !c.IsApproved) ||
			(filter == domain.CommentFilterApproved && c.IsApproved) ||
			(filter == domain.CommentFilterFlagged && c.IsFlagged) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) SetReview(_ context.Context, id string, approved, flagged bool) (domain.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	c.IsApproved, c.IsFlagged = approved, flagged
	m.byID[id] = c
	return c, nil
}

type mockLikeRepo struct {
	likes map[[2]string]bool
}

func (m *mockLikeRepo) Create(_ context.Context, l domain.Like) error {
	key := [2]string{l.UserID, l.ContentID}
	if m.likes[key] {
		return domain.ErrConflict
	}
	m.likes[key] = true
	return nil
}

func (m *mockLikeRepo) Delete(_ context.Context, userID, contentID string) error {
	key := [2]string{userID, contentID}
	if !m.likes[key] {
		return domain.ErrNotFound
	}
	delete(m.likes, key)
	return nil
}

// codeSender publica cada código enviado; la entrega es asíncrona.
type codeSender struct {
	mu    sync.Mutex
	codes chan string
}

func newCodeSender() *codeSender {
	return &codeSender{codes: make(chan string, 8)}
}

func (s *codeSender) SendLoginCode(_ context.Context, _ string, code string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes <- code
	return nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }
