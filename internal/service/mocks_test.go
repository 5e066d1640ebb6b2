package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"tryhup-api/internal/domain"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockUserRepo struct {
	usersByID     map[string]domain.User
	usersByEmail  map[string]string
	usersByHandle map[string]string
	updates       int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:     make(map[string]domain.User),
		usersByEmail:  make(map[string]string),
		usersByHandle: make(map[string]string),
	}
}

func (m *mockUserRepo) put(user domain.User) domain.User {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	if user.Handle != nil {
		m.usersByHandle[*user.Handle] = user.ID
	}
	return user
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.usersByEmail[user.Email]; ok {
		return domain.ErrConflict
	}
	m.put(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByHandle(ctx context.Context, handle string) (domain.User, error) {
	id, ok := m.usersByHandle[handle]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	prev, ok := m.usersByID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if user.Handle != nil {
		if owner, taken := m.usersByHandle[*user.Handle]; taken && owner != user.ID {
			return domain.ErrConflict
		}
	}
	if prev.Handle != nil {
		delete(m.usersByHandle, *prev.Handle)
	}
	m.updates++
	m.put(user)
	return nil
}

type mockLoginCodeRepo struct {
	codes []domain.LoginCode
	locks []string
}

func (m *mockLoginCodeRepo) LockEmail(_ context.Context, email string) error {
	m.locks = append(m.locks, email)
	return nil
}

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
	found := -1
	for i, c := range m.codes {
		if c.Email != email || !c.ValidAt(now) {
			continue
		}
		if found < 0 || !c.CreatedAt.Before(m.codes[found].CreatedAt) {
			found = i
		}
	}
	if found < 0 {
		return domain.LoginCode{}, domain.ErrNotFound
	}
	return m.codes[found], nil
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

func (m *mockLoginCodeRepo) validCount(email string, now time.Time) int {
	n := 0
	for _, c := range m.codes {
		if c.Email == email && c.ValidAt(now) {
			n++
		}
	}
	return n
}

type mockVerificationRepo struct {
	byID map[string]domain.VerificationRequest
}

func newMockVerificationRepo() *mockVerificationRepo {
	return &mockVerificationRepo{byID: make(map[string]domain.VerificationRequest)}
}

func (m *mockVerificationRepo) Create(_ context.Context, v domain.VerificationRequest) error {
	for _, existing := range m.byID {
		if existing.UserID == v.UserID {
			return domain.ErrConflict
		}
	}
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
	stored, ok := m.byID[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != domain.VerificationPending {
		return domain.ErrAlreadyProcessed
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
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type mockFollowRepo struct {
	users *mockUserRepo
	edges map[[2]string]domain.Follow
}

func newMockFollowRepo(users *mockUserRepo) *mockFollowRepo {
	return &mockFollowRepo{users: users, edges: make(map[[2]string]domain.Follow)}
}

func (m *mockFollowRepo) Create(_ context.Context, f domain.Follow) error {
	key := [2]string{f.FollowerID, f.FolloweeID}
	if _, ok := m.edges[key]; ok {
		return domain.ErrConflict
	}
	m.edges[key] = f
	return nil
}

func (m *mockFollowRepo) Delete(_ context.Context, followerID, followeeID string) error {
	key := [2]string{followerID, followeeID}
	if _, ok := m.edges[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *mockFollowRepo) ListFollowers(_ context.Context, userID string) ([]domain.User, error) {
	var out []domain.User
	for key := range m.edges {
		if key[1] == userID {
			out = append(out, m.users.usersByID[key[0]])
		}
	}
	return out, nil
}

func (m *mockFollowRepo) ListFollowing(_ context.Context, userID string) ([]domain.User, error) {
	var out []domain.User
	for key := range m.edges {
		if key[0] == userID {
			out = append(out, m.users.usersByID[key[1]])
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

func (m *mockFollowRepo) follows(followerID, followeeID string) bool {
	_, ok := m.edges[[2]string{followerID, followeeID}]
	return ok
}

type mockContentRepo struct {
	mu      sync.Mutex
	items   map[string]domain.Content
	follows *mockFollowRepo
	seeds   []int64
}

func newMockContentRepo(follows *mockFollowRepo) *mockContentRepo {
	return &mockContentRepo{items: make(map[string]domain.Content), follows: follows}
}

func (m *mockContentRepo) Create(_ context.Context, c domain.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *mockContentRepo) GetByID(_ context.Context, id string) (domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.RatingAvg = avg
	c.RatingCount = count
	m.items[id] = c
	return nil
}

func (m *mockContentRepo) SetApproved(_ context.Context, id string, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Approved = approved
	m.items[id] = c
	return nil
}

func (m *mockContentRepo) List(_ context.Context, approved *bool) ([]domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Content
	for _, c := range m.items {
		if approved == nil || c.Approved == *approved {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockContentRepo) FollowingPage(_ context.Context, viewerID string, limit, offset int) ([]domain.Content, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Content
	for _, c := range m.items {
		if c.Approved && c.OwnerID != nil && m.follows.follows(viewerID, *c.OwnerID) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

func (m *mockContentRepo) DiscoveryPage(_ context.Context, viewerID string, seed int64, limit, offset int) ([]domain.Content, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeds = append(m.seeds, seed)
	var all []domain.Content
	for _, c := range m.items {
		if !c.Approved {
			continue
		}
		if c.OwnerID != nil && m.follows.follows(viewerID, *c.OwnerID) {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return domain.DiscoveryLess(all[i], all[j], seed) })
	return page(all, limit, offset), len(all), nil
}

func page(all []domain.Content, limit, offset int) []domain.Content {
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

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{byID: make(map[string]domain.Comment)}
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
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCommentRepo) ListByFilter(_ context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range m.byID {
		switch filter {
		case domain.CommentFilterPending:
			if !c.IsApproved {
				out = append(out, c)
			}
		case domain.CommentFilterApproved:
			if c.IsApproved {
				out = append(out, c)
			}
		case domain.CommentFilterFlagged:
			if c.IsFlagged {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCommentRepo) SetReview(_ context.Context, id string, approved, flagged bool) (domain.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	c.IsApproved = approved
	c.IsFlagged = flagged
	m.byID[id] = c
	return c, nil
}

type mockLikeRepo struct {
	likes map[[2]string]domain.Like
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{likes: make(map[[2]string]domain.Like)}
}

func (m *mockLikeRepo) Create(_ context.Context, l domain.Like) error {
	key := [2]string{l.UserID, l.ContentID}
	if _, ok := m.likes[key]; ok {
		return domain.ErrConflict
	}
	m.likes[key] = l
	return nil
}

func (m *mockLikeRepo) Delete(_ context.Context, userID, contentID string) error {
	key := [2]string{userID, contentID}
	if _, ok := m.likes[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.likes, key)
	return nil
}

type mockEmailSender struct {
	mu    sync.Mutex
	sent  []sentCode
	err   error
	calls int
}

type sentCode struct {
	to        string
	code      string
	expiresAt time.Time
}

func (m *mockEmailSender) SendLoginCode(_ context.Context, toEmail string, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{to: toEmail, code: code, expiresAt: expiresAt})
	return nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) bool { return true }

func strPtr(s string) *string { return &s }
