package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
)

func newCommentFixture(t *testing.T) (*CommentService, *mockCommentRepo) {
	t.Helper()
	contents := newMockContentRepo(newMockFollowRepo(newMockUserRepo()))
	contents.items["c-1"] = domain.Content{ID: "c-1", Approved: true}
	contents.items["c-2"] = domain.Content{ID: "c-2", Approved: true}
	contents.items["c-draft"] = domain.Content{ID: "c-draft"}
	comments := newMockCommentRepo()
	return NewCommentService(zap.NewNop(), comments, contents, NewModerationScorer(defaultBanned), nil), comments
}

func TestCreateCommentStoresVerdict(t *testing.T) {
	svc, comments := newCommentFixture(t)
	ctx := context.Background()

	clean, err := svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: "nice post"})
	require.NoError(t, err)
	assert.True(t, clean.IsApproved)
	assert.Equal(t, "clean comment", clean.ModerationNote)

	toxic, err := svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: "I hate it"})
	require.NoError(t, err)
	assert.False(t, toxic.IsApproved)
	assert.True(t, toxic.IsFlagged)
	assert.GreaterOrEqual(t, toxic.ModerationScore, 50)

	assert.Len(t, comments.byID, 2)

	visible, err := svc.ListApproved(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, clean.ID, visible[0].ID)
}

func TestCreateCommentValidation(t *testing.T) {
	svc, _ := newCommentFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: strings.Repeat("a", domain.MaxCommentLength+1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, "u-1", "missing", CreateCommentInput{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Create(ctx, "u-1", "c-draft", CreateCommentInput{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
}

func TestCreateCommentThreading(t *testing.T) {
	svc, _ := newCommentFixture(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: "root"})
	require.NoError(t, err)

	reply, err := svc.Create(ctx, "u-2", "c-1", CreateCommentInput{Text: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	_, err = svc.Create(ctx, "u-2", "c-2", CreateCommentInput{Text: "cross", ParentID: &root.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "parent must belong to the same content")

	_, err = svc.Create(ctx, "u-2", "c-1", CreateCommentInput{Text: "orphan", ParentID: strPtr("ghost")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	blank, err := svc.Create(ctx, "u-2", "c-1", CreateCommentInput{Text: "no parent", ParentID: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, blank.ParentID)
}

func TestReviewOverridesFlagsOnly(t *testing.T) {
	svc, _ := newCommentFixture(t)
	ctx := context.Background()

	toxic, err := svc.Create(ctx, "u-1", "c-1", CreateCommentInput{Text: "stupid"})
	require.NoError(t, err)

	pending, err := svc.ListForReview(ctx, domain.CommentFilterPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := svc.Review(ctx, toxic.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.False(t, approved.IsFlagged)
	assert.Equal(t, toxic.ModerationScore, approved.ModerationScore)
	assert.Equal(t, toxic.ModerationNote, approved.ModerationNote)

	rejected, err := svc.Review(ctx, toxic.ID, false)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)
	assert.True(t, rejected.IsFlagged)

	_, err = svc.Review(ctx, "ghost", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	flagged, err := svc.ListForReview(ctx, domain.CommentFilterFlagged)
	require.NoError(t, err)
	assert.Len(t, flagged, 1)
}
