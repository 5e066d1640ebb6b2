package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"tryhup-api/internal/domain"
)

var commentRowColumns = []string{
	"id", "content_id", "user_id", "text", "parent_id", "is_approved", "is_flagged",
	"moderation_score", "moderation_note", "created_at",
}

func TestCommentListByFilter(t *testing.T) {
	cases := []struct {
		filter domain.CommentFilter
		where  string
	}{
		{domain.CommentFilterApproved, `is_approved`},
		{domain.CommentFilterFlagged, `is_flagged`},
		{domain.CommentFilterPending, `NOT is_approved`},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			mock := newMockDB(t)
			repo := NewPgCommentRepository(mock)

			mock.ExpectQuery(`(?s)^SELECT .* FROM comments WHERE ` + tc.where + ` ORDER BY created_at DESC$`).
				WillReturnRows(pgxmock.NewRows(commentRowColumns).
					AddRow("cm-1", "c-1", "u-1", "nice post", nil, true, false, 0, "clean comment", testNow))

			items, err := repo.ListByFilter(context.Background(), tc.filter)
			if err != nil {
				t.Fatalf("ListByFilter error: %v", err)
			}
			if len(items) != 1 || items[0].Body != "nice post" || items[0].ParentID != nil {
				t.Fatalf("unexpected comments: %+v", items)
			}
			expectationsMet(t, mock)
		})
	}
}

func TestCommentListByFilter_Unknown(t *testing.T) {
	mock := newMockDB(t)
	repo := NewPgCommentRepository(mock)

	if _, err := repo.ListByFilter(context.Background(), domain.CommentFilter("spam")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCommentSetReview_Missing(t *testing.T) {
	mock := newMockDB(t)
	repo := NewPgCommentRepository(mock)

	mock.ExpectQuery(`(?s)^UPDATE comments SET is_approved = \$2, is_flagged = \$3 WHERE id = \$1 RETURNING `).
		WithArgs("missing", true, false).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.SetReview(context.Background(), "missing", true, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
