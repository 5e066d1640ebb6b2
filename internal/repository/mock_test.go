package repository

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock.NewPool error: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func strPtr(s string) *string { return &s }

var contentRowColumns = []string{
	"id", "owner_id", "media_type", "media_url", "creator_description", "category",
	"approved", "rating_avg", "rating_count", "growth_index", "growth_percentage", "like_count", "created_at",
}

func contentRows(ids ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows(contentRowColumns)
	for _, id := range ids {
		rows.AddRow(id, strPtr("owner-1"), "video", "https://cdn.example.com/"+id+".mp4", "desc", nil,
			true, 4.0, 2, 3, 25, 1, testNow)
	}
	return rows
}

var userRowColumns = []string{
	"id", "email", "username", "display_name", "bio_description", "profile_image_url",
	"role", "is_creator", "is_creator_verified", "is_active", "created_at",
}

func userRow(id, role string) *pgxmock.Rows {
	return pgxmock.NewRows(userRowColumns).
		AddRow(id, id+"@example.com", strPtr(id), "", "", "", role, false, false, true, testNow)
}

var verificationRowColumns = []string{
	"id", "user_id", "category", "degree_title", "professional_register",
	"identity_document_path", "degree_document_path", "register_document_path",
	"status", "admin_note", "created_at", "reviewed_at",
}

func verificationRow(id, userID, status string) *pgxmock.Rows {
	return pgxmock.NewRows(verificationRowColumns).
		AddRow(id, userID, "medicina", "MD", nil, "", "", nil, status, nil, testNow, nil)
}
