package domain

import "time"

const MaxCommentLength = 500

// ModerationVerdict es el resultado del scorer sobre un comentario.
type ModerationVerdict struct {
	Approved bool   `json:"is_approved"`
	Flagged  bool   `json:"is_flagged"`
	Score    int    `json:"score"`
	Note     string `json:"note"`
}

// Comment guarda el veredicto de moderación fijado en la creación.
// ParentID referencia otro comentario del mismo contenido.
type Comment struct {
	ID              string    `json:"id"`
	ContentID       string    `json:"content_id"`
	AuthorID        string    `json:"user_id"`
	Body            string    `json:"text"`
	ParentID        *string   `json:"parent_id"`
	IsApproved      bool      `json:"is_approved"`
	IsFlagged       bool      `json:"is_flagged"`
	ModerationScore int       `json:"moderation_score"`
	ModerationNote  string    `json:"moderation_note"`
	CreatedAt       time.Time `json:"created_at"`
}

type CommentFilter string

const (
	CommentFilterPending  CommentFilter = "pending"
	CommentFilterApproved CommentFilter = "approved"
	CommentFilterFlagged  CommentFilter = "flagged"
)

func ParseCommentFilter(s string) (CommentFilter, error) {
	switch f := CommentFilter(s); f {
	case CommentFilterPending, CommentFilterApproved, CommentFilterFlagged:
		return f, nil
	default:
		return "", ErrInvalidInput
	}
}
