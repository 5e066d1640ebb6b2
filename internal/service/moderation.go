package service

import (
	"strings"
	"unicode"

	"tryhup-api/internal/domain"
)

const (
	noteToxic      = "toxic language detected"
	noteAggressive = "aggressive tone detected"
	noteClean      = "clean comment"

	toxicPenalty      = 50
	aggressivePenalty = 20
)

// ModerationScorer evalúa comentarios con reglas fijas. Es un placeholder
// reemplazable: lo que se mantiene es la forma del veredicto.
type ModerationScorer struct {
	banned []string
}

// NewModerationScorer recibe la lista de términos prohibidos; el orden de la
// lista decide qué término se reporta primero.
func NewModerationScorer(bannedTerms []string) *ModerationScorer {
	banned := make([]string, 0, len(bannedTerms))
	for _, t := range bannedTerms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			banned = append(banned, t)
		}
	}
	return &ModerationScorer{banned: banned}
}

// Score es una función pura del texto.
func (m *ModerationScorer) Score(text string) domain.ModerationVerdict {
	v := domain.ModerationVerdict{Approved: true}
	lowered := strings.ToLower(text)

	for _, term := range m.banned {
		if strings.Contains(lowered, term) {
			v.Score += toxicPenalty
			v.Flagged = true
			v.Approved = false
			v.Note = noteToxic
			break
		}
	}

	if strings.Contains(text, "!!!") || isAllUpper(text) {
		v.Score += aggressivePenalty
		v.Flagged = true
		v.Approved = false
		v.Note = noteAggressive
	}

	if v.Score == 0 {
		v.Note = noteClean
	}
	return v
}

// isAllUpper es cierto si hay al menos una letra con caso y ninguna minúscula.
func isAllUpper(text string) bool {
	cased := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}
