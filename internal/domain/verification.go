package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

const (
	MinAdminNoteLength = 5
	MaxAdminNoteLength = 500
)

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch st := VerificationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return st, nil
	default:
		return "", ErrInvalidInput
	}
}

// IsTerminal indica si el estado ya no admite transiciones.
func (s VerificationStatus) IsTerminal() bool {
	switch s {
	case VerificationVerified, VerificationRejected:
		return true
	case VerificationPending:
		return false
	default:
		return true
	}
}

// VerificationRequest es la solicitud de verificación de un creator en
// categoría sensible. Hay como máximo una por usuario.
type VerificationRequest struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	Category             string             `json:"category"`
	DegreeTitle          string             `json:"degree_title"`
	ProfessionalRegister *string            `json:"professional_register"`
	IdentityDocumentPath string             `json:"-"`
	DegreeDocumentPath   string             `json:"-"`
	RegisterDocumentPath *string            `json:"-"`
	Status               VerificationStatus `json:"status"`
	AdminNote            *string            `json:"admin_note"`
	CreatedAt            time.Time          `json:"created_at"`
	ReviewedAt           *time.Time         `json:"reviewed_at"`
}

// Approve pasa la solicitud a verified.
func (v *VerificationRequest) Approve(now time.Time) error {
	if v.Status.IsTerminal() {
		return ErrAlreadyProcessed
	}
	v.Status = VerificationVerified
	v.AdminNote = nil
	v.ReviewedAt = &now
	return nil
}

// Reject pasa la solicitud a rejected; la nota es obligatoria.
func (v *VerificationRequest) Reject(note string, now time.Time) error {
	if v.Status.IsTerminal() {
		return ErrAlreadyProcessed
	}
	note = strings.TrimSpace(note)
	if err := ValidateAdminNote(note); err != nil {
		return err
	}
	v.Status = VerificationRejected
	v.AdminNote = &note
	v.ReviewedAt = &now
	return nil
}

func ValidateAdminNote(note string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(note))
	if n < MinAdminNoteLength || n > MaxAdminNoteLength {
		return ErrInvalidInput
	}
	return nil
}

// SyncCreatorFlags alinea los flags del usuario con el resultado de la revisión.
func (u *User) SyncCreatorFlags(status VerificationStatus) {
	switch status {
	case VerificationVerified:
		u.IsCreator = true
		u.IsCreatorVerified = true
	case VerificationRejected:
		u.IsCreator = false
		u.IsCreatorVerified = false
		if u.Role == RoleCreator {
			u.Role = RoleStandard
		}
	case VerificationPending:
		u.IsCreator = true
		u.IsCreatorVerified = false
	}
}

// NormalizeCategory pliega mayúsculas y espacios de una categoría.
func NormalizeCategory(category string) string {
	return strings.Join(strings.Fields(strings.ToLower(category)), " ")
}
