package domain

import (
	"strings"
	"time"
)

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaImage MediaType = "image"
)

func ParseMediaType(s string) (MediaType, error) {
	switch m := MediaType(strings.ToLower(strings.TrimSpace(s))); m {
	case MediaVideo, MediaImage:
		return m, nil
	default:
		return "", ErrInvalidInput
	}
}

const (
	MinRating = 1
	MaxRating = 5

	DefaultGrowthIndex      = 1
	DefaultGrowthPercentage = 25
)

// Content es una pieza publicada. Solo el contenido aprobado es visible
// en las rutas de lectura. GrowthIndex y GrowthPercentage los calcula un
// proceso externo.
type Content struct {
	ID               string    `json:"id"`
	OwnerID          *string   `json:"owner_id"`
	MediaType        MediaType `json:"media_type"`
	MediaURL         string    `json:"media_url"`
	Description      string    `json:"creator_description"`
	Category         *string   `json:"category"`
	Approved         bool      `json:"approved"`
	RatingAvg        float64   `json:"rating_avg"`
	RatingCount      int       `json:"rating_count"`
	GrowthIndex      int       `json:"growth_index"`
	GrowthPercentage int       `json:"growth_percentage"`
	LikeCount        int       `json:"like_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Rating devuelve la media solo si hay al menos una valoración.
func (c Content) Rating() (float64, bool) {
	if c.RatingCount <= 0 {
		return 0, false
	}
	return c.RatingAvg, true
}

// ApplyRating actualiza la media en línea: no se conserva el historial,
// por lo que la operación no es reversible.
func (c *Content) ApplyRating(score int) error {
	if score < MinRating || score > MaxRating {
		return ErrInvalidInput
	}
	if c.RatingCount <= 0 {
		c.RatingAvg = float64(score)
		c.RatingCount = 1
		return nil
	}
	n := float64(c.RatingCount)
	c.RatingAvg = (c.RatingAvg*n + float64(score)) / (n + 1)
	c.RatingCount++
	return nil
}
