package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 50
)

type FeedSource string

const (
	FeedFollowing FeedSource = "following"
	FeedDiscover  FeedSource = "discover"
)

// FeedPage es una página de una sola fase del feed; nunca mezcla fases.
type FeedPage struct {
	Items  []Content  `json:"items"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Total  int        `json:"total"`
	Source FeedSource `json:"source"`
}

func ValidatePage(limit, offset int) error {
	if limit < 1 || limit > MaxFeedLimit || offset < 0 {
		return ErrInvalidInput
	}
	return nil
}

// DiscoveryTieBreak deriva una clave pseudoaleatoria estable para un id bajo
// una semilla. Coincide con md5(seed || ':' || id) en Postgres, así que el
// orden entre empates es reproducible con la misma semilla.
func DiscoveryTieBreak(id string, seed int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(seed, 10) + ":" + id))
	return hex.EncodeToString(sum[:])
}

// DiscoveryLess ordena por growth index desc, rating desc y luego por la
// clave de desempate derivada de la semilla.
func DiscoveryLess(a, b Content, seed int64) bool {
	if a.GrowthIndex != b.GrowthIndex {
		return a.GrowthIndex > b.GrowthIndex
	}
	ra, _ := a.Rating()
	rb, _ := b.Rating()
	if ra != rb {
		return ra > rb
	}
	return DiscoveryTieBreak(a.ID, seed) < DiscoveryTieBreak(b.ID, seed)
}
