package domain

import "time"

type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"following_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Like struct {
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialCounts resume las aristas de seguimiento de un usuario.
type SocialCounts struct {
	Followers int `json:"followers_count"`
	Following int `json:"following_count"`
}
