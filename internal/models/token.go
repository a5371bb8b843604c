package models

import "time"

// Token is a single-use confirmation/reset code bound to a user. A TTL index
// purges it ten minutes after creation; lookups additionally treat anything
// older than the TTL as absent in case the purge lags.
type Token struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Token     string    `bson:"token" json:"token"`
	UserID    string    `bson:"userId" json:"user_id"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
