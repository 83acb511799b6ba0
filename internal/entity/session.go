package entity

import "time"

// ChatSession is the bookkeeping kept next to each in-memory conversation.
type ChatSession struct {
	ID         string
	CreatedAt  time.Time
	LastActive time.Time
	Turns      int
}

func (s ChatSession) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActive)
}

func (s ChatSession) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && s.IdleSince(now) > ttl
}
