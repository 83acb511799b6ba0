package chatService

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"campus-chatbot/internal/entity"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/metrics"
)

// session pairs one conversation engine with the lock that serializes its turns.
type session struct {
	mu     sync.Mutex
	engine *dialogue.Engine
	meta   entity.ChatSession
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	factory  *dialogue.Factory
}

func newSessionStore(factory *dialogue.Factory) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		factory:  factory,
	}
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) getOrCreate(id string, now time.Time) *session {
	if sess, ok := s.get(id); ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	sess := &session{
		engine: s.factory.NewEngine(),
		meta:   entity.ChatSession{ID: id, CreatedAt: now, LastActive: now},
	}
	s.sessions[id] = sess
	metrics.SetActiveSessions(len(s.sessions))
	return sess
}

func (s *sessionStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// clean drops sessions idle for longer than ttl and returns their ids.
func (s *sessionStore) clean(now time.Time, ttl time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		expired := sess.meta.Expired(now, ttl)
		sess.mu.Unlock()

		if expired {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	metrics.SetActiveSessions(len(s.sessions))
	return removed
}

func (s *chatService) StartJanitor(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 || s.cfg.SweepInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.sessions.clean(s.now(), s.cfg.SessionTTL); len(removed) > 0 {
					s.log.WithFields(logrus.Fields{
						"removed": len(removed),
						"active":  s.sessions.count(),
					}).Info("[chatService.StartJanitor] expired idle sessions")
				}
			}
		}
	}()
}
