package services

import "sync"

// PresenceRegistry maps a user to their newest live socket session. It is safe
// for concurrent use.
type PresenceRegistry struct {
	mu        sync.RWMutex
	byUser    map[string]string
	bySession map[string]string
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byUser:    make(map[string]string),
		bySession: make(map[string]string),
	}
}

// Register points userID at sessionID, replacing any older session for that user.
func (p *PresenceRegistry) Register(userID, sessionID string) {
	if userID == "" || sessionID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.byUser[userID]; ok && old != sessionID {
		delete(p.bySession, old)
	}
	// A session belongs to one user only.
	if prevUser, ok := p.bySession[sessionID]; ok && prevUser != userID {
		delete(p.byUser, prevUser)
	}
	p.byUser[userID] = sessionID
	p.bySession[sessionID] = userID
}

// Lookup returns the user's session, if any. Offline is the normal case.
func (p *PresenceRegistry) Lookup(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sessionID, ok := p.byUser[userID]
	return sessionID, ok
}

// Unregister removes the entry owning sessionID and returns its user. A session
// that was already replaced by a newer one is a no-op.
func (p *PresenceRegistry) Unregister(sessionID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.bySession[sessionID]
	if !ok {
		return "", false
	}
	delete(p.bySession, sessionID)
	if p.byUser[userID] == sessionID {
		delete(p.byUser, userID)
	}
	return userID, true
}

// Len reports how many users are online.
func (p *PresenceRegistry) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser)
}
