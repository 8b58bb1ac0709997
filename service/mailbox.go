package service

import (
	"sync"

	"github.com/lerhino/rhino-be/types"
)

// Mailbox stores pending workflow replies keyed by session id. Callbacks that
// carry no session id land in a shared slot that any session may consume,
// which preserves the behavior of workflows that never echo the session back.
type Mailbox struct {
	mu      sync.Mutex
	entries map[string]types.MailboxEntry
	shared  *types.MailboxEntry
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		entries: make(map[string]types.MailboxEntry),
	}
}

// Publish overwrites the pending entry for the session, last write wins. An
// empty session id targets the shared slot.
func (m *Mailbox) Publish(sessionID string, entry types.MailboxEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID == "" {
		m.shared = &entry
		return
	}
	m.entries[sessionID] = entry
}

// Take reads and clears the pending entry in one step: the session's own
// entry first, then the shared slot. Concurrent callers observe a given entry
// at most once.
func (m *Mailbox) Take(sessionID string) (types.MailboxEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID != "" {
		if entry, ok := m.entries[sessionID]; ok {
			delete(m.entries, sessionID)
			return entry, true
		}
	}
	if m.shared != nil {
		entry := *m.shared
		m.shared = nil
		return entry, true
	}
	return types.MailboxEntry{}, false
}
