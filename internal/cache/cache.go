package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lettersmith/internal/errors"
	"lettersmith/internal/jobhash"
	"lettersmith/internal/types"
)

const (
	// DefaultMaxSessions caps the stored session list. The newest
	// session always survives the cap.
	DefaultMaxSessions = 10

	// DefaultRetention is how long a session stays readable. Expired
	// sessions are dropped lazily on the next read.
	DefaultRetention = 7 * 24 * time.Hour
)

// Manager owns the deduplicated session list. All read-modify-write
// cycles run under one mutex so concurrent saves cannot interleave
// their read and write halves.
type Manager struct {
	mu          sync.Mutex
	store       Store
	maxSessions int
	retention   time.Duration
	logger      *errors.Logger
	now         func() time.Time
}

func NewManager(store Store, maxSessions int, retention time.Duration, logger *errors.Logger) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Manager{
		store:       store,
		maxSessions: maxSessions,
		retention:   retention,
		logger:      logger,
		now:         time.Now,
	}
}

// load reads the session list, treating a missing or malformed blob
// as empty, and drops sessions older than the retention window.
// Callers hold m.mu.
func (m *Manager) load() ([]types.CachedSession, error) {
	data, err := m.store.Read()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []types.CachedSession{}, nil
	}

	var sessions []types.CachedSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		if m.logger != nil {
			m.logger.Warn("Session store is malformed, starting empty", "error", err.Error())
		}
		return []types.CachedSession{}, nil
	}

	cutoff := m.now().Add(-m.retention)
	fresh := sessions[:0]
	for _, s := range sessions {
		if s.Timestamp.After(cutoff) {
			fresh = append(fresh, s)
		}
	}

	// UpdateSession refreshes timestamps in place, so stored order
	// alone does not guarantee newest first.
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Timestamp.After(fresh[j].Timestamp)
	})
	return fresh, nil
}

// persist writes the session list back. Callers hold m.mu.
func (m *Manager) persist(sessions []types.CachedSession) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to encode session list", err)
	}
	return m.store.Write(data)
}

// SaveSession stores a new session at the front of the list and trims
// to the session cap. The session id and jdHash are assigned here;
// caller-provided values for either are ignored.
func (m *Manager) SaveSession(session types.CachedSession) (types.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return types.CachedSession{}, err
	}

	session.ID = uuid.NewString()
	session.Timestamp = m.now()
	session.JDHash = hashFor(session.JobDetails)

	sessions = append([]types.CachedSession{session}, sessions...)
	if len(sessions) > m.maxSessions {
		sessions = sessions[:m.maxSessions]
	}

	if err := m.persist(sessions); err != nil {
		return types.CachedSession{}, err
	}
	return session, nil
}

// UpdateSession merges the given top-level fields into an existing
// session. The merge is shallow: a provided field replaces the stored
// one wholesale. The timestamp is refreshed and the jdHash recomputed
// so a job-details update cannot leave a stale hash behind.
func (m *Manager) UpdateSession(id string, updates map[string]any) (types.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return types.CachedSession{}, err
	}

	for i, s := range sessions {
		if s.ID != id {
			continue
		}

		merged, err := mergeSession(s, updates)
		if err != nil {
			return types.CachedSession{}, err
		}
		merged.ID = id
		merged.Timestamp = m.now()
		merged.JDHash = hashFor(merged.JobDetails)

		sessions[i] = merged
		if err := m.persist(sessions); err != nil {
			return types.CachedSession{}, err
		}
		return merged, nil
	}

	return types.CachedSession{}, errors.NewCacheError(errors.ErrCodeSessionNotFound,
		"No session with that id", nil).WithContext("session_id", id)
}

// DeleteSession removes a session by id. Deleting an unknown id is
// not an error.
func (m *Manager) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return err
	}

	kept := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return m.persist(kept)
}

// GetSessionByID returns the session with the given id, or nil.
func (m *Manager) GetSessionByID(id string) (*types.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// FindSessionByJobURL returns the newest session saved for the exact
// job URL, or nil.
func (m *Manager) FindSessionByJobURL(jobURL string) (*types.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].JobURL != "" && sessions[i].JobURL == jobURL {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// FindSessionByJobDetails returns the newest session whose content
// hash matches the given job details, or nil. This is the dedup path
// for pasted postings where no URL exists.
func (m *Manager) FindSessionByJobDetails(details types.JobDetails) (*types.CachedSession, error) {
	return m.FindSessionByJobHash(hashFor(&details))
}

// FindSessionByJobHash returns the newest session with the given
// content hash, or nil. An empty hash never matches.
func (m *Manager) FindSessionByJobHash(hash string) (*types.CachedSession, error) {
	if hash == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].JDHash == hash {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// GetSessions returns all live sessions, newest first.
func (m *Manager) GetSessions() ([]types.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// GetCacheStats reports list occupancy and the age span of stored
// sessions.
func (m *Manager) GetCacheStats() (types.CacheStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.load()
	if err != nil {
		return types.CacheStats{}, err
	}

	stats := types.CacheStats{
		Sessions:    len(sessions),
		MaxSessions: m.maxSessions,
	}
	for i := range sessions {
		ts := sessions[i].Timestamp
		if stats.Oldest == nil || ts.Before(*stats.Oldest) {
			t := ts
			stats.Oldest = &t
		}
		if stats.Newest == nil || ts.After(*stats.Newest) {
			t := ts
			stats.Newest = &t
		}
	}
	return stats, nil
}

// mergeSession applies a shallow top-level merge through the JSON
// projection of the session, after sanitizing the updates.
func mergeSession(session types.CachedSession, updates map[string]any) (types.CachedSession, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return types.CachedSession{}, errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to encode session for update", err)
	}

	var base map[string]any
	if err := json.Unmarshal(raw, &base); err != nil {
		return types.CachedSession{}, errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to decode session for update", err)
	}

	clean, _ := Sanitize(updates).(map[string]any)
	for k, v := range clean {
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return types.CachedSession{}, errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to encode merged session", err)
	}

	var out types.CachedSession
	if err := json.Unmarshal(merged, &out); err != nil {
		return types.CachedSession{}, errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Update fields do not fit the session shape", err)
	}
	return out, nil
}

func hashFor(details *types.JobDetails) string {
	if details == nil {
		return ""
	}
	return jobhash.Hash(details.Description, details.JobTitle, details.CompanyName)
}
