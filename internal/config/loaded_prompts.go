package config

import (
	"sync"
)

var (
	loadedPrompts   LoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the effective prompt templates after resolving
// the precedence file > inline config > built-in default. Empty fields
// mean the built-in default applies.
type LoadedPrompts struct {
	CoverLetter   string
	Extraction    string
	ATSScore      string
	Suggestions   string
	SectionRefine string
	BulletRefine  string
}

// GetPromptsSnapshot returns a copy of the current prompt set. The
// hot-reload watcher replaces the set concurrently, so callers must
// not hold references across reloads.
func GetPromptsSnapshot() LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts
}

func setLoadedPrompts(p LoadedPrompts) {
	loadedPromptsMu.Lock()
	defer loadedPromptsMu.Unlock()
	loadedPrompts = p
}
