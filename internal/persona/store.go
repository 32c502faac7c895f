package persona

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/mbti"
)

// Store loads personas from a directory of <TYPE>.json files and caches
// them for the lifetime of the process. Loaded personas are read-only.
type Store struct {
	dir    string
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[mbti.Type]Persona
}

// NewStore creates a persona store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		cache:  make(map[mbti.Type]Persona),
	}
}

// Load returns the persona for a code. Unreadable or corrupt profile
// files are treated as absent: the generic default is returned and the
// problem is only logged, never propagated.
func (s *Store) Load(code mbti.Type) Persona {
	s.mu.RLock()
	if p, ok := s.cache[code]; ok {
		s.mu.RUnlock()
		return p
	}
	s.mu.RUnlock()

	p := s.load(code)

	s.mu.Lock()
	s.cache[code] = p
	s.mu.Unlock()
	return p
}

// LoadAll loads personas for a participant set.
func (s *Store) LoadAll(codes []mbti.Type) map[mbti.Type]Persona {
	out := make(map[mbti.Type]Persona, len(codes))
	for _, code := range codes {
		out[code] = s.Load(code)
	}
	return out
}

func (s *Store) load(code mbti.Type) Persona {
	p := Default(string(code))

	path := filepath.Join(s.dir, string(code)+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("persona profile unreadable, using default",
				zap.String("type", string(code)), zap.Error(err))
		}
		return p
	}

	// Unmarshal over the default so customized profiles only need the
	// fields they override.
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn("persona profile corrupt, using default",
			zap.String("type", string(code)), zap.Error(err))
		return Default(string(code))
	}

	p.Type = string(code)
	return p
}
