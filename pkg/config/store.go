package config

import (
	"sync"
)

// Store persists the config between sessions.
type Store interface {
	Load() (*Config, error)
	Save(*Config) error
}

// FileStore keeps the config in a TOML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file, creating it with defaults when missing.
func (s *FileStore) Load() (*Config, error) {
	return InitConfig(s.Path)
}

// Save writes c to the file.
func (s *FileStore) Save(c *Config) error {
	return SaveConfig(c, s.Path)
}

// MemoryStore keeps the config in memory. Used when no file can be written.
type MemoryStore struct {
	mu     sync.Mutex
	config Config
}

// NewMemoryStore returns a store seeded with c, or defaults when c is nil.
func NewMemoryStore(c *Config) *MemoryStore {
	if c == nil {
		c = DefaultConfig()
	}
	return &MemoryStore{config: *c}
}

// Load returns a copy of the stored config.
func (s *MemoryStore) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.config
	return &c, nil
}

// Save replaces the stored config.
func (s *MemoryStore) Save(c *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = *c
	return nil
}
