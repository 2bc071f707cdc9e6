package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// DefaultDirName is the directory under the user's home holding config and data.
const DefaultDirName = ".jobtrack"

const configFileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps jobtrack settings in a TOML file.
//
// Keys are dot-separated ("remote.dsn"). On disk each prefix becomes a
// table, so the file stays readable and hand-editable:
//
//	[remote]
//	dsn = "postgres://..."
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// DefaultDir returns ~/.jobtrack.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// NewConfigStore opens config.toml in configDir, creating the directory if
// needed. An empty configDir selects DefaultDir. A missing file is an empty
// config.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, configFileName),
		values: make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value for key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns key as a string, or "" if missing or not a string.
func (s *ConfigStore) GetString(key string) string {
	v, _ := lookup[string](s, key)
	return v
}

// GetBool returns key as a bool, or false.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := lookup[bool](s, key)
	return v
}

// GetInt returns key as an int. TOML decodes integers as int64; whole
// floats are accepted too so "burst = 5.0" still works.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return 0
}

// GetFloat returns key as a float64, widening integers.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func lookup[T any](s *ConfigStore, key string) (T, bool) {
	var zero T
	val, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := val.(T)
	return v, ok
}

// Set stores value under key and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.write(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// Unset removes key and writes the file. Unsetting a missing key does nothing.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.values[key]
	if !ok {
		return nil
	}
	delete(s.values, key)
	if err := s.write(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

// Save writes the current values to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// Load replaces the in-memory values with the file contents.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.values = make(map[string]any)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	values := make(map[string]any)
	flatten(doc, "", values)
	s.values = values
	return nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// write encodes the values as nested tables and replaces the file through
// a temp file in the same directory. Caller holds mu.
func (s *ConfigStore) write() error {
	raw, err := toml.Marshal(nest(s.values))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), configFileName+".*")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func flatten(doc map[string]any, prefix string, out map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(table, key, out)
			continue
		}
		out[key] = v
	}
}

// nest is the inverse of flatten. A key whose prefix already holds a plain
// value stays quoted at the top level rather than clobbering it.
func nest(values map[string]any) map[string]any {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// Shorter keys first so leaves win over tables of the same name.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		placed := true
		for _, p := range parts[:len(parts)-1] {
			next, exists := node[p]
			if !exists {
				child := make(map[string]any)
				node[p] = child
				node = child
				continue
			}
			table, ok := next.(map[string]any)
			if !ok {
				placed = false
				break
			}
			node = table
		}
		last := parts[len(parts)-1]
		if _, taken := node[last]; !placed || taken {
			root[key] = values[key]
			continue
		}
		node[last] = values[key]
	}
	return root
}
