// Package settings is the host's key/value store. notepane keeps a single
// key in it, the last chosen directory.
package settings

import (
	"fmt"
	"sort"

	"github.com/phravins/notepane/internal/config"
)

// LastDirectoryKey is the key holding the last chosen directory.
const LastDirectoryKey = config.KeyLastDirectory

// Store is a small persistent key/value store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Open returns the store selected by cfg.SettingsBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.SettingsBackend {
	case "", "yaml":
		return ViperStore{}, nil
	case "sqlite":
		return OpenSQLite(cfg.SettingsDB)
	default:
		return nil, fmt.Errorf("unknown settings backend %q (want yaml or sqlite)", cfg.SettingsBackend)
	}
}

// ViperStore keeps settings in the notepane config file.
type ViperStore struct{}

func (ViperStore) Get(key string) (string, bool, error) {
	v := config.GetString(key)
	return v, v != "", nil
}

func (ViperStore) Set(key, value string) error {
	return config.SaveConfig(key, value)
}

func (ViperStore) Close() error { return nil }

// Reset clears the stored values and returns the keys it cleared. Stores
// that can enumerate their keys are cleared completely.
func Reset(st Store) ([]string, error) {
	keys := []string{LastDirectoryKey}
	if l, ok := st.(interface {
		All() (map[string]string, error)
	}); ok {
		all, err := l.All()
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	for _, k := range keys {
		if err := st.Set(k, ""); err != nil {
			return nil, fmt.Errorf("clear %s: %w", k, err)
		}
	}
	return keys, nil
}
