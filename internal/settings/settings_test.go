package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/phravins/notepane/internal/config"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "settings.db")
	s, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}

	if _, ok, err := s.Get(LastDirectoryKey); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}
	if err := s.Set(LastDirectoryKey, "/a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(LastDirectoryKey, "/b"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(LastDirectoryKey)
	if err != nil || !ok || got != "/b" {
		t.Errorf("Get after reopen = (%q, %v, %v), want /b", got, ok, err)
	}
	all, err := reopened.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one row after upsert, got %v", all)
	}
}

func TestViperStore(t *testing.T) {
	viper.Reset()
	config.SetPath(filepath.Join(t.TempDir(), ".notepane.yaml"))
	t.Cleanup(func() {
		viper.Reset()
		config.SetPath("")
	})
	if _, err := config.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	var s Store = ViperStore{}
	if _, ok, _ := s.Get(LastDirectoryKey); ok {
		t.Errorf("expected no last directory yet")
	}
	if err := s.Set(LastDirectoryKey, "/journal"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok, _ := s.Get(LastDirectoryKey); !ok || got != "/journal" {
		t.Errorf("Get = (%q, %v)", got, ok)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	if s, err := Open(&config.Config{SettingsBackend: "yaml"}); err != nil {
		t.Errorf("yaml backend: %v", err)
	} else if _, ok := s.(ViperStore); !ok {
		t.Errorf("yaml backend returned %T", s)
	}

	s, err := Open(&config.Config{SettingsBackend: "sqlite", SettingsDB: filepath.Join(t.TempDir(), "s.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("sqlite backend returned %T", s)
	}

	if _, err := Open(&config.Config{SettingsBackend: "etcd"}); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}

func TestReset(t *testing.T) {
	t.Run("sqlite clears every key", func(t *testing.T) {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "s.db"))
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		defer s.Close()
		s.Set(LastDirectoryKey, "/journal")
		s.Set("window", "wide")

		cleared, err := Reset(s)
		if err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if len(cleared) != 2 || cleared[0] != LastDirectoryKey || cleared[1] != "window" {
			t.Errorf("cleared = %v", cleared)
		}
		all, _ := s.All()
		for k, v := range all {
			if v != "" {
				t.Errorf("%s still set to %q", k, v)
			}
		}
	})

	t.Run("yaml clears the last directory", func(t *testing.T) {
		viper.Reset()
		config.SetPath(filepath.Join(t.TempDir(), ".notepane.yaml"))
		t.Cleanup(func() {
			viper.Reset()
			config.SetPath("")
		})
		if _, err := config.LoadConfig(); err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		var s Store = ViperStore{}
		s.Set(LastDirectoryKey, "/journal")

		cleared, err := Reset(s)
		if err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if len(cleared) != 1 || cleared[0] != LastDirectoryKey {
			t.Errorf("cleared = %v", cleared)
		}
		if _, ok, _ := s.Get(LastDirectoryKey); ok {
			t.Errorf("last directory survived the reset")
		}
	})

	t.Run("write failure is returned", func(t *testing.T) {
		if _, err := Reset(failingStore{}); err == nil {
			t.Errorf("expected the failed write to be reported")
		}
	})
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, nil }
func (failingStore) Set(string, string) error         { return errors.New("read-only") }
func (failingStore) Close() error                     { return nil }
