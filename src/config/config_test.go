package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MATCHBOARD_DATA", "MATCHBOARD_PREFS_BACKEND", "MATCHBOARD_PREFS_TARGET", "MATCHBOARD_LOG_LEVEL", "MATCHBOARD_OUT"} {
		unset(t, k)
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
	if cfg.Data.Path != "data/matches.csv" || cfg.Prefs.Backend != prefstore.BackendFile || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Prefs.Target == "" {
		t.Fatalf("prefs target should default to a directory")
	}
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	unset(t, "MATCHBOARD_DATA")
	unset(t, "MATCHBOARD_PREFS_BACKEND")
	t.Setenv("MATCHBOARD_LOG_LEVEL", "debug")
	env := filepath.Join(t.TempDir(), "test.env")
	body := "MATCHBOARD_DATA=/srv/wc2022.csv\nMATCHBOARD_PREFS_BACKEND=SQLite\nMATCHBOARD_LOG_LEVEL=error\n"
	if err := os.WriteFile(env, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data.Path != "/srv/wc2022.csv" {
		t.Fatalf("data path from env file: %q", cfg.Data.Path)
	}
	if cfg.Prefs.Backend != prefstore.BackendSQLite {
		t.Fatalf("backend should be lowercased: %q", cfg.Prefs.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("process env must win over the file: %q", cfg.LogLevel)
	}
}

func TestOpenSlot(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		p       PrefsConfig
		wantErr bool
	}{
		{PrefsConfig{Backend: prefstore.BackendMemory}, false},
		{PrefsConfig{Backend: prefstore.BackendFile, Target: dir}, false},
		{PrefsConfig{Backend: prefstore.BackendSQLite, Target: filepath.Join(dir, "prefs.db")}, false},
		{PrefsConfig{Backend: BackendFyne}, true},
		{PrefsConfig{Backend: "etcd"}, true},
	}
	for _, c := range cases {
		s, err := c.p.OpenSlot(context.Background())
		if (err != nil) != c.wantErr {
			t.Fatalf("%s: err=%v wantErr=%v", c.p.Backend, err, c.wantErr)
		}
		if s != nil {
			if err := s.Set(context.Background(), "k", "v"); err != nil {
				t.Fatalf("%s: set: %v", c.p.Backend, err)
			}
			s.Close()
		}
	}
}
