package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureLogOutput swaps the package logger for a text handler while fn runs.
func captureLogOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log
	log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { log = prev }()
	fn()
	return buf.String()
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestSaveErrors(t *testing.T) {
	tests := []struct {
		name         string
		needsNonRoot bool
		prepare      func(t *testing.T, dir string)
		want         string
	}{
		{
			name: "dir blocked by file",
			prepare: func(t *testing.T, dir string) {
				if err := os.WriteFile(dir, []byte("blocking file"), 0o644); err != nil {
					t.Fatalf("write blocking file: %v", err)
				}
			},
			want: "create config dir",
		},
		{
			name:         "read-only dir",
			needsNonRoot: true,
			prepare: func(t *testing.T, dir string) {
				if err := os.Mkdir(dir, 0o555); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
				t.Cleanup(func() { os.Chmod(dir, 0o755) })
			},
			want: "write config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.needsNonRoot && os.Getuid() == 0 {
				t.Skip("permission bits are ignored for root")
			}
			home := t.TempDir()
			t.Setenv("HOME", home)
			tt.prepare(t, filepath.Join(home, configDirName))

			var err error
			logs := captureLogOutput(t, func() { err = Save("", Default()) })
			if err == nil {
				t.Fatal("expected save to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
			if !strings.Contains(logs, "level=ERROR") {
				t.Fatalf("expected an error log entry, got %q", logs)
			}
		})
	}
}

func TestSaveLogsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logs := captureLogOutput(t, func() {
		if err := Save("", Default()); err != nil {
			t.Fatalf("save config: %v", err)
		}
	})

	if !strings.Contains(logs, "level=INFO") || !strings.Contains(logs, "saved config") {
		t.Fatalf("expected an info entry for the save, got %q", logs)
	}
	if want := filepath.Join(home, configDirName, configFileName); !strings.Contains(logs, want) {
		t.Fatalf("expected path %q in logs", want)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{invalid json`, "read config"},
		{"negative max height", `{"popup": {"max_height": -1}}`, "invalid popup.max_height"},
		{"negative gap", `{"popup": {"gap": -2}}`, "invalid popup.gap"},
		{"negative limit", `{"mention": {"limit": -1}}`, "invalid mention.limit"},
		{"bad duration", `{"watch": {"poll_interval": "soon"}}`, "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.body))
			if err == nil {
				t.Fatal("expected load to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadNormalizesPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(writeConfigFile(t, `{"people_file": "~/team/people.json", "log_file": "  ", "list": {"width": 0}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(home, "team", "people.json"); cfg.PeopleFile != want {
		t.Fatalf("expected people file %q, got %q", want, cfg.PeopleFile)
	}
	if cfg.LogFile != "" {
		t.Fatalf("expected a blank log file to be cleared, got %q", cfg.LogFile)
	}
	if cfg.List.Width != defaultListWidth {
		t.Fatalf("expected the default list width, got %d", cfg.List.Width)
	}
}

func TestExistsStatError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are ignored for root")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, configDirName)
	if err := os.Mkdir(configDir, 0o000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	defer os.Chmod(configDir, 0o755)

	exists, err := Exists("")
	if err == nil || exists {
		t.Fatalf("expected a stat failure, got exists=%v err=%v", exists, err)
	}
	if !strings.Contains(err.Error(), "stat config path") {
		t.Fatalf("error should mention stat, got: %v", err)
	}
}

func TestConfigPathWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	os.Unsetenv("HOME")

	if _, err := ConfigPath(); err == nil || !strings.Contains(err.Error(), "resolve home dir") {
		t.Fatalf("expected a home dir error, got %v", err)
	}
}

func TestNormalizePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := NormalizePath("~/notes/people.json")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := filepath.Join(home, "notes", "people.json"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
