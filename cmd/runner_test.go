package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/rfaisal/noteminder/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected a default config")
			}
			if runner.logger == nil {
				t.Error("expected a default logger")
			}
			if runner.output == nil {
				t.Error("expected a default output writer")
			}
		})
	})

	t.Run("register wires every command group", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := map[string]bool{"setup": false, "note": false, "category": false, "remind": false, "run": false}
		for _, c := range commands {
			want[c.Name] = true
		}
		for name, seen := range want {
			if !seen {
				t.Errorf("command %q not registered", name)
			}
		}
	})
}

func TestResolveWhen(t *testing.T) {
	t.Run("absolute timestamp", func(t *testing.T) {
		at, err := resolveWhen("2026-09-01T09:05:00+03:00", "")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		want := time.Date(2026, 9, 1, 6, 5, 0, 0, time.UTC)
		if !at.Equal(want) || at.Location() != time.UTC {
			t.Errorf("resolved %v, want %v in UTC", at, want)
		}
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		if _, err := resolveWhen("tomorrow-ish", ""); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("preset", func(t *testing.T) {
		before := time.Now().UTC()
		at, err := resolveWhen("", "30min")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		if at.Before(before.Add(29*time.Minute)) || at.After(before.Add(31*time.Minute)) {
			t.Errorf("preset resolved to %v, expected ~30 minutes from now", at)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		if _, err := resolveWhen("", "5min"); err == nil {
			t.Error("expected an error for an unknown preset")
		}
	})

	t.Run("none preset selects no time", func(t *testing.T) {
		if _, err := resolveWhen("", "none"); err == nil {
			t.Error("expected an error for the no-reminder preset")
		}
	})
}
