package main

import (
	"strings"
	"testing"
)

func TestDBCmd_Help(t *testing.T) {
	out, err := runCmd(t, "db", "--help")
	if err != nil {
		t.Fatalf("db --help failed: %v", err)
	}
	if !strings.Contains(out, "Database management") {
		t.Errorf("expected help to mention 'Database management', got: %s", out)
	}
	for _, sub := range []string{"init", "migrate"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestDBInitCmd_Help(t *testing.T) {
	out, err := runCmd(t, "db", "init", "--help")
	if err != nil {
		t.Fatalf("db init --help failed: %v", err)
	}
	if !strings.Contains(out, "--config") {
		t.Errorf("expected help to mention '--config' flag, got: %s", out)
	}
	if !strings.Contains(out, "tasktrail.yaml") {
		t.Errorf("expected default config path 'tasktrail.yaml', got: %s", out)
	}
}

func TestDBInitCmd_MissingConfig(t *testing.T) {
	_, err := runCmd(t, "db", "init", "--config", "/nonexistent/tasktrail.yaml")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain 'load config'", err.Error())
	}
}

func TestDBInitCmd_SQLite(t *testing.T) {
	path := writeConfig(t)

	out, err := runCmd(t, "db", "init", "--config", path)
	if err != nil {
		t.Fatalf("db init failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Connected to sqlite database", "Migrated 9 tables", "Seeded 1 users, 2 statuses, 0 labels"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}

	// Re-running is idempotent.
	if out, err := runCmd(t, "db", "init", "--config", path); err != nil {
		t.Fatalf("second db init failed: %v\n%s", err, out)
	}
}

func TestDBMigrateCmd_SQLite(t *testing.T) {
	out, err := runCmd(t, "db", "migrate", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("db migrate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Migrated 9 tables") {
		t.Errorf("expected migrate output, got: %s", out)
	}
}
