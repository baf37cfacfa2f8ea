package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestConfigCommandRegistered verifies the config command group and its
// subcommands are wired into the root command.
func TestConfigCommandRegistered(t *testing.T) {
	found := map[string]bool{}
	for _, sub := range configCmd.Commands() {
		found[sub.Name()] = true
	}

	for _, name := range []string{"show", "edit", "init", "path"} {
		if !found[name] {
			t.Errorf("config %s subcommand is not registered", name)
		}
	}

	registered := false
	for _, sub := range rootCmd.Commands() {
		if sub == configCmd {
			registered = true
		}
	}
	if !registered {
		t.Error("config command is not attached to the root command")
	}
}

// TestRunConfigInit verifies init creates a default config file once and
// leaves an existing one untouched.
func TestRunConfigInit(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("config init: %v", err)
	}

	configPath := filepath.Join(configHome, "diskmap", "config.yaml")
	before, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("config file is empty")
	}

	// A second init must not overwrite the file.
	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("repeated config init: %v", err)
	}
	after, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(before) != string(after) {
		t.Error("repeated init rewrote the config file")
	}
}

// TestRunConfigShow verifies show succeeds with and without a config file.
func TestRunConfigShow(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := runConfigShow(configShowCmd, nil); err != nil {
		t.Fatalf("config show without file: %v", err)
	}

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if err := runConfigShow(configShowCmd, nil); err != nil {
		t.Fatalf("config show with file: %v", err)
	}
}
