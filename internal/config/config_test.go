package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchBuiltIn(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded defaults differ from DefaultConfig:\n got %+v\nwant %+v", cfg, DefaultConfig())
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := "tools:\n  lightning_power: 5\nclips:\n  death: 3\nsession:\n  lives: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tools.LightningPower != 5 {
		t.Errorf("lightning_power = %d, want 5", cfg.Tools.LightningPower)
	}
	if cfg.Tools.TremorSize != 2 {
		t.Errorf("tremor_size = %d, want default 2", cfg.Tools.TremorSize)
	}
	if cfg.Clips["death"] != 3 {
		t.Errorf("death clip = %d, want 3", cfg.Clips["death"])
	}
	if cfg.Clips["fall"] != 15 {
		t.Errorf("fall clip = %d, want default 15", cfg.Clips["fall"])
	}
	if cfg.Session.Lives != 3 {
		t.Errorf("lives = %d, want 3 after normalising 0", cfg.Session.Lives)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("sim: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyNormal, true},
	}
	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		lives     int
		bonus     int
		lightning int
	}{
		{DifficultyEasy, 5, 2, 2},
		{DifficultyNormal, 3, 0, 2},
		{DifficultyHard, 1, 0, 1},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		ApplyPreset(&cfg, tt.preset)
		if cfg.Session.Lives != tt.lives || cfg.Session.MoveBonus != tt.bonus || cfg.Tools.LightningPower != tt.lightning {
			t.Errorf("%s: lives=%d bonus=%d lightning=%d, want %d %d %d", tt.preset,
				cfg.Session.Lives, cfg.Session.MoveBonus, cfg.Tools.LightningPower,
				tt.lives, tt.bonus, tt.lightning)
		}
	}
}
