package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gulc.toml")

	content := `
pointerSize = 4
alignofStruct = 4

[implicitConvTable]
i32 = "i64"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.PointerSize == nil || *cfg.PointerSize != 4 {
		t.Errorf("PointerSize: got %v, want 4", cfg.PointerSize)
	}
	if cfg.AlignOfStruct == nil || *cfg.AlignOfStruct != 4 {
		t.Errorf("AlignOfStruct: got %v, want 4", cfg.AlignOfStruct)
	}
	if cfg.ImplicitConversions["i32"] != "i64" {
		t.Errorf("ImplicitConversions[i32]: got %q, want i64", cfg.ImplicitConversions["i32"])
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "pointerSize = 2\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "gulc.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, path, err := Load(subDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load: got nil config, want one found by walking up")
	}
	if cfg.PointerSize == nil || *cfg.PointerSize != 2 {
		t.Errorf("PointerSize: got %v, want 2", cfg.PointerSize)
	}
	wantPath := filepath.Join(tmpDir, "gulc.toml")
	if path != wantPath {
		t.Errorf("path: got %q, want %q", path, wantPath)
	}
}

func TestLoadNoConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, path, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != nil || path != "" {
		t.Errorf("Load with no config present: got (%v, %q), want (nil, \"\")", cfg, path)
	}
}

func TestConfigFileNames(t *testing.T) {
	want := []string{"gulc.toml", ".gulcrc"}
	if len(ConfigFileNames) != len(want) {
		t.Fatalf("ConfigFileNames: got %v, want %v", ConfigFileNames, want)
	}
	for i, name := range want {
		if ConfigFileNames[i] != name {
			t.Errorf("ConfigFileNames[%d]: got %q, want %q", i, ConfigFileNames[i], name)
		}
	}
}

func TestToTargetDefaults(t *testing.T) {
	var cfg *Config
	target := cfg.ToTarget()
	if target.PointerSize != DefaultPointerSize {
		t.Errorf("ToTarget on nil config: got PointerSize %d, want %d", target.PointerSize, DefaultPointerSize)
	}

	set := 4
	cfg = &Config{PointerSize: &set}
	target = cfg.ToTarget()
	if target.PointerSize != 4 {
		t.Errorf("ToTarget: got PointerSize %d, want 4", target.PointerSize)
	}
}

func TestOverride(t *testing.T) {
	cfg := &Config{ImplicitConversions: map[string]string{"i32": "i64"}}

	if allowed, matched := cfg.Override("i32", "i64"); !matched || !allowed {
		t.Errorf("Override(i32, i64): got (%v, %v), want (true, true)", allowed, matched)
	}
	if allowed, matched := cfg.Override("i32", "f32"); !matched || allowed {
		t.Errorf("Override(i32, f32): got (%v, %v), want (false, true)", allowed, matched)
	}
	if _, matched := cfg.Override("u8", "u16"); matched {
		t.Errorf("Override(u8, u16): got matched=true, want false for an unlisted pair")
	}

	var nilCfg *Config
	if _, matched := nilCfg.Override("i32", "i64"); matched {
		t.Errorf("Override on nil config: got matched=true, want false")
	}
}
