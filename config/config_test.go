package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Ripple.Scale != 3 {
		t.Errorf("ripple.scale = %d, want 3", cfg.Ripple.Scale)
	}
	if cfg.Ripple.Damping >= 1 || cfg.Ripple.Damping <= 0 {
		t.Errorf("ripple.damping = %f, want in (0, 1)", cfg.Ripple.Damping)
	}
	if cfg.Ripple.ClickStrength != 700 {
		t.Errorf("ripple.click_strength = %f, want 700", cfg.Ripple.ClickStrength)
	}
	if got := cfg.Derived.RippleGold; got != [3]float64{201, 168, 76} {
		t.Errorf("derived ripple gold = %v, want [201 168 76]", got)
	}
	if got := cfg.Derived.SceneGold; got.R != 0xC9 || got.G != 0xA9 || got.B != 0x62 || got.A != 255 {
		t.Errorf("derived scene gold = %v, want C9A962", got)
	}
	if got, want := cfg.Derived.WallElements, cfg.Scene.Wall.Cols*cfg.Scene.Wall.Rows; got != want {
		t.Errorf("derived wall elements = %d, want %d", got, want)
	}
	if cfg.Derived.DT <= 0 {
		t.Errorf("derived dt = %f, want > 0", cfg.Derived.DT)
	}
	if cfg.Contact.APIKeyEnv != "RESEND_API_KEY" {
		t.Errorf("contact.api_key_env = %q, want RESEND_API_KEY", cfg.Contact.APIKeyEnv)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data := []byte("ripple:\n  damping: 0.98\nserver:\n  addr: \":9090\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ripple.Damping != 0.98 {
		t.Errorf("damping = %f, want 0.98", cfg.Ripple.Damping)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	// Untouched fields keep their defaults.
	if cfg.Ripple.Scale != 3 {
		t.Errorf("scale = %d, want default 3", cfg.Ripple.Scale)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("scene:\n  gold: \"not-a-color\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid scene.gold")
	}
}

func TestLoadRejectsOversizeStreamView(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"wide.yaml": "stream:\n  view_width: 70000\n",
		"tall.yaml": "stream:\n  view_height: 65536\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error for stream view above 65535", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Ripple.DropRadius = 11

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if reloaded.Ripple.DropRadius != 11 {
		t.Errorf("drop radius = %f, want 11", reloaded.Ripple.DropRadius)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg before Init")
		}
	}()
	Cfg()
}
