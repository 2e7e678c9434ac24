package emu

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	want := Config{
		Pak: PakConfig{
			LastDir:  "/home/coco/paks",
			Path:     "/home/coco/paks/orch90.rom",
			Settings: "/home/coco/.config/pakhost/paks.ini",
		},
		Emulation: EmulationConfig{FrameRate: 50, StartPaused: true},
		Audio:     AudioConfig{DisableAudio: true, SampleRate: 48000},
	}

	if err := SaveConfigFile(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDefaults(t *testing.T) {
	path := writeFile(t, "config.toml", []byte("[pak]\nlast_dir = \"/roms\"\n\n[audio]\nsample_rate = 1\n"))

	got, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Pak:       PakConfig{LastDir: "/roms"},
		Emulation: EmulationConfig{FrameRate: 60},
		Audio:     AudioConfig{SampleRate: 44100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("LoadConfigFile(missing) should fail")
	}
}
