package emu

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"pakhost/emu/log"
)

type Config struct {
	Pak       PakConfig       `toml:"pak"`
	Emulation EmulationConfig `toml:"emulation"`
	Audio     AudioConfig     `toml:"audio"`
}

type PakConfig struct {
	// LastDir is the directory the pak file chooser starts in.
	LastDir string `toml:"last_dir"`

	// Path is the pak inserted at startup, if any.
	Path string `toml:"path"`

	// Settings is the file modules store their settings in.
	Settings string `toml:"settings"`
}

type EmulationConfig struct {
	FrameRate   int  `toml:"frame_rate"`
	StartPaused bool `toml:"start_paused"`
}

type AudioConfig struct {
	DisableAudio bool `toml:"disable_audio"`
	SampleRate   int  `toml:"sample_rate"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "pakhost")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const (
	minFrameRate = 24
	maxFrameRate = 240
)

const (
	cfgFilename      = "config.toml"
	settingsFilename = "paks.ini"
)

var defaultConfig = Config{
	Emulation: EmulationConfig{
		FrameRate: 60,
	},
	Audio: AudioConfig{
		SampleRate: 44100,
	},
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	cfg := defaultConfig
	cfg.Pak.Settings = filepath.Join(ConfigDir(), settingsFilename)
	return cfg
}

// Check replaces invalid values with their defaults.
func (cfg *Config) Check() {
	if cfg.Emulation.FrameRate < minFrameRate || cfg.Emulation.FrameRate > maxFrameRate {
		log.ModEmu.Warnf("Invalid frame rate %d, fallback to %d", cfg.Emulation.FrameRate, defaultConfig.Emulation.FrameRate)
		cfg.Emulation.FrameRate = defaultConfig.Emulation.FrameRate
	}
	if cfg.Audio.SampleRate < minSampleRate || cfg.Audio.SampleRate > maxSampleRate {
		log.ModEmu.Warnf("Invalid sample rate %d, fallback to %d", cfg.Audio.SampleRate, defaultConfig.Audio.SampleRate)
		cfg.Audio.SampleRate = defaultConfig.Audio.SampleRate
	}
}

// LoadConfigFile loads the configuration at path. Missing values take their
// default.
func LoadConfigFile(path string) (Config, error) {
	cfg := defaultConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Check()
	return cfg, nil
}

// SaveConfigFile writes cfg at path.
func SaveConfigFile(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// LoadConfigOrDefault loads the configuration from the pakhost config directory,
// or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfigFile(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		return DefaultConfig()
	}
	if cfg.Pak.Settings == "" {
		cfg.Pak.Settings = filepath.Join(ConfigDir(), settingsFilename)
	}
	return cfg
}

// SaveConfig into pakhost config directory.
func SaveConfig(cfg Config) error {
	return SaveConfigFile(filepath.Join(ConfigDir(), cfgFilename), cfg)
}
