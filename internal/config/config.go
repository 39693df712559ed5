package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	InstallsDir      string            `toml:"installs_dir"`
	PyboxDir         string            `toml:"pybox_dir"`
	ReleaseBaseURL   string            `toml:"release_base_url"`
	StateFile        string            `toml:"state_file"`
	ManifestFile     string            `toml:"manifest_file"`
	BootstrapPackage string            `toml:"bootstrap_package"`
	VenvWaitSecs     int               `toml:"venv_wait_secs"`
	Checksums        map[string]string `toml:"checksums"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".pybox")

	cfg := &Config{
		InstallsDir:      filepath.Join(home, ".python-installs"),
		PyboxDir:         base,
		ReleaseBaseURL:   "https://github.com/David-OConnor/pybin/releases/download",
		StateFile:        filepath.Join(base, "state.db"),
		ManifestFile:     filepath.Join(base, "environments.json"),
		BootstrapPackage: "wheel",
		VenvWaitSecs:     20,
	}

	err := Save(cfg)
	if err != nil {
		fmt.Println(err) // TODO: Improve
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	configPath := filepath.Join(home, ".pybox", "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	home, _ := os.UserHomeDir()

	configPath := filepath.Join(home, ".pybox", "config.toml")

	os.MkdirAll(filepath.Dir(configPath), 0755)
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
