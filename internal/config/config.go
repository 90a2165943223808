package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type ResolverOptions struct {
	PixelTolerance float64 `toml:"pixel-tolerance"`
}

type ScannerOptions struct {
	VerticalSteps   int `toml:"vertical-steps"`
	HorizontalSteps int `toml:"horizontal-steps"`
}

type LayoutOptions struct {
	CharWidth  float64 `toml:"char-width"`
	CharHeight float64 `toml:"char-height"`
	PageWidth  float64 `toml:"page-width"`
}

type ScrollOptions struct {
	SettleDelayMS int `toml:"settle-delay-ms"`
}

type Config struct {
	Resolver ResolverOptions `toml:"resolver"`
	Scanner  ScannerOptions  `toml:"scanner"`
	Layout   LayoutOptions   `toml:"layout"`
	Scroll   ScrollOptions   `toml:"scroll"`
}

func Default() Config {
	return Config{
		Resolver: ResolverOptions{
			PixelTolerance: 16,
		},
		Scanner: ScannerOptions{
			VerticalSteps:   10,
			HorizontalSteps: 10,
		},
		Layout: LayoutOptions{
			CharWidth:  8,
			CharHeight: 16,
			PageWidth:  640,
		},
		Scroll: ScrollOptions{
			SettleDelayMS: 100,
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile merges the TOML file at path over the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Resolver.PixelTolerance > 0 {
		cfg.Resolver.PixelTolerance = userCfg.Resolver.PixelTolerance
	}
	if userCfg.Scanner.VerticalSteps > 0 {
		cfg.Scanner.VerticalSteps = userCfg.Scanner.VerticalSteps
	}
	if userCfg.Scanner.HorizontalSteps > 0 {
		cfg.Scanner.HorizontalSteps = userCfg.Scanner.HorizontalSteps
	}
	if userCfg.Layout.CharWidth > 0 {
		cfg.Layout.CharWidth = userCfg.Layout.CharWidth
	}
	if userCfg.Layout.CharHeight > 0 {
		cfg.Layout.CharHeight = userCfg.Layout.CharHeight
	}
	if userCfg.Layout.PageWidth > 0 {
		cfg.Layout.PageWidth = userCfg.Layout.PageWidth
	}
	if userCfg.Scroll.SettleDelayMS > 0 {
		cfg.Scroll.SettleDelayMS = userCfg.Scroll.SettleDelayMS
	}
	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("CFITOOL_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cfitool"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cfitool"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
