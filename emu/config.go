package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"invaders/emu/log"
	"invaders/hw"
)

type Config struct {
	Input   hw.InputConfig `toml:"input"`
	Video   VideoConfig    `toml:"video"`
	Machine MachineConfig  `toml:"machine"`

	Headless bool           `toml:"-"`
	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	ScaleFactor  int  `toml:"scale_factor"`
	DisableVSync bool `toml:"disable_vsync"`
	CRT          bool `toml:"crt"`
	NoOverlay    bool `toml:"no_overlay"`
}

// MachineConfig mirrors the DIP switches soldered on the board.
type MachineConfig struct {
	Lives    int  `toml:"lives"`     // 3 to 6
	BonusAt  int  `toml:"bonus_at"`  // 1000 or 1500
	CoinInfo bool `toml:"coin_info"` // show coin info on the demo screen
}

// DIP converts the configuration to switch settings, clamping invalid
// values to the factory defaults.
func (mc MachineConfig) DIP() hw.DIPSwitches {
	dip := hw.DIPSwitches{
		Lives:      mc.Lives,
		BonusAt:    mc.BonusAt,
		CoinInfoOn: mc.CoinInfo,
	}
	if dip.Lives < 3 || dip.Lives > 6 {
		dip.Lives = 3
	}
	if dip.BonusAt != 1000 && dip.BonusAt != 1500 {
		dip.BonusAt = 1500
	}
	return dip
}

func defaultConfig() Config {
	return Config{
		Video: VideoConfig{
			ScaleFactor: 3,
		},
		Machine: MachineConfig{
			Lives:    3,
			BonusAt:  1500,
			CoinInfo: true,
		},
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("invaders")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	cfg := defaultConfig()
	path := filepath.Join(ConfigDir, cfgFilename)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.Warnf("ignoring unreadable config %s: %v", path, err)
		}
		return defaultConfig()
	}
	if cfg.Video.ScaleFactor < 1 {
		cfg.Video.ScaleFactor = 1
	}
	return cfg
}

// SaveConfig writes cfg into the config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
