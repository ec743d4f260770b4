package emulator

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/hack/cpu"
)

// BootConfig holds the segment pointers stored into RAM[0..4] on reset.
type BootConfig struct {
	SP       uint16 `toml:"sp"`
	Local    uint16 `toml:"local"`
	Argument uint16 `toml:"argument"`
	This     uint16 `toml:"this"`
	That     uint16 `toml:"that"`
}

type ScreenConfig struct {
	Scale int `toml:"scale"` // Pixel scale of rendered images.
}

// Config is the emulator configuration.
type Config struct {
	Cycles       int          `toml:"cycles"`        // Cycles to run when not given.
	KeyboardPoll int          `toml:"keyboard_poll"` // Cycles between keyboard polls, 0 to disable.
	Boot         BootConfig   `toml:"boot"`
	Screen       ScreenConfig `toml:"screen"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Cycles:       10000,
		KeyboardPoll: 1000,
		Boot: BootConfig{
			SP:       256,
			Local:    300,
			Argument: 400,
			This:     3000,
			That:     3010,
		},
		Screen: ScreenConfig{
			Scale: 2,
		},
	}
}

// Validate checks the configuration values.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.Cycles < 0:
		err = ErrConfigValue("cycles")
	case cfg.KeyboardPoll < 0:
		err = ErrConfigValue("keyboard_poll")
	case cfg.Screen.Scale < 1:
		err = ErrConfigValue("screen.scale")
	case cfg.Boot.SP >= cpu.RAM_SIZE:
		err = ErrConfigValue("boot.sp")
	case cfg.Boot.Local >= cpu.RAM_SIZE:
		err = ErrConfigValue("boot.local")
	case cfg.Boot.Argument >= cpu.RAM_SIZE:
		err = ErrConfigValue("boot.argument")
	case cfg.Boot.This >= cpu.RAM_SIZE:
		err = ErrConfigValue("boot.this")
	case cfg.Boot.That >= cpu.RAM_SIZE:
		err = ErrConfigValue("boot.that")
	}

	return
}

// ParseConfig overlays a TOML configuration onto the defaults. Unknown
// keys are an error.
func ParseConfig(input io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(input).Decode(&cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = ErrConfigValue(undecoded[0].String())
		return
	}

	err = cfg.Validate()

	return
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = ErrConfigValue(undecoded[0].String())
		return
	}

	err = cfg.Validate()

	return
}
