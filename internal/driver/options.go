package driver

import (
	"errors"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Options configures a driver run. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// Jobs bounds the number of bodies checked concurrently; <= 0 means one
	// worker per CPU.
	Jobs int `toml:"jobs"`
	// MaxDiags caps each body's diagnostic bag.
	MaxDiags int `toml:"max_diags"`
	// CacheApp names the disk-cache subdirectory; empty disables caching.
	CacheApp string `toml:"cache_app"`
	Color    bool   `toml:"color"`
	Timings  bool   `toml:"timings"`
}

func DefaultOptions() Options {
	return Options{
		Jobs:     0,
		MaxDiags: 256,
		CacheApp: "ferrite",
	}
}

// LoadOptions reads a TOML config file over the defaults. A missing file is
// not an error; the defaults are returned.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultOptions(), nil
		}
		return DefaultOptions(), err
	}
	return opts, nil
}
