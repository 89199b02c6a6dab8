package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/docstore/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// envPrefix is the prefix for environment overrides, e.g.
// DOCSTORE_ROOT or DOCSTORE_IMAGES_CODEC.
const envPrefix = "DOCSTORE_"

// configNames are the filenames probed in each search directory, in
// order of preference.
var configNames = []string{"docstore.toml", "docstore.yaml"}

// Config is the resolved configuration for a store process.
type Config struct {
	// Root is the documents root. Empty selects the XDG default.
	Root string `koanf:"root" yaml:"root"`

	// Verbosity is the log level: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int `koanf:"verbosity" yaml:"verbosity"`

	Images ImagesConfig `koanf:"images" yaml:"images"`
}

// ImagesConfig selects the image codec used by the blob store.
type ImagesConfig struct {
	Codec   string `koanf:"codec" yaml:"codec"`
	Quality int    `koanf:"quality" yaml:"quality"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load resolves configuration by merging, lowest precedence first:
// embedded defaults, the first config file found (explicit path, then
// the working directory, then the XDG config dir), and DOCSTORE_*
// environment variables.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	path := explicitPath
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
	}

	// DOCSTORE_IMAGES_CODEC=jpeg → images.codec.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// findConfigFile probes the working directory, then the XDG config
// directory, for a docstore config file.
func findConfigFile() string {
	dirs := []string{"."}
	dirs = append(dirs, filepath.Join(xdg.ConfigHome, "docstore"))

	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported config format %q", filepath.Ext(path))
	}
}
