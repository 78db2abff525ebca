package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration for rootDir with the following priority, highest
// first: TYPEORG_* environment variables, .typeorg/config.yml under rootDir,
// built-in defaults. A missing config file is fine; a malformed one is not.
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, ".typeorg"))

	v.SetEnvPrefix("TYPEORG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Root = rootDir
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("include", def.Include)
	v.SetDefault("exclude", def.Exclude)
	v.SetDefault("extensions", def.Extensions)
	v.SetDefault("aliases", def.Aliases)
	v.SetDefault("barrel_names", def.BarrelNames)
}
