package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TODOS_API_USER_ID.
const EnvPrefix = "TODOS"

// Load merges defaults, the global and project config files, and TODOS_* env.
// An explicit path replaces the file search.
func Load(explicitPath string) (*Config, error) {
	if p := strings.TrimSpace(explicitPath); p != "" {
		return LoadFrom([]string{p}, true)
	}
	return LoadFrom([]string{GlobalConfigPath(), ProjectConfigPath()}, false)
}

// LoadFrom merges the given files in order (later wins). Missing files are
// skipped unless required is set.
func LoadFrom(paths []string, required bool) (*Config, error) {
	v := newViper()

	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) && !required {
				continue
			}
			return nil, err
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	d := DefaultConfig()
	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.user_id", d.API.UserID)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.db", d.Serve.DB)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("debug_log", d.DebugLog)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".todos", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".todos", "config.yaml")
}
