package config

import (
	"os"
	"path/filepath"
)

const DefaultAPIURL = "https://mate.academy/students-api"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL: DefaultAPIURL,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:3336",
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:3337",
			DB:   defaultServeDB(),
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
	}
}

func defaultServeDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "todos.sqlite"
	}
	return filepath.Join(home, ".todos", "todos.sqlite")
}

// WriteDefault writes a commented default configuration file.
func WriteDefault(path string) error {
	content := `# todos configuration
api:
  # Base address of the task collection (requests go to <url>/todos).
  url: "` + DefaultAPIURL + `"
  # Identity used for every request. Required.
  user_id: 0

web:
  addr: "127.0.0.1:3336"

serve:
  addr: "127.0.0.1:3337"
  # db: "/path/to/todos.sqlite"

tui:
  # light | dark | auto
  theme: auto

# debug_log: "/tmp/todos-debug.log"
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
