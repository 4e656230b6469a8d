package config

// Config is the effective configuration after defaults, files, env, and flags.
type Config struct {
	API      APIConfig   `mapstructure:"api" json:"api"`
	Web      WebConfig   `mapstructure:"web" json:"web"`
	Serve    ServeConfig `mapstructure:"serve" json:"serve"`
	TUI      TUIConfig   `mapstructure:"tui" json:"tui"`
	DebugLog string      `mapstructure:"debug_log" json:"debugLog,omitempty"`
}

type APIConfig struct {
	// URL is the collection base address; requests go to {URL}/todos.
	URL string `mapstructure:"url" json:"url"`
	// UserID scopes every request. 0 means "not configured".
	UserID int `mapstructure:"user_id" json:"userId"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
	DB   string `mapstructure:"db" json:"db"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `mapstructure:"theme" json:"theme"`
}
