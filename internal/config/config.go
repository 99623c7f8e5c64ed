package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultWriteTimeout  = 10 * time.Second
	DefaultDialTimeout   = 5 * time.Second
	DefaultNoticeTimeout = 5 * time.Second
)

type Keymap struct {
	// Unfocused maps keys to router actions while no section is active.
	Unfocused map[string]string `toml:"unfocused"`
}

type ClientOptions struct {
	Address       string `toml:"address"`
	Username      string `toml:"username"`
	WriteTimeout  string `toml:"write-timeout"`
	DialTimeout   string `toml:"dial-timeout"`
	NoticeTimeout string `toml:"notice-timeout"`
}

type LayoutOptions struct {
	RoomListWidth    string `toml:"room-list-width"`
	RoomListMinWidth int    `toml:"room-list-min-width"`
	RoomListMaxWidth string `toml:"room-list-max-width"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	TitleForeground            string `toml:"title-foreground"`
	BorderActive               string `toml:"border-active"`
	BorderHovered              string `toml:"border-hovered"`
	BorderDefault              string `toml:"border-default"`
	InputForeground            string `toml:"input-foreground"`
	RoomListSelectedForeground string `toml:"room-list-selected-foreground"`
	RoomListSelectedBackground string `toml:"room-list-selected-background"`
	NotificationForeground     string `toml:"notification-foreground"`
	NoticeForeground           string `toml:"notice-foreground"`
	ErrorForeground            string `toml:"error-foreground"`
	UsageForeground            string `toml:"usage-foreground"`
}

type Config struct {
	Client ClientOptions `toml:"client"`
	Layout LayoutOptions `toml:"layout"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Client: ClientOptions{
			Address:       "127.0.0.1:7000",
			Username:      defaultUsername(),
			WriteTimeout:  "10s",
			DialTimeout:   "5s",
			NoticeTimeout: "5s",
		},
		Layout: LayoutOptions{
			RoomListWidth:    "20%",
			RoomListMinWidth: 16,
			RoomListMaxWidth: "40",
		},
		Theme: Theme{
			Foreground:                 "default",
			Background:                 "default",
			TitleForeground:            "default",
			BorderActive:               "yellow",
			BorderHovered:              "blue",
			BorderDefault:              "default",
			InputForeground:            "yellow",
			RoomListSelectedForeground: "#0A0E14",
			RoomListSelectedBackground: "#E6B450",
			NotificationForeground:     "#5C6773",
			NoticeForeground:           "#59C2FF",
			ErrorForeground:            "#F07178",
			UsageForeground:            "default",
		},
		Keymap: Keymap{
			Unfocused: map[string]string{
				"e":         "focus_input",
				"r":         "focus_rooms",
				"tab":       "hover_next",
				"shift+tab": "hover_prev",
				"right":     "hover_next",
				"down":      "hover_next",
				"left":      "hover_prev",
				"up":        "hover_prev",
				"enter":     "activate_hovered",
				"q":         "quit",
				"ctrl+c":    "quit",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Client.Address != "" {
		cfg.Client.Address = userCfg.Client.Address
	}
	if userCfg.Client.Username != "" {
		cfg.Client.Username = userCfg.Client.Username
	}
	if userCfg.Client.WriteTimeout != "" {
		cfg.Client.WriteTimeout = userCfg.Client.WriteTimeout
	}
	if userCfg.Client.DialTimeout != "" {
		cfg.Client.DialTimeout = userCfg.Client.DialTimeout
	}
	if userCfg.Client.NoticeTimeout != "" {
		cfg.Client.NoticeTimeout = userCfg.Client.NoticeTimeout
	}
	for _, d := range []string{cfg.Client.WriteTimeout, cfg.Client.DialTimeout, cfg.Client.NoticeTimeout} {
		if _, err := time.ParseDuration(d); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if userCfg.Layout.RoomListWidth != "" {
		cfg.Layout.RoomListWidth = userCfg.Layout.RoomListWidth
	}
	if userCfg.Layout.RoomListMinWidth > 0 {
		cfg.Layout.RoomListMinWidth = userCfg.Layout.RoomListMinWidth
	}
	if userCfg.Layout.RoomListMaxWidth != "" {
		cfg.Layout.RoomListMaxWidth = userCfg.Layout.RoomListMaxWidth
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Unfocused {
		cfg.Keymap.Unfocused[k] = v
	}

	return cfg, nil
}

// WriteTimeoutDuration bounds a single outbound command write.
func (c ClientOptions) WriteTimeoutDuration() time.Duration {
	return parseDuration(c.WriteTimeout, DefaultWriteTimeout)
}

func (c ClientOptions) DialTimeoutDuration() time.Duration {
	return parseDuration(c.DialTimeout, DefaultDialTimeout)
}

// NoticeTimeoutDuration is how long a status notice stays on screen.
func (c ClientOptions) NoticeTimeoutDuration() time.Duration {
	return parseDuration(c.NoticeTimeout, DefaultNoticeTimeout)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultUsername() string {
	for _, key := range []string{"QCHAT_USER", "USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "anonymous"
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.TitleForeground != "" {
		dst.TitleForeground = src.TitleForeground
	}
	if src.BorderActive != "" {
		dst.BorderActive = src.BorderActive
	}
	if src.BorderHovered != "" {
		dst.BorderHovered = src.BorderHovered
	}
	if src.BorderDefault != "" {
		dst.BorderDefault = src.BorderDefault
	}
	if src.InputForeground != "" {
		dst.InputForeground = src.InputForeground
	}
	if src.RoomListSelectedForeground != "" {
		dst.RoomListSelectedForeground = src.RoomListSelectedForeground
	}
	if src.RoomListSelectedBackground != "" {
		dst.RoomListSelectedBackground = src.RoomListSelectedBackground
	}
	if src.NotificationForeground != "" {
		dst.NotificationForeground = src.NotificationForeground
	}
	if src.NoticeForeground != "" {
		dst.NoticeForeground = src.NoticeForeground
	}
	if src.ErrorForeground != "" {
		dst.ErrorForeground = src.ErrorForeground
	}
	if src.UsageForeground != "" {
		dst.UsageForeground = src.UsageForeground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QCHAT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qchat"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qchat"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
