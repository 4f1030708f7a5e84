// Package config handles loading taskagent.toml configuration files and
// the secrets taskagent reads from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskagent/internal/paths"
)

// ProjectFileName is the per-directory config file.
const ProjectFileName = "taskagent.toml"

// Config represents the taskagent.toml configuration file.
type Config struct {
	LLM      LLM      `toml:"llm"`
	Notion   Notion   `toml:"notion"`
	Calendar Calendar `toml:"calendar"`
	Events   Events   `toml:"events"`
	Web      Web      `toml:"web"`
	Prompts  Prompts  `toml:"prompts"`
}

// LLM configures the language model.
type LLM struct {
	// Model is the Gemini model name, e.g. "gemini-2.5-flash".
	Model string `toml:"model"`

	// BaseURL overrides the Generative Language API endpoint.
	BaseURL string `toml:"base-url"`

	// Timeout bounds each model request, as a Go duration string ("60s").
	Timeout string `toml:"timeout"`

	// Polish rewrites replies through the model. Defaults to true.
	Polish bool `toml:"polish"`
}

// Notion configures the note database integration.
type Notion struct {
	// DatabaseID overrides NOTION_DATABASE_ID.
	DatabaseID string `toml:"database-id"`
	BaseURL    string `toml:"base-url"`
}

// Calendar configures the calendar integration.
type Calendar struct {
	BaseURL    string `toml:"base-url"`
	CalendarID string `toml:"calendar-id"`
}

// Events configures the observability event log.
type Events struct {
	// Path is the JSONL file events are appended to. Defaults to
	// ~/.local/state/taskagent/events.jsonl.
	Path string `toml:"path"`
}

// Web configures the chat server.
type Web struct {
	Addr string `toml:"addr"`
}

// Prompts configures prompt template overrides.
type Prompts struct {
	// Dir holds *.tmpl files that replace the built-in prompts.
	Dir string `toml:"dir"`
}

// DefaultWebAddr is used when [web] addr is unset.
const DefaultWebAddr = "127.0.0.1:8501"

// Load loads configuration from dir and the global config file.
// Returns a config with defaults applied if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if _, err := merged.LLM.TimeoutDuration(); err != nil {
		return nil, err
	}
	if merged.Prompts.Dir != "" && !filepath.IsAbs(merged.Prompts.Dir) && projectMeta.IsDefined("prompts", "dir") {
		merged.Prompts.Dir = filepath.Join(dir, merged.Prompts.Dir)
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.LLM.Model = mergeString(projectMeta.IsDefined("llm", "model"), projectCfg.LLM.Model, globalCfg.LLM.Model)
	merged.LLM.BaseURL = mergeString(projectMeta.IsDefined("llm", "base-url"), projectCfg.LLM.BaseURL, globalCfg.LLM.BaseURL)
	merged.LLM.Timeout = mergeString(projectMeta.IsDefined("llm", "timeout"), projectCfg.LLM.Timeout, globalCfg.LLM.Timeout)
	merged.LLM.Polish = true
	if projectMeta.IsDefined("llm", "polish") {
		merged.LLM.Polish = projectCfg.LLM.Polish
	} else if globalMeta.IsDefined("llm", "polish") {
		merged.LLM.Polish = globalCfg.LLM.Polish
	}
	merged.Notion.DatabaseID = mergeString(projectMeta.IsDefined("notion", "database-id"), projectCfg.Notion.DatabaseID, globalCfg.Notion.DatabaseID)
	merged.Notion.BaseURL = mergeString(projectMeta.IsDefined("notion", "base-url"), projectCfg.Notion.BaseURL, globalCfg.Notion.BaseURL)
	merged.Calendar.BaseURL = mergeString(projectMeta.IsDefined("calendar", "base-url"), projectCfg.Calendar.BaseURL, globalCfg.Calendar.BaseURL)
	merged.Calendar.CalendarID = mergeString(projectMeta.IsDefined("calendar", "calendar-id"), projectCfg.Calendar.CalendarID, globalCfg.Calendar.CalendarID)
	merged.Events.Path = mergeString(projectMeta.IsDefined("events", "path"), projectCfg.Events.Path, globalCfg.Events.Path)
	merged.Web.Addr = mergeString(projectMeta.IsDefined("web", "addr"), projectCfg.Web.Addr, globalCfg.Web.Addr)
	merged.Prompts.Dir = mergeString(projectMeta.IsDefined("prompts", "dir"), projectCfg.Prompts.Dir, globalCfg.Prompts.Dir)

	if merged.Web.Addr == "" {
		merged.Web.Addr = DefaultWebAddr
	}
	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

// TimeoutDuration parses Timeout. An empty value returns 0, meaning the
// client default.
func (l LLM) TimeoutDuration() (time.Duration, error) {
	if l.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(l.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parse [llm] timeout %q: %w", l.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse [llm] timeout %q: must not be negative", l.Timeout)
	}
	return d, nil
}

// EventsPath returns the configured event log path or the default.
func (c *Config) EventsPath() (string, error) {
	return paths.ResolveWithDefault(c.Events.Path, paths.DefaultEventsPath)
}
