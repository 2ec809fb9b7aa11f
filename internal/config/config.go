// Package config manages the persisted gitx configuration.
//
// The configuration is a JSON document at $XDG_CONFIG_HOME/gitx/config.json
// (via os.UserConfigDir), overridable with the GITX_CONFIG_DIR environment
// variable. The file is meant to be hand-editable, so it is parsed through
// github.com/tidwall/jsonc first: comments and trailing commas are tolerated.
// Unknown keys are rejected with an error rather than silently dropped:
// a typed struct cannot round-trip keys it does not know about, so a save
// would lose them.
//
// Lifecycle: a command loads the config once at start, mutates it in memory,
// and saves it once at the end. There is no partial or streaming write; Save
// writes a temp file and renames it over the old one.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/gitx/internal/model"
)

const (
	configDirName  = "gitx"
	configFileName = "config.json"

	// EnvConfigDir overrides the directory holding config.json.
	// Used by tests to isolate state, and by users who want the file
	// somewhere non-standard.
	EnvConfigDir = "GITX_CONFIG_DIR"
)

// Built-in defaults, applied for any global left unset in the file.
const (
	DefaultBaseDir  = "${HOME}/sources/workspaces"
	DefaultProvider = "github"
	DefaultEditor   = "code"
)

// Globals holds the process-wide settings.
type Globals struct {
	// BaseDir is the root under which all workspaces are cloned.
	// Environment variables (${HOME}) and a leading "~" are expanded
	// when the path is used, not when it is stored.
	BaseDir string `json:"baseDir"`

	// DefaultProvider turns "owner/name" shorthands into clone URLs.
	// Only "github" is currently supported.
	DefaultProvider string `json:"defaultProvider"`

	// Editor is the command spawned by `gitx code`.
	Editor string `json:"editor"`
}

// Config is the full persisted state: globals plus one Workspace record
// per managed repository, keyed by "owner/name".
type Config struct {
	Globals    Globals                     `json:"globals"`
	Workspaces map[string]*model.Workspace `json:"workspaces"`
}

// Default returns a Config populated with the documented defaults and no
// workspaces.
func Default() *Config {
	return &Config{
		Globals: Globals{
			BaseDir:         DefaultBaseDir,
			DefaultProvider: DefaultProvider,
			Editor:          DefaultEditor,
		},
		Workspaces: map[string]*model.Workspace{},
	}
}

// Path returns the location of the config file, honoring EnvConfigDir.
func Path() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Store loads and saves the Config at a fixed path. One Store instance
// owns the config for the duration of a command.
type Store struct {
	path string
}

// NewStore creates a Store bound to the default config location.
func NewStore() (*Store, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt creates a Store bound to an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the config file. A missing file yields the defaults; a present
// file is parsed tolerantly (JSONC) but strictly typed: unknown keys are an
// error. Globals left unset in the file are filled in from the defaults.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", s.path, err)
	}

	// Strip comments/trailing commas before handing to encoding/json.
	plain := jsonc.ToJSON(data)

	cfg := &Config{}
	dec := json.NewDecoder(bytes.NewReader(plain))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.path, err)
	}

	if cfg.Globals.BaseDir == "" {
		cfg.Globals.BaseDir = DefaultBaseDir
	}
	if cfg.Globals.DefaultProvider == "" {
		cfg.Globals.DefaultProvider = DefaultProvider
	}
	if cfg.Globals.Editor == "" {
		cfg.Globals.Editor = DefaultEditor
	}
	if cfg.Workspaces == nil {
		cfg.Workspaces = map[string]*model.Workspace{}
	}
	for _, ws := range cfg.Workspaces {
		if ws.Branches == nil {
			ws.Branches = map[string]model.BranchWorktree{}
		}
	}

	return cfg, nil
}

// Save writes the config atomically: marshal, write a temp file next to the
// target, rename over it.
func (s *Store) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), configFileName+".*")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandedBaseDir returns globals.baseDir with environment variables and a
// leading "~" expanded to an absolute path.
func (c *Config) ExpandedBaseDir() (string, error) {
	raw := os.ExpandEnv(c.Globals.BaseDir)
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %q: %w", c.Globals.BaseDir, err)
		}
		raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
	}
	return filepath.Abs(raw)
}

// LookupWorkspace resolves a user-supplied key (either a canonical
// "owner/name" repoId or a workspace label) to the workspace record and
// its canonical repoId. Labels are checked first so `gitx go mylabel`
// works anywhere a repoId is accepted. Returns ("", nil) when nothing
// matches.
func (c *Config) LookupWorkspace(key string) (string, *model.Workspace) {
	for repoID, ws := range c.Workspaces {
		if ws.Label != "" && ws.Label == key {
			return repoID, ws
		}
	}
	if ws, ok := c.Workspaces[key]; ok {
		return key, ws
	}
	return "", nil
}

// WorkspaceIDs returns all registered repoIds in sorted order, for stable
// list output.
func (c *Config) WorkspaceIDs() []string {
	ids := make([]string, 0, len(c.Workspaces))
	for id := range c.Workspaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Supported dotted keys for `gitx config get/set`.
const (
	KeyBaseDir  = "globals.baseDir"
	KeyProvider = "globals.defaultProvider"
	KeyEditor   = "globals.editor"
)

// ValidKeys lists the settable config keys in display order.
func ValidKeys() []string {
	return []string{KeyBaseDir, KeyProvider, KeyEditor}
}

// Get returns the value of a dotted global key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyBaseDir:
		return c.Globals.BaseDir, nil
	case KeyProvider:
		return c.Globals.DefaultProvider, nil
	case KeyEditor:
		return c.Globals.Editor, nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ValidKeys(), ", "))
	}
}

// Set assigns a dotted global key. The workspaces section is managed by
// gitx itself and cannot be set directly.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyBaseDir:
		c.Globals.BaseDir = value
	case KeyProvider:
		c.Globals.DefaultProvider = value
	case KeyEditor:
		c.Globals.Editor = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}
