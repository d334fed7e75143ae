package assistant

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/tracker/internal/output"
)

// fileConfig mirrors the configuration file. The "assistents" spelling is
// the established key and is kept for compatibility with existing files.
type fileConfig struct {
	DeepSeekKey string    `json:"deepseek_key" yaml:"deepseek_key"`
	ContextSize int       `json:"context_size" yaml:"context_size"`
	Assistants  []Profile `json:"assistents"   yaml:"assistents"`
}

// Registry is the immutable set of profiles plus settings. Prefixes are
// not de-duplicated: lookups by prefix see profiles in registry order.
type Registry struct {
	profiles []Profile
	settings Settings
}

// NewRegistry builds a registry from profiles in order. A default profile
// is appended when none has the default prefix.
func NewRegistry(settings Settings, profiles ...Profile) *Registry {
	profiles = slices.Clone(profiles)
	if !slices.ContainsFunc(profiles, Profile.IsDefault) {
		profiles = append(profiles, DefaultProfile())
	}
	return &Registry{profiles: profiles, settings: settings.normalized()}
}

// Load reads the configuration file at path. A missing file (or an empty
// path) yields the defaults only. Files ending in .yaml or .yml are read
// as YAML, anything else as JSON.
func Load(path string) (*Registry, error) {
	return LoadWithDir(path, "")
}

// LoadWithDir reads the configuration file and then appends the profile
// files found in dir (see LoadDir).
func LoadWithDir(path, dir string) (*Registry, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	for i := range cfg.Assistants {
		cfg.Assistants[i].Source = "config"
	}

	extra, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	settings := Settings{DeepSeekKey: cfg.DeepSeekKey, ContextSize: cfg.ContextSize}
	return NewRegistry(settings, append(cfg.Assistants, extra...)...), nil
}

func readConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, output.NewSystemErrorWithCause("failed to read config file: "+path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, output.NewUserErrorWithCause("invalid config file "+path+": "+err.Error(), err)
	}
	return cfg, nil
}

// Profiles returns all profiles in registry order.
func (r *Registry) Profiles() []Profile {
	return slices.Clone(r.profiles)
}

// Settings returns the scalar settings.
func (r *Registry) Settings() Settings {
	return r.settings
}

// WithKey returns a copy of the registry using key as the DeepSeek
// credential. An empty key leaves the configured one in place.
func (r *Registry) WithKey(key string) *Registry {
	if key == "" {
		return r
	}
	clone := *r
	clone.settings.DeepSeekKey = key
	return &clone
}

// WithContextSize returns a copy with a different context window size.
// Non-positive sizes leave the configured one in place.
func (r *Registry) WithContextSize(size int) *Registry {
	if size <= 0 {
		return r
	}
	clone := *r
	clone.settings.ContextSize = size
	return &clone
}

// First returns the first profile with the given prefix.
func (r *Registry) First(prefix string) (Profile, bool) {
	idx := slices.IndexFunc(r.profiles, func(p Profile) bool { return p.Prefix == prefix })
	if idx < 0 {
		return Profile{}, false
	}
	return r.profiles[idx], true
}

// Matching returns every profile with the given prefix, in registry order.
func (r *Registry) Matching(prefix string) []Profile {
	var matches []Profile
	for _, p := range r.profiles {
		if p.Prefix == prefix {
			matches = append(matches, p)
		}
	}
	return matches
}
