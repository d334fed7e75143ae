package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/default.md
var builtinDefault string

// DefaultProfile is synthesized when the configuration defines no
// profile with the default prefix.
func DefaultProfile() Profile {
	p, err := parseProfile(builtinDefault)
	if err != nil {
		panic(fmt.Sprintf("builtin default profile: %v", err))
	}
	p.Prefix = DefaultPrefix
	p.Source = "built-in"
	return p
}

// LoadDir reads every *.md file in dir as a profile. The YAML frontmatter
// holds name, prefix, default_message, provider, model and url; the body
// is the instructions. Prefix defaults to the file name without extension.
// Profiles are returned sorted by file name. A missing or empty dir yields
// no profiles.
func LoadDir(dir string) ([]Profile, error) {
	if dir == "" {
		return nil, nil
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading assistants directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading assistant %s: %w", path, err)
		}

		p, err := parseProfile(string(data))
		if err != nil {
			return nil, fmt.Errorf("assistant %s: %w", path, err)
		}
		stem := strings.TrimSuffix(name, ".md")
		if p.Prefix == "" {
			p.Prefix = stem
		}
		if p.Name == "" {
			p.Name = stem
		}
		p.Source = path
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// parseProfile parses a profile from markdown with YAML frontmatter.
func parseProfile(raw string) (Profile, error) {
	frontmatter, body := splitFrontmatter(raw)

	var p Profile
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &p); err != nil {
			return Profile{}, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	// The body wins over an instructions key in the frontmatter.
	if body = strings.TrimSpace(body); body != "" {
		p.Instructions = body
	}
	return p, nil
}

// splitFrontmatter separates YAML frontmatter delimited by --- lines from
// the rest of the document.
func splitFrontmatter(raw string) (frontmatter, body string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	before, after, ok := strings.Cut(raw[3:], "\n---")
	if !ok {
		return "", raw
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
