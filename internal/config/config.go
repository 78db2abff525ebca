// Package config holds the analysis configuration: which files to scan, how
// import specifiers resolve, and the category rule table. The same engine
// serves projects with different folder conventions; nothing here is
// hard-coded elsewhere.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"

	"github.com/phobologic/typeorg/internal/model"
)

// SuffixRule maps a name pattern (glob, e.g. "*Request") to a category.
type SuffixRule struct {
	Pattern  string         `yaml:"pattern" mapstructure:"pattern"`
	Category model.Category `yaml:"category" mapstructure:"category"`
}

// PathRule maps a directory prefix (relative, slash-separated) to a category.
type PathRule struct {
	Prefix   string         `yaml:"prefix" mapstructure:"prefix"`
	Category model.Category `yaml:"category" mapstructure:"category"`
}

// Config is the complete engine configuration.
type Config struct {
	// Root is the project root to analyze. Must exist and be a directory.
	Root string `yaml:"root" mapstructure:"root"`

	// Include/Exclude are glob patterns matched against root-relative
	// slash-separated paths. Empty Include means "everything".
	Include []string `yaml:"include" mapstructure:"include"`
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// Extensions is the file-extension allowlist, with leading dot.
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`

	// Aliases maps import-specifier prefixes (e.g. "@/") to root-relative
	// base directories.
	Aliases map[string]string `yaml:"aliases" mapstructure:"aliases"`

	// SuffixRules and PathRules drive classification, in precedence order:
	// suffix rules first, then path rules, then Uncategorized.
	SuffixRules []SuffixRule `yaml:"suffix_rules" mapstructure:"suffix_rules"`
	PathRules   []PathRule   `yaml:"path_rules" mapstructure:"path_rules"`

	// CategoryDirs maps each category to the directory its declarations are
	// expected to live under.
	CategoryDirs map[model.Category]string `yaml:"category_dirs" mapstructure:"category_dirs"`

	// BarrelNames are file stems treated as aggregator files ("index" by
	// default).
	BarrelNames []string `yaml:"barrel_names" mapstructure:"barrel_names"`
}

// Default returns the configuration for a conventional React Native layout
// with a centralized types/ hierarchy.
func Default() *Config {
	return &Config{
		Root:       ".",
		Extensions: []string{".ts", ".tsx"},
		Exclude: []string{
			"node_modules/**",
			"dist/**",
			"build/**",
			"coverage/**",
			".expo/**",
			"**/*.d.ts",
		},
		Aliases: map[string]string{
			"~/": ".",
			"@/": "src",
		},
		SuffixRules: []SuffixRule{
			{Pattern: "*ParamList", Category: model.Navigation},
			{Pattern: "*ScreenProps", Category: model.Navigation},
			{Pattern: "*Params", Category: model.Navigation},
			{Pattern: "*Request", Category: model.Api},
			{Pattern: "*Response", Category: model.Api},
			{Pattern: "*Payload", Category: model.Api},
			{Pattern: "*State", Category: model.Store},
			{Pattern: "*Actions", Category: model.Store},
			{Pattern: "*Store", Category: model.Store},
			{Pattern: "*Props", Category: model.Ui},
		},
		PathRules: []PathRule{
			{Prefix: "types/navigation", Category: model.Navigation},
			{Prefix: "types/api", Category: model.Api},
			{Prefix: "types/entities", Category: model.Entity},
			{Prefix: "types/screens", Category: model.Screen},
			{Prefix: "types/ui", Category: model.Ui},
			{Prefix: "types/store", Category: model.Store},
		},
		CategoryDirs: map[model.Category]string{
			model.Navigation: "types/navigation",
			model.Api:        "types/api",
			model.Entity:     "types/entities",
			model.Screen:     "types/screens",
			model.Ui:         "types/ui",
			model.Store:      "types/store",
		},
		BarrelNames: []string{"index"},
	}
}

// Validate checks the configuration before a run. Any error here is fatal:
// no partial result would be meaningful.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("config: root is required")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("config: root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: %s: not a directory", c.Root)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("config: extension allowlist is empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("config: extension %q: missing leading dot", ext)
		}
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("config: glob %q: %w", p, err)
		}
	}
	for _, r := range c.SuffixRules {
		if _, err := glob.Compile(r.Pattern); err != nil {
			return fmt.Errorf("config: suffix pattern %q: %w", r.Pattern, err)
		}
		if !model.ValidCategory(r.Category) {
			return fmt.Errorf("config: suffix rule %q: unknown category %q", r.Pattern, r.Category)
		}
	}
	for _, r := range c.PathRules {
		if r.Prefix == "" {
			return fmt.Errorf("config: path rule with empty prefix")
		}
		if !model.ValidCategory(r.Category) {
			return fmt.Errorf("config: path rule %q: unknown category %q", r.Prefix, r.Category)
		}
	}
	for cat := range c.CategoryDirs {
		if !model.ValidCategory(cat) {
			return fmt.Errorf("config: category_dirs: unknown category %q", cat)
		}
	}
	if len(c.BarrelNames) == 0 {
		return fmt.Errorf("config: barrel_names is empty")
	}
	return nil
}

// HasExtension reports whether path ends in one of the allowlisted
// extensions.
func (c *Config) HasExtension(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsBarrel reports whether relPath is an aggregator (barrel) file.
func (c *Config) IsBarrel(relPath string) bool {
	base := relPath
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	for _, ext := range c.Extensions {
		if !strings.HasSuffix(base, ext) {
			continue
		}
		stem := strings.TrimSuffix(base, ext)
		for _, name := range c.BarrelNames {
			if stem == name {
				return true
			}
		}
	}
	return false
}
