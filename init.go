package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// starterConfig is written by `typeorg init`. It mirrors the built-in
// defaults so editing it is discoverable.
const starterConfig = `# typeorg configuration. Values here override the built-in defaults;
# TYPEORG_* environment variables override both.

extensions:
  - .ts
  - .tsx

exclude:
  - node_modules/**
  - dist/**
  - build/**
  - coverage/**
  - "**/*.d.ts"

aliases:
  "~/": "."
  "@/": "src"

# Classification precedence: suffix rules first, then path rules.
suffix_rules:
  - { pattern: "*ParamList", category: navigation }
  - { pattern: "*ScreenProps", category: navigation }
  - { pattern: "*Params", category: navigation }
  - { pattern: "*Request", category: api }
  - { pattern: "*Response", category: api }
  - { pattern: "*Payload", category: api }
  - { pattern: "*State", category: store }
  - { pattern: "*Actions", category: store }
  - { pattern: "*Store", category: store }
  - { pattern: "*Props", category: ui }

path_rules:
  - { prefix: types/navigation, category: navigation }
  - { prefix: types/api, category: api }
  - { prefix: types/entities, category: entity }
  - { prefix: types/screens, category: screen }
  - { prefix: types/ui, category: ui }
  - { prefix: types/store, category: store }

category_dirs:
  navigation: types/navigation
  api: types/api
  entity: types/entities
  screen: types/screens
  ui: types/ui
  store: types/store

barrel_names:
  - index
`

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter .typeorg/config.yml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		dir := filepath.Join(root, ".typeorg")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		path := filepath.Join(dir, "config.yml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}
