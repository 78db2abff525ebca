package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/model"
)

func writeProject(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cfg := config.Default()
	cfg.Root = root
	return cfg
}

func kindsOf(diags []model.Diagnostic) []model.DiagnosticKind {
	out := make([]model.DiagnosticKind, len(diags))
	for i := range diags {
		out[i] = diags[i].Kind
	}
	return out
}

func TestRunDuplicateAcrossFiles(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"types/entities/user.ts": `
export interface User {
  id: string;
  name: string;
}
`,
		"services/authService.ts": `
export interface User {
  id: string;
  name: string;
}

export function login(u: User): void {}
`,
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	var dup *model.Diagnostic
	for i := range result.Diagnostics {
		if result.Diagnostics[i].Kind == model.Duplicate {
			dup = &result.Diagnostics[i]
		}
	}
	require.NotNil(t, dup, "expected a duplicate finding, got %v", kindsOf(result.Diagnostics))
	assert.Equal(t, "User", dup.Name)
	require.Len(t, dup.Related, 1)
	assert.Equal(t, model.SeverityError, dup.Severity)
	assert.Equal(t, 2, result.FileCount)
}

func TestRunNavigationParamsScenario(t *testing.T) {
	t.Parallel()

	// ProfileParams is declared inline in a screen and imported by two
	// other screens: both the misplacement and centralization signals
	// apply.
	cfg := writeProject(t, map[string]string{
		"screens/ProfileScreen.tsx": `
export interface ProfileParams {
  userId: string;
}

export function ProfileScreen(): null { return null; }
`,
		"screens/SettingsScreen.tsx": `
import { ProfileParams } from "./ProfileScreen";

export function SettingsScreen(p: ProfileParams): null { return null; }
`,
		"screens/HomeScreen.tsx": `
import type { ProfileParams } from "./ProfileScreen";

export function HomeScreen(p: ProfileParams): null { return null; }
`,
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	got := kindsOf(result.Diagnostics)
	assert.Contains(t, got, model.Misplaced)
	assert.Contains(t, got, model.ShouldCentralize)

	for _, d := range result.Diagnostics {
		assert.Equal(t, "ProfileParams", d.Name)
		assert.Equal(t, "screens/ProfileScreen.tsx", d.File)
		assert.Contains(t, d.Message, "types/navigation")
	}
}

func TestRunBarrelCompleteness(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"types/entities/user.ts":    "export interface User { id: string; }\n",
		"types/entities/product.ts": "export interface Product { sku: string; }\n",
		"types/entities/index.ts":   `export { User } from "./user";` + "\n",
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, model.MissingBarrelExport, d.Kind)
	assert.Equal(t, "Product", d.Name)
	assert.Equal(t, "types/entities/product.ts", d.File)
}

func TestRunCleanProjectHasNoFindings(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"types/entities/user.ts": "export interface User { id: string; }\n",
		"types/entities/index.ts": `export * from "./user";` + "\n",
		"screens/Profile.tsx": `
import { User } from "../types/entities";

export function Profile(u: User): null { return null; }
`,
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.FileCount)
	assert.Equal(t, 1, result.DeclCount)
}

func TestRunReportsImportCycle(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"models/order.ts": `
import { Customer } from "./customer";

export interface Order {
  customer: Customer;
}
`,
		"models/customer.ts": `
import { Order } from "./order";

export interface Customer {
  orders: Order[];
}
`,
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, model.ImportCycle, d.Kind)
	assert.Equal(t, "models/customer.ts", d.File)
}

func TestRunIdempotent(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"a.ts": "export interface User { id: string; }\n",
		"b.ts": "export interface User { id: string; }\n",
		"c.ts": "export interface Account { id: string; }\n",
	})

	first, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunDegradesOnSyntaxError(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"broken.ts": "export interface User { id: \n",
		"good.ts":   "export interface Account { id: string; }\n",
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ParseError, result.Errors[0].Kind)
	assert.Equal(t, "broken.ts", result.Errors[0].File)
	// The healthy file is still analyzed.
	assert.Equal(t, 1, result.DeclCount)
}

func TestRunUnknownImportRecovered(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"app.ts": `import { Ghost } from "./missing";` + "\n",
	})

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ResolutionError, result.Errors[0].Kind)
}

func TestRunInvalidConfigFatal(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = filepath.Join(t.TempDir(), "missing")

	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, map[string]string{
		"a.ts": "export interface A { id: string; }\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
