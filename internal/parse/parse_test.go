package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/typeorg/internal/model"
)

func parseSource(t *testing.T, relPath, src string) model.FileResult {
	t.Helper()
	res, rerr := File(context.Background(), model.SourceFile{
		RelPath: relPath,
		Text:    []byte(src),
		Status:  model.Parsed,
	})
	require.Nil(t, rerr)
	return res
}

func TestFileExtractsExportedInterface(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/entities/user.ts", `
export interface User {
  id: string;
  name: string;
  email?: string;
}
`)

	require.Len(t, res.Decls, 1)
	d := res.Decls[0]
	assert.Equal(t, "User", d.Name)
	assert.Equal(t, model.Interface, d.Kind)
	assert.True(t, d.Exported)
	assert.Equal(t, 2, d.Line)
	require.Len(t, d.Members, 3)
	assert.Equal(t, model.Member{Name: "id", Type: "string"}, d.Members[0])
	assert.Equal(t, model.Member{Name: "name", Type: "string"}, d.Members[1])
	// Optionality is part of the shape.
	assert.Equal(t, model.Member{Name: "email?", Type: "string"}, d.Members[2])
}

func TestFileExtractsTypeAliasAndEnum(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/api/auth.ts", `
export type LoginRequest = {
  username: string;
  password: string;
};

export type UserId = string | number;

export enum Role {
  Admin = "admin",
  Member = "member",
}
`)

	require.Len(t, res.Decls, 3)

	alias := res.Decls[0]
	assert.Equal(t, "LoginRequest", alias.Name)
	assert.Equal(t, model.TypeAlias, alias.Kind)
	require.Len(t, alias.Members, 2)
	assert.Equal(t, "username", alias.Members[0].Name)

	union := res.Decls[1]
	assert.Equal(t, "UserId", union.Name)
	require.Len(t, union.Members, 1)
	assert.Equal(t, "=", union.Members[0].Name)
	assert.Equal(t, "string | number", union.Members[0].Type)

	enum := res.Decls[2]
	assert.Equal(t, "Role", enum.Name)
	assert.Equal(t, model.Enum, enum.Kind)
	require.Len(t, enum.Members, 2)
	assert.Equal(t, "Admin", enum.Members[0].Name)
	assert.Equal(t, `"admin"`, enum.Members[0].Type)
}

func TestFileGenericsAndHeritage(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/api/common.ts", `
export interface Paged<T> extends Base {
  items: T[];
  total: number;
}
`)

	require.Len(t, res.Decls, 1)
	d := res.Decls[0]
	assert.Equal(t, []string{"T"}, d.TypeParams)
	assert.Equal(t, []string{"Base"}, d.Heritage)
}

func TestFileIntersectionAlias(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/entities/admin.ts", `
export type Admin = User & { level: number };
`)

	require.Len(t, res.Decls, 1)
	d := res.Decls[0]
	assert.Equal(t, []string{"User"}, d.Heritage)
	require.Len(t, d.Members, 1)
	assert.Equal(t, "level", d.Members[0].Name)
}

func TestFileUnexportedAndLocalExportClause(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/store/auth.ts", `
interface AuthState {
  token: string;
}

interface Internal {
  secret: string;
}

export { AuthState };
`)

	require.Len(t, res.Decls, 2)
	byName := map[string]model.TypeDeclaration{}
	for _, d := range res.Decls {
		byName[d.Name] = d
	}
	assert.True(t, byName["AuthState"].Exported)
	assert.False(t, byName["Internal"].Exported)
}

func TestFileIgnoresNestedDeclarations(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "utils/helpers.ts", `
export function setup() {
  interface Local {
    x: number;
  }
  return null;
}
`)

	assert.Empty(t, res.Decls)
}

func TestFileExtractsImports(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "screens/ProfileScreen.tsx", `
import { User, Role as UserRole } from "../types/entities/user";
import type { ProfileParams } from "./params";
import * as api from "../services/api";
import client from "../services/client";
`)

	require.Len(t, res.Imports, 5)

	assert.Equal(t, model.ImportEdge{
		File: "screens/ProfileScreen.tsx", Symbol: "User",
		Specifier: "../types/entities/user", Kind: model.NamedImport, Line: 2,
	}, res.Imports[0])
	// An alias renames locally; the source-module name is what matches a
	// declaration.
	assert.Equal(t, "Role", res.Imports[1].Symbol)
	assert.Equal(t, model.TypeOnlyImport, res.Imports[2].Kind)
	assert.Equal(t, "ProfileParams", res.Imports[2].Symbol)
	assert.Equal(t, model.NamespaceImport, res.Imports[3].Kind)
	assert.Equal(t, "*", res.Imports[3].Symbol)
	assert.Equal(t, model.DefaultImport, res.Imports[4].Kind)
}

func TestFileExtractsReExports(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "types/index.ts", `
export { User, Role } from "./entities/user";
export * from "./api/auth";
export { LoginRequest as Login } from "./api/auth";
`)

	require.Len(t, res.ReExports, 3)
	assert.Equal(t, []string{"User", "Role"}, res.ReExports[0].Names)
	assert.False(t, res.ReExports[0].Star)
	assert.True(t, res.ReExports[1].Star)
	// Outward-facing name wins for aliased re-exports.
	assert.Equal(t, []string{"Login"}, res.ReExports[2].Names)
}

func TestFileSyntaxErrorOmitsDeclarations(t *testing.T) {
	t.Parallel()

	res, rerr := File(context.Background(), model.SourceFile{
		RelPath: "broken.ts",
		Text:    []byte("export interface {{{"),
		Status:  model.Parsed,
	})

	require.NotNil(t, rerr)
	assert.Equal(t, model.ParseError, rerr.Kind)
	assert.Equal(t, "broken.ts", rerr.File)
	assert.Empty(t, res.Decls)
}

func TestFileUnreadableReportsIoError(t *testing.T) {
	t.Parallel()

	res, rerr := File(context.Background(), model.SourceFile{
		RelPath:    "secret.ts",
		Status:     model.Failed,
		FailReason: "permission denied",
	})

	require.NotNil(t, rerr)
	assert.Equal(t, model.IoError, rerr.Kind)
	assert.Empty(t, res.Decls)
}

func TestFileTSXGrammar(t *testing.T) {
	t.Parallel()

	res := parseSource(t, "components/Avatar.tsx", `
export interface AvatarProps {
  uri: string;
  size: number;
}

export function Avatar(props: AvatarProps) {
  return <img src={props.uri} />;
}
`)

	require.Len(t, res.Decls, 1)
	assert.Equal(t, "AvatarProps", res.Decls[0].Name)
}
