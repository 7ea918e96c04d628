package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/mobgen/internal/config"
	"github.com/JonMunkholm/mobgen/internal/core"
	"github.com/stretchr/testify/require"
)

const mobCSV = "ID,Name,Level,MaxHP,Category1,Category2,Category3\n" +
	"goblin,ゴブリン,5,50,Global,Ground,Blow\n" +
	"orc,オーク,oops,80,Forest,Ground,Shoot\n"

const itemCSV = "NameJP,NameUS,ATK\n" +
	"鉄の剣,Iron Sword,5\n"

type fakeFetcher struct {
	byGID map[string]string
	err   error
	urls  *[]string
}

func (f fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.urls != nil {
		*f.urls = append(*f.urls, url)
	}
	if f.err != nil {
		return "", f.err
	}
	for gid, text := range f.byGID {
		if strings.HasSuffix(url, "gid="+gid) {
			return text, nil
		}
	}
	return "", errors.New("unexpected url " + url)
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MOBGEN_DATAPACK_DIR", dir)
	t.Setenv("MOBGEN_MOB_SHEET_GID", "0")
	t.Setenv("MOBGEN_ITEM_SHEET_GID", "7")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func factory(f fakeFetcher) fetcherFactory {
	return func(config.Config) core.Fetcher { return f }
}

func sheets() fakeFetcher {
	return fakeFetcher{byGID: map[string]string{"0": mobCSV, "7": itemCSV}}
}

func runCmd(t *testing.T, f fakeFetcher, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, factory(f))
	return code, stdout.String(), stderr.String()
}

func TestRun_Mobs(t *testing.T) {
	dir := setupEnv(t)

	code, out, _ := runCmd(t, sheets())
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "mobgen mob")

	_, err := os.Stat(filepath.Join(dir, "data", "bank", "function", "mob", "global", "ground", "blow", "goblin.mcfunction"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "mob", "function", "spawn", "orc.mcfunction"))
	require.NoError(t, err)
}

func TestRun_FlagsAfterCommand(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()

	code, stdout, _ := runCmd(t, sheets(), "mobs", "-out", out, "-no-spawn")
	require.Equal(t, exitOK, code)
	require.Contains(t, stdout, out)

	_, err := os.Stat(filepath.Join(out, "data", "bank", "function", "mob", "forest", "ground", "shoot", "orc.mcfunction"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "data", "mob"))
	require.True(t, os.IsNotExist(err))
}

func TestRun_DryRun(t *testing.T) {
	dir := setupEnv(t)

	code, out, _ := runCmd(t, sheets(), "-dry-run", "items")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "dry run")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRun_SheetOverride(t *testing.T) {
	dir := setupEnv(t)
	var urls []string
	f := fakeFetcher{byGID: map[string]string{"99": itemCSV}, urls: &urls}

	code, _, _ := runCmd(t, f, "-sheet", "99", "items")
	require.Equal(t, exitOK, code)
	require.Len(t, urls, 1)
	require.True(t, strings.HasSuffix(urls[0], "gid=99"))

	_, err := os.Stat(filepath.Join(dir, "data", "bank", "function", "item", "001.iron_sword", "register.mcfunction"))
	require.NoError(t, err)
}

func TestRun_Peek(t *testing.T) {
	setupEnv(t)

	code, out, _ := runCmd(t, sheets(), "-rows", "2", "peek")
	require.Equal(t, exitOK, code)
	require.Equal(t, "Row 0: [\"ID\" \"Name\" \"Level\" \"MaxHP\" \"Category1\" \"Category2\" \"Category3\"]\n"+
		"Row 1: [\"goblin\" \"ゴブリン\" \"5\" \"50\" \"Global\" \"Ground\" \"Blow\"]\n", out)

	code, out, _ = runCmd(t, sheets(), "peek", "items")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "Iron Sword")

	code, _, stderr := runCmd(t, sheets(), "peek", "bosses")
	require.Equal(t, exitUsage, code)
	require.Contains(t, stderr, "unknown generator")
}

func TestRun_Manifest(t *testing.T) {
	setupEnv(t)
	mobOut, itemOut := t.TempDir(), t.TempDir()
	manifest := filepath.Join(t.TempDir(), "mobgen.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("jobs:\n"+
		"  - generator: mob\n    datapack_dir: "+mobOut+"\n    spawn_functions: false\n"+
		"  - generator: item\n    datapack_dir: "+itemOut+"\n"), 0o644))

	code, out, _ := runCmd(t, sheets(), "-file", manifest, "manifest")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "mobgen mob")
	require.Contains(t, out, "mobgen item")

	_, err := os.Stat(filepath.Join(mobOut, "data", "bank", "function", "mob", "global", "ground", "blow", "goblin.mcfunction"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(mobOut, "data", "mob"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(itemOut, "data", "bank", "function", "item", "001.iron_sword", "register.mcfunction"))
	require.NoError(t, err)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		fetcher  fakeFetcher
		env      map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "unknown command",
			args:     []string{"bosses"},
			fetcher:  sheets(),
			wantCode: exitUsage,
			wantErr:  `unknown command "bosses"`,
		},
		{
			name:     "bad flag",
			args:     []string{"-bogus"},
			fetcher:  sheets(),
			wantCode: exitUsage,
		},
		{
			name:     "fetch failure",
			args:     []string{"mobs"},
			fetcher:  fakeFetcher{err: errors.New("dial tcp: connection refused")},
			wantCode: exitFatal,
			wantErr:  "Error:",
		},
		{
			name:     "missing id column",
			args:     []string{"mobs"},
			fetcher:  fakeFetcher{byGID: map[string]string{"0": "Name,Level\nx,1\n"}},
			wantCode: exitFatal,
			wantErr:  "Error:",
		},
		{
			name:     "invalid config",
			args:     []string{"mobs"},
			fetcher:  sheets(),
			env:      map[string]string{"LOG_FORMAT": "xml"},
			wantCode: exitFatal,
			wantErr:  "LOG_FORMAT",
		},
		{
			name:     "missing manifest",
			args:     []string{"-file", "does-not-exist.yaml", "manifest"},
			fetcher:  sheets(),
			wantCode: exitFatal,
			wantErr:  "manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			code, _, stderr := runCmd(t, tt.fetcher, tt.args...)
			require.Equal(t, tt.wantCode, code)
			require.Contains(t, stderr, tt.wantErr)
		})
	}
}
