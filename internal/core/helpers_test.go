package core

import (
	"context"
	"fmt"
	"testing"
)

// testSpecs is a small creature-like schema used across the core tests.
var testSpecs = []FieldSpec{
	{Name: "ID", Required: true},
	{Name: "Name", Aliases: []string{"NameJP"}},
	{Name: "Level", Aliases: []string{"Lv"}, Type: FieldInt, Default: "1"},
	{Name: "Area", Default: "Global"},
}

func testDefinition(key string) Definition {
	return Definition{
		Info:       GeneratorInfo{Key: key, Label: "Test"},
		FieldSpecs: testSpecs,
		Build: func(row Row, opts Options) (Entry, error) {
			id := row.Values.String("ID")
			if id == "bad/id" {
				return Entry{}, fmt.Errorf("invalid id %q", id)
			}
			files := []File{{
				Path:    "data/bank/function/test/" + id + ".mcfunction",
				Content: fmt.Sprintf("# %s lv%d %s\n", id, row.Values.Int("Level"), row.Values.String("Area")),
			}}
			if opts.SpawnFunctions {
				files = append(files, File{
					Path:    "data/mob/function/spawn/" + id + ".mcfunction",
					Content: "function test:" + id + "\n",
				})
			}
			return Entry{ID: id, Name: row.Values.String("Name"), Files: files}, nil
		},
	}
}

// registerTest registers a definition for the duration of the test.
func registerTest(t *testing.T, def Definition) {
	t.Helper()
	Clear()
	Register(def)
	t.Cleanup(Clear)
}

// fakeFetcher returns canned text for every URL and records the last URL.
type fakeFetcher struct {
	text    string
	err     error
	lastURL string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.lastURL = url
	return f.text, f.err
}
