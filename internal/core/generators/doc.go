// Package generators registers the mob and item generators with the core
// registry. Import it for its side effects:
//
//	import _ "github.com/JonMunkholm/mobgen/internal/core/generators"
//
// Each generator resolves a sheet row into a record, derives tags and
// paths from it and renders the datapack files from embedded templates.
package generators
