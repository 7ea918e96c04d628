// Package core provides the business logic for generating datapack files
// from spreadsheet rows.
//
// This package has no UI dependencies. The CLI and the preview server both
// drive it through [Service].
//
// # Generator Registry
//
// Generators are registered at init time using [Register]. Each
// [Definition] names the sheet it reads, the columns it understands and
// a build function that renders one row:
//
//	core.Register(core.Definition{
//	    Info: core.GeneratorInfo{Key: "mob", Label: "Mobs", Sheet: "mob"},
//	    FieldSpecs: []core.FieldSpec{
//	        {Name: "ID", Required: true},
//	        {Name: "Level", Aliases: []string{"Lv"}, Type: core.FieldInt, Default: "1"},
//	    },
//	    Build: buildMob,
//	})
//
// # Run
//
//  1. [Service.Plan] fetches the sheet and parses it with package sheet
//  2. [RowValidator] resolves each record into [Values], applying defaults
//  3. The definition's Build renders the row into an [Entry] of files
//  4. [Service.Generate] writes each file with a [Writer]
//
// Rows with a missing required value are skipped with a warning. A write
// failure is recorded for its row and the run continues. Fetch and parse
// failures abort the run.
package core
