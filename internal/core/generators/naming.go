package generators

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/mobgen/internal/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	separatorRun = regexp.MustCompile(`[\s\-]+`)
	wordBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerUpper   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	underscores  = regexp.MustCompile(`_+`)
)

// snakeCase converts a display name to a file-friendly id:
// "SkeletonWarrior" and "Skeleton Warrior" both become "skeleton_warrior".
func snakeCase(text string) string {
	s := separatorRun.ReplaceAllString(strings.TrimSpace(text), "_")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = lowerUpper.ReplaceAllString(s, "${1}_${2}")
	s = underscores.ReplaceAllString(s, "_")
	return strings.ToLower(strings.Trim(s, "_"))
}

// capitalize upper-cases the first letter and lower-cases the rest, so
// "dark-knight" becomes "Dark-knight".
func capitalize(s string) string {
	for i := range s {
		if i > 0 {
			return cases.Upper(language.Und).String(s[:i]) + lower(s[i:])
		}
	}
	return cases.Upper(language.Und).String(s)
}

// lower lower-cases s with Unicode rules, for path segments.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// namespaced adds the minecraft namespace to ids that have none.
func namespaced(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return "minecraft:" + id
}

var jsonTextEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// jsonText escapes s for use inside a quoted JSON text component.
func jsonText(s string) string {
	return jsonTextEscaper.Replace(s)
}

// validID reports whether id can be used as a file name and function path.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// withDefaults returns a copy of v where empty fields carry their spec default.
func withDefaults(v core.Values, specs []core.FieldSpec) core.Values {
	out := make(core.Values, len(specs))
	for k, val := range v {
		out[k] = val
	}
	for _, spec := range specs {
		if out[spec.Name] == "" {
			out[spec.Name] = spec.Default
		}
	}
	return out
}
