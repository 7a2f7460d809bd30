package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are written in upper case in Go identifiers.
var initialisms = map[string]bool{
	"api": true, "db": true, "html": true, "http": true, "id": true,
	"ip": true, "json": true, "sql": true, "uid": true, "uri": true,
	"url": true, "uuid": true, "xml": true,
}

// GoName returns the exported Go identifier of a column or table name.
//
//	GoName("author_id")  // AuthorID
//	GoName("created-at") // CreatedAt
func GoName(s string) string {
	// A Caser is stateful; it is not shared between rendering goroutines.
	title := cases.Title(language.English)
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, w := range words {
		lw := strings.ToLower(w)
		if initialisms[lw] {
			b.WriteString(strings.ToUpper(lw))
			continue
		}
		b.WriteString(title.String(lw))
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "X" + name
	}
	return name
}

// FileName returns the name of the file generated for an entity.
func FileName(entity string) string {
	return inflect.Underscore(entity) + ".go"
}
