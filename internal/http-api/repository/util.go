package repository

import "strings"

// likeClause uses an explicit escape character; SQLite has none by default.
const likeClause = ` LIKE ? ESCAPE '\'`

// likePattern builds a lower-cased LIKE pattern matching s anywhere,
// with LIKE wildcards in s taken literally.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
