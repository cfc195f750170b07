package sqlbuild

import (
	"database/sql"
	"fmt"
	"strings"
)

// Dialect describes how a driver expects bind parameters.
type Dialect int

const (
	// DialectPostgres rewrites :name to positional $n.
	DialectPostgres Dialect = iota
	// DialectSQLite keeps :name and binds sql.NamedArg values.
	DialectSQLite
)

// Bind converts a query using :name placeholders into the form the dialect
// expects and orders args accordingly. Every placeholder must have an entry
// in args.
func Bind(d Dialect, query string, args map[string]any) (string, []any, error) {
	names := Placeholders(query)
	for _, name := range names {
		if _, ok := args[name]; !ok {
			return "", nil, fmt.Errorf("no value bound for placeholder :%s", name)
		}
	}

	switch d {
	case DialectPostgres:
		index := make(map[string]int, len(names))
		ordered := make([]any, 0, len(names))
		for _, name := range names {
			index[name] = len(ordered) + 1
			ordered = append(ordered, args[name])
		}
		rewritten := rewrite(query, func(name string) string {
			return fmt.Sprintf("$%d", index[name])
		})
		return rewritten, ordered, nil

	case DialectSQLite:
		named := make([]any, 0, len(names))
		for _, name := range names {
			named = append(named, sql.Named(name, args[name]))
		}
		return query, named, nil

	default:
		return "", nil, fmt.Errorf("unknown dialect %d", d)
	}
}

// Placeholders returns the distinct :name placeholders in query in order of
// first appearance.
func Placeholders(query string) []string {
	var names []string
	seen := make(map[string]bool)
	rewrite(query, func(name string) string {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return ":" + name
	})
	return names
}

// rewrite replaces each :name placeholder with repl(name). Single-quoted
// literals, double-quoted identifiers and :: casts are left alone.
func rewrite(query string, repl func(name string) string) string {
	var b strings.Builder
	b.Grow(len(query))

	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdentPart(query[j]) {
				j++
			}
			b.WriteString(repl(query[i+1 : j]))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
