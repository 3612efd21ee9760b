package host

import (
	"strings"
	"unicode"
)

// Namer maps a Go field or method name to the member name guests see.
type Namer func(goName string) string

// GoName keeps Go names unchanged.
func GoName(name string) string { return name }

// KebabCase converts PascalCase to kebab-case. Acronyms stay together:
// ParseXMLFile -> parse-xml-file.
func KebabCase(name string) string { return splitWords(name, '-') }

// SnakeCase converts PascalCase to snake_case, the convention of Python-like
// guests: ParseXMLFile -> parse_xml_file.
func SnakeCase(name string) string { return splitWords(name, '_') }

// LowerCamel lowers the leading word: ParseXMLFile -> parseXMLFile,
// ID -> id.
func LowerCamel(name string) string {
	runes := []rune(name)
	end := 0
	for end < len(runes) && unicode.IsUpper(runes[end]) {
		end++
	}
	// keep the capital that starts the next word
	if end > 1 && end < len(runes) && unicode.IsLower(runes[end]) {
		end--
	}
	if end == 0 {
		end = 1
	}
	for i := 0; i < end && i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func splitWords(s string, sep byte) string {
	if len(s) == 0 {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if !unicode.IsUpper(r) {
			result.WriteRune(r)
			continue
		}

		end := i + 1
		for end < len(runes) && unicode.IsUpper(runes[end]) {
			end++
		}
		// the last capital of a run starts the following word
		if end > i+1 && end < len(runes) && unicode.IsLower(runes[end]) {
			end--
		}

		if i > 0 && runes[i-1] != rune(sep) {
			result.WriteByte(sep)
		}
		for j := i; j < end; j++ {
			result.WriteRune(unicode.ToLower(runes[j]))
		}
		i = end - 1
	}
	return result.String()
}
