// Package blk locates named blocks in .blk and .blkx documents and
// enumerates their immediate structure. It does not parse the full grammar.
package blk

import (
	"regexp"
	"strings"
)

// Block keys the extractors look for.
const (
	ModificationsKey = "modifications"
	WeaponPresetsKey = "weapon_presets"
)

// Block is the sub-structure found under a top-level key. Text is set for
// raw documents, Value for JSON documents.
type Block struct {
	Text  string
	Value any
}

// FindRawBlock returns the content strictly between the braces that follow
// the first occurrence of key in content. The key is matched as a plain
// substring, so a longer identifier that contains it (e.g.
// "old_modifications") also matches if it comes first.
func FindRawBlock(content, key string) (string, bool) {
	start := strings.Index(content, key)
	if start < 0 {
		return "", false
	}
	open := strings.IndexByte(content[start:], '{')
	if open < 0 {
		return "", false
	}
	body := content[start+open+1:]

	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return body[:i], true
			}
			depth--
		}
	}
	// unterminated
	return "", false
}

var childKeyRe = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_]+)\s*\{`)

// ScanChildKeys returns identifiers that start a line of block (ignoring
// leading whitespace) and are directly followed by '{'. Keys are returned
// in first-seen order without duplicates. Identifiers that only appear
// after other text on a line, such as those inside a one-line nested
// block, are not returned.
func ScanChildKeys(block string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range childKeyRe.FindAllStringSubmatch(block, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

var presetNameRe = regexp.MustCompile(`name\s*:\s*t\s*=\s*"([^"]+)"`)

// ScanPresetNames returns every `name:t = "..."` value in block, in order.
func ScanPresetNames(block string) []string {
	var names []string
	for _, m := range presetNameRe.FindAllStringSubmatch(block, -1) {
		names = append(names, m[1])
	}
	return names
}
