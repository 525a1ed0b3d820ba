// Package ammo decides which modification keys name ammunition types.
package ammo

import (
	"regexp"
	"sort"
	"strings"
)

// PackSuffix marks grouping containers, which are never ammunition.
const PackSuffix = "_ammo_pack"

// Keywords are the ammunition-type tokens recognised at '_' boundaries.
var Keywords = []string{
	"API", "APIT", "APDS", "APHE", "APCBC", "APC", "AP",
	"HEAT", "HESH", "HE", "ATGM", "VT", "CN", "NATO", "USSR", "USA", "SW",
}

var (
	calibreRe = regexp.MustCompile(`(?i)\d+mm`)
	keywordRe = regexp.MustCompile(`(?i)(?:^|_)(?:` + strings.Join(Keywords, "|") + `)(?:_|$)`)
)

// IsAmmo reports whether key names an ammunition type: it contains a
// calibre such as "125mm", or one of Keywords delimited by '_' or the ends
// of the key. Keys ending in PackSuffix are always rejected.
func IsAmmo(key string) bool {
	if key == "" || strings.HasSuffix(key, PackSuffix) {
		return false
	}
	return calibreRe.MatchString(key) || keywordRe.MatchString(key)
}

// Set accumulates distinct ammunition identifiers.
type Set map[string]struct{}

// Add classifies key and records it when it is ammunition. It reports
// whether key was accepted.
func (s Set) Add(key string) bool {
	key = strings.TrimSpace(key)
	if !IsAmmo(key) {
		return false
	}
	s[key] = struct{}{}
	return true
}

// Sorted returns the identifiers in lexicographic order. The result is
// never nil.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
