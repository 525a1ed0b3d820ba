// Package model defines the core extraction data types.
package model

import "time"

// Encoding identifies which syntax a source document uses.
type Encoding string

const (
	// RawText is the brace-delimited .blk form.
	RawText Encoding = "blk"
	// StructuredJSON is the JSON-encoded .blkx form.
	StructuredJSON Encoding = "blkx"
)

// EncodingForExt maps a file extension (with or without the leading dot)
// to an Encoding. ok is false for unsupported extensions.
func EncodingForExt(ext string) (enc Encoding, ok bool) {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	switch Encoding(ext) {
	case RawText:
		return RawText, true
	case StructuredJSON:
		return StructuredJSON, true
	}
	return "", false
}

// SourceDocument is one input file read into memory.
type SourceDocument struct {
	Name     string
	Stem     string
	Encoding Encoding
	Content  []byte
}

// FileResult is what a single document contributed.
type FileResult struct {
	Name    string   `json:"file"`
	Stem    string   `json:"stem"`
	Presets []string `json:"presets"`
	Ammo    []string `json:"ammo"` // deduplicated, sorted
	Err     error    `json:"-"`    // structured parse failure; the file contributes nothing
}

// Empty reports whether the file yielded neither presets nor ammo.
func (r FileResult) Empty() bool {
	return len(r.Presets) == 0 && len(r.Ammo) == 0
}

// UnitRecord is one entry of the generated database.
type UnitRecord struct {
	ID             string   `json:"ID"`
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	WeaponsDefault []string `json:"weapons_default"`
	AmmoAmount     int      `json:"ammo_amount"`
	Image          string   `json:"image"`
	Role           string   `json:"role"`
	Ammo           []string `json:"ammo"`

	// Resolved is false when name, country, role and ammo_amount are
	// placeholder values rather than data about the unit.
	Resolved bool `json:"-"`
}

// Run is one persisted database generation.
type Run struct {
	ID        string    `json:"id"`
	InputDir  string    `json:"input_dir"`
	CreatedAt time.Time `json:"created_at"`
	Units     int       `json:"units"`
}
