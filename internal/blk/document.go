package blk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/rcliao/blk-extract/internal/model"
)

// Document is an encoding-agnostic view over one source file.
type Document interface {
	// FindBlock returns the block stored under key, if any.
	FindBlock(key string) (Block, bool)

	// ChildKeys lists the immediate child keys of b.
	ChildKeys(b Block) []string

	// PresetNames lists preset names found in a weapon_presets block.
	PresetNames(b Block) []string
}

// Open builds the Document variant matching src.Encoding. Only JSON
// documents can fail: their content must be valid JSON.
func Open(src model.SourceDocument) (Document, error) {
	switch src.Encoding {
	case model.RawText:
		return RawDocument{content: string(src.Content)}, nil
	case model.StructuredJSON:
		doc, err := ParseJSON(src.Content)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", src.Encoding)
}

// RawDocument is a .blk document.
type RawDocument struct {
	content string
}

// NewRawDocument wraps raw .blk text.
func NewRawDocument(content string) RawDocument {
	return RawDocument{content: content}
}

func (d RawDocument) FindBlock(key string) (Block, bool) {
	text, ok := FindRawBlock(d.content, key)
	if !ok {
		return Block{}, false
	}
	return Block{Text: text}, true
}

func (d RawDocument) ChildKeys(b Block) []string {
	return ScanChildKeys(b.Text)
}

func (d RawDocument) PresetNames(b Block) []string {
	return ScanPresetNames(b.Text)
}

// JSONDocument is a decoded .blkx document.
type JSONDocument struct {
	root map[string]any
}

// ParseJSON decodes .blkx content. A top-level value that is not an object
// is accepted and simply has no blocks.
func ParseJSON(content []byte) (JSONDocument, error) {
	var v any
	if err := sonic.ConfigStd.Unmarshal(content, &v); err != nil {
		return JSONDocument{}, fmt.Errorf("parse json: %w", err)
	}
	root, _ := v.(map[string]any)
	return JSONDocument{root: root}, nil
}

func (d JSONDocument) FindBlock(key string) (Block, bool) {
	v, ok := d.root[key]
	if !ok || v == nil {
		return Block{}, false
	}
	return Block{Value: v}, true
}

// ChildKeys returns the object's field names, trimmed and sorted. Non-object
// blocks have no children.
func (d JSONDocument) ChildKeys(b Block) []string {
	obj, ok := b.Value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, strings.TrimSpace(k))
	}
	sort.Strings(keys)
	return keys
}

// PresetNames reads the "preset" field of the block: a single object yields
// its name, an array yields each element's name. Entries without a string
// name are skipped.
func (d JSONDocument) PresetNames(b Block) []string {
	obj, ok := b.Value.(map[string]any)
	if !ok {
		return nil
	}
	switch p := obj["preset"].(type) {
	case map[string]any:
		if name, ok := p["name"].(string); ok {
			return []string{name}
		}
	case []any:
		var names []string
		for _, el := range p {
			entry, ok := el.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := entry["name"].(string); ok {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}
