// Package extract drives source documents through block location and
// classification and assembles the reports built from them.
package extract

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rcliao/blk-extract/internal/ammo"
	"github.com/rcliao/blk-extract/internal/blk"
	"github.com/rcliao/blk-extract/internal/model"
)

// logger is resolved per call so it follows the global logger configured
// by the CLI.
func logger() zerolog.Logger {
	return log.With().Str("module", "extract").Logger()
}

// Process extracts presets and ammunition from one document. A JSON
// document that fails to parse yields a result with Err set and no data.
func Process(src model.SourceDocument) model.FileResult {
	res := model.FileResult{Name: src.Name, Stem: src.Stem, Presets: []string{}, Ammo: []string{}}

	doc, err := blk.Open(src)
	if err != nil {
		res.Err = err
		return res
	}
	return collect(doc, res)
}

func collect(doc blk.Document, res model.FileResult) model.FileResult {
	l := logger()

	set := ammo.Set{}
	if mods, ok := doc.FindBlock(blk.ModificationsKey); ok {
		for _, key := range doc.ChildKeys(mods) {
			set.Add(key)
		}
	} else {
		l.Debug().Str("file", res.Name).Msg("no modifications block")
	}
	res.Ammo = set.Sorted()

	if presets, ok := doc.FindBlock(blk.WeaponPresetsKey); ok {
		if names := doc.PresetNames(presets); len(names) > 0 {
			res.Presets = names
		}
	} else {
		l.Debug().Str("file", res.Name).Msg("no weapon_presets block")
	}

	return res
}
