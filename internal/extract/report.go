package extract

import (
	"github.com/rcliao/blk-extract/internal/ammo"
	"github.com/rcliao/blk-extract/internal/enrich"
	"github.com/rcliao/blk-extract/internal/model"
)

// Report is the output of the single-purpose extraction commands. Each
// entry maps a file name to its value.
type Report struct {
	Tanks []map[string]any `json:"tanks"`
}

// AmmoReport emits one entry per file with at least one ammunition type.
func AmmoReport(results []model.FileResult) Report {
	r := Report{Tanks: []map[string]any{}}
	for _, res := range results {
		if len(res.Ammo) == 0 {
			continue
		}
		r.Tanks = append(r.Tanks, map[string]any{res.Name: res.Ammo})
	}
	return r
}

// PresetReport emits one entry per preset name, so a file with N presets
// appears N times.
func PresetReport(results []model.FileResult) Report {
	r := Report{Tanks: []map[string]any{}}
	for _, res := range results {
		for _, p := range res.Presets {
			r.Tanks = append(r.Tanks, map[string]any{res.Name: p})
		}
	}
	return r
}

// BuildDatabase merges each contributing file into a unit record. Files
// sharing a stem (tiger.blk and tiger.blkx) become one record: presets are
// concatenated in file-name order and ammo is the sorted union. Metadata
// the files do not carry comes from resolver.
func BuildDatabase(results []model.FileResult, resolver enrich.Resolver) []model.UnitRecord {
	if resolver == nil {
		resolver = enrich.Placeholder{}
	}
	l := logger()

	units := []model.UnitRecord{}
	byID := make(map[string]int)
	ammoByID := make(map[string]ammo.Set)
	for _, res := range results {
		if res.Empty() {
			continue
		}
		if i, ok := byID[res.Stem]; ok {
			l.Info().Str("unit", res.Stem).Str("file", res.Name).Msg("merging file into existing unit")
			units[i].WeaponsDefault = append(units[i].WeaponsDefault, res.Presets...)
			for _, a := range res.Ammo {
				ammoByID[res.Stem][a] = struct{}{}
			}
			units[i].Ammo = ammoByID[res.Stem].Sorted()
			continue
		}

		info := resolver.Resolve(res.Stem)
		set := ammo.Set{}
		for _, a := range res.Ammo {
			set[a] = struct{}{}
		}
		byID[res.Stem] = len(units)
		ammoByID[res.Stem] = set
		units = append(units, model.UnitRecord{
			ID:             res.Stem,
			Name:           info.Name,
			Country:        info.Country,
			WeaponsDefault: append([]string{}, res.Presets...),
			AmmoAmount:     info.AmmoAmount,
			Image:          res.Stem + ".png",
			Role:           info.Role,
			Ammo:           set.Sorted(),
			Resolved:       info.Resolved,
		})
	}

	unresolved := 0
	for _, u := range units {
		if !u.Resolved {
			unresolved++
		}
	}
	if unresolved > 0 {
		l.Warn().Int("units", unresolved).
			Msg("name, country, role and ammo_amount are placeholders for these units")
	}
	return units
}
