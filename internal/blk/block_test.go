package blk

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rcliao/blk-extract/internal/model"
)

func TestFindRawBlock_Nested(t *testing.T) {
	content := "modifications { variant_a { 105mm_ap { cost:i=10 } } } other { x { } }"
	got, ok := FindRawBlock(content, ModificationsKey)
	if !ok {
		t.Fatal("expected block")
	}
	want := " variant_a { 105mm_ap { cost:i=10 } } "
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Count(got, "{") != strings.Count(got, "}") {
		t.Errorf("unbalanced braces in %q", got)
	}
}

func TestFindRawBlock_Absent(t *testing.T) {
	if _, ok := FindRawBlock("weapon_presets { }", ModificationsKey); ok {
		t.Error("expected no block")
	}
	if _, ok := FindRawBlock("modifications", ModificationsKey); ok {
		t.Error("expected no block without an opening brace")
	}
	if _, ok := FindRawBlock("modifications { a { }", ModificationsKey); ok {
		t.Error("expected no block when unterminated")
	}
}

func TestFindRawBlock_FirstMatchWins(t *testing.T) {
	content := "modifications { first { } }\nmodifications { second { } }"
	got, _ := FindRawBlock(content, ModificationsKey)
	if !strings.Contains(got, "first") || strings.Contains(got, "second") {
		t.Errorf("expected first block only, got %q", got)
	}
}

func TestFindRawBlock_SubstringMatch(t *testing.T) {
	// Known limitation: no word-boundary check on the key.
	content := "old_modifications { stale { } }\nmodifications { fresh { } }"
	got, _ := FindRawBlock(content, ModificationsKey)
	if !strings.Contains(got, "stale") {
		t.Errorf("expected the earlier substring hit, got %q", got)
	}
}

func TestScanChildKeys_ImmediateOnly(t *testing.T) {
	block := `
  variant_a {
    105mm_ap { cost:i=10 }
  }
  120mm_heat{
  }
  variant_a {
  }
`
	got := ScanChildKeys(block)
	// 105mm_ap starts its own line so it is picked up as well; the scan is
	// line based, not depth based.
	want := []string{"variant_a", "105mm_ap", "120mm_heat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	oneLine := " variant_a { 105mm_ap { cost:i=10 } } "
	got = ScanChildKeys(oneLine)
	if !reflect.DeepEqual(got, []string{"variant_a"}) {
		t.Errorf("expected [variant_a], got %v", got)
	}
}

func TestScanPresetNames(t *testing.T) {
	block := `
preset {
  name:t = "AP belt"
}
preset {
  name : t= "HE belt"
}
preset {
  name:t="AP belt"
}`
	got := ScanPresetNames(block)
	want := []string{"AP belt", "HE belt", "AP belt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestJSONDocument(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"modifications": {"88mm_apcbc": {}, " 88mm_he ": {}, "smoke_ammo_pack": {}},
		"weapon_presets": {"preset": [{"name": "AP belt"}, {"cost": 1}, {"name": 3}, {"name": "HE belt"}]},
		"empty": null
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	mods, ok := doc.FindBlock(ModificationsKey)
	if !ok {
		t.Fatal("expected modifications")
	}
	keys := doc.ChildKeys(mods)
	want := []string{"88mm_apcbc", "88mm_he", "smoke_ammo_pack"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}

	presets, _ := doc.FindBlock(WeaponPresetsKey)
	names := doc.PresetNames(presets)
	if !reflect.DeepEqual(names, []string{"AP belt", "HE belt"}) {
		t.Errorf("unexpected presets %v", names)
	}

	if _, ok := doc.FindBlock("empty"); ok {
		t.Error("null value should be absent")
	}
	if _, ok := doc.FindBlock("missing"); ok {
		t.Error("missing key should be absent")
	}
}

func TestJSONDocument_SinglePreset(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"weapon_presets": {"preset": {"name": "Default"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, _ := doc.FindBlock(WeaponPresetsKey)
	if got := doc.PresetNames(b); !reflect.DeepEqual(got, []string{"Default"}) {
		t.Errorf("expected [Default], got %v", got)
	}

	doc, _ = ParseJSON([]byte(`{"weapon_presets": {"preset": "Default"}}`))
	b, _ = doc.FindBlock(WeaponPresetsKey)
	if got := doc.PresetNames(b); len(got) != 0 {
		t.Errorf("expected no presets for scalar, got %v", got)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"modifications": `)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Open(model.SourceDocument{Encoding: model.StructuredJSON, Content: []byte("nope")}); err == nil {
		t.Fatal("expected open error")
	}
}

func TestOpen_FormatEquivalence(t *testing.T) {
	raw := model.SourceDocument{Encoding: model.RawText, Content: []byte(`
modifications {
  88mm_apcbc { }
  88mm_he { }
}
weapon_presets {
  preset { name:t = "AP belt" }
  preset { name:t = "HE belt" }
}`)}
	js := model.SourceDocument{Encoding: model.StructuredJSON, Content: []byte(`{
  "modifications": {"88mm_he": {}, "88mm_apcbc": {}},
  "weapon_presets": {"preset": [{"name": "AP belt"}, {"name": "HE belt"}]}
}`)}

	var keys, names [2][]string
	for i, src := range []model.SourceDocument{raw, js} {
		doc, err := Open(src)
		if err != nil {
			t.Fatalf("open %s: %v", src.Encoding, err)
		}
		mods, _ := doc.FindBlock(ModificationsKey)
		keys[i] = doc.ChildKeys(mods)
		presets, _ := doc.FindBlock(WeaponPresetsKey)
		names[i] = doc.PresetNames(presets)
	}
	if !reflect.DeepEqual(names[0], names[1]) {
		t.Errorf("preset mismatch: %v vs %v", names[0], names[1])
	}
	if len(keys[0]) != 2 || len(keys[1]) != 2 {
		t.Errorf("key mismatch: %v vs %v", keys[0], keys[1])
	}
}
