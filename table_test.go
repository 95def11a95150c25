package grf

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/icza/grf/internal/grfenc"
)

// buildTable is a test helper that runs a fixture image through both header
// and table parsing in one call, for tests that only care about the
// resulting index structures.
func buildTable(t *testing.T, entries []fixtureEntry) *table {
	t.Helper()
	img := buildArchive(version200, entries)
	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	tb, _, err := parseTable(context.Background(), NewMemorySource(img), h, DefaultOptions(), grfenc.UTF8, nil)
	if err != nil {
		t.Fatalf("parseTable: %v", err)
	}
	return tb
}

func TestParseTableIndexesExtensionsAndNames(t *testing.T) {
	img := buildArchive(version200, []fixtureEntry{
		{Name: "data/a.bmp", Type: typeFile, Plain: []byte("1")},
		{Name: "data/b.BMP", Type: typeFile, Plain: []byte("2")},
		{Name: "readme", Type: typeFile, Plain: []byte("3")},
	})

	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	tb, enc, err := parseTable(context.Background(), NewMemorySource(img), h, DefaultOptions(), grfenc.UTF8, nil)
	if err != nil {
		t.Fatalf("parseTable: %v", err)
	}
	if enc != grfenc.UTF8 {
		t.Fatalf("resolved encoding = %v, want UTF8", enc)
	}
	if len(tb.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(tb.entries))
	}
	if got := tb.byExtension["bmp"]; len(got) != 2 {
		t.Fatalf("byExtension[bmp] = %d entries, want 2", len(got))
	}
	if _, ok := tb.byExactName["readme"]; !ok {
		t.Fatal("byExactName missing \"readme\"")
	}
}

func TestParseTableRepairsMojibakeNames(t *testing.T) {
	// CP949 bytes for "아이템" ("item"), misread one byte at a time as
	// Windows-1252/Latin-1 code points -- the classic garble parseTable's
	// mojibake repair pass must catch when the archive was auto-detected
	// (or pinned) as UTF-8 but an individual name is actually CP949.
	cp949 := []byte{0xbe, 0xc6, 0xc0, 0xcc, 0xc5, 0xdb}
	var garbled []rune
	for _, b := range cp949 {
		garbled = append(garbled, rune(b))
	}
	rawName := []byte(string(garbled) + ".bmp")

	img := buildArchive(version200, []fixtureEntry{
		{Name: string(rawName), Type: typeFile, Plain: []byte("x")},
	})

	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	tb, _, err := parseTable(context.Background(), NewMemorySource(img), h, DefaultOptions(), grfenc.UTF8, nil)
	if err != nil {
		t.Fatalf("parseTable: %v", err)
	}
	if len(tb.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(tb.entries))
	}
	want := "아이템.bmp"
	if got := tb.entries[0].name; got != want {
		t.Fatalf("parseTable name = %q, want repaired %q", got, want)
	}
}

// TestIndexConsistencyAcrossNameExtensionBuckets exercises the "index
// consistency" property from spec.md §8 item 5: every exact name must
// appear in exactly one by_normalized_name bucket and zero-or-one
// by_extension bucket. go-cmp's diff output makes the failure readable if
// the two index views ever drift (e.g. a future change that indexes an
// extension entry twice).
func TestIndexConsistencyAcrossNameExtensionBuckets(t *testing.T) {
	tb := buildTable(t, []fixtureEntry{
		{Name: "data/a.bmp", Type: typeFile, Plain: []byte("1")},
		{Name: "data/b.bmp", Type: typeFile, Plain: []byte("2")},
		{Name: "readme", Type: typeFile, Plain: []byte("3")},
	})

	var fromExact []string
	for name := range tb.byExactName {
		fromExact = append(fromExact, name)
	}
	sort.Strings(fromExact)

	var fromNormalized []string
	for _, candidates := range tb.byNormalizedName {
		for _, e := range candidates {
			fromNormalized = append(fromNormalized, e.name)
		}
	}
	sort.Strings(fromNormalized)

	if diff := cmp.Diff(fromExact, fromNormalized); diff != "" {
		t.Fatalf("by_exact_name and by_normalized_name disagree (-exact +normalized):\n%s", diff)
	}

	want := []string{"data/a.bmp", "data/b.bmp"}
	var gotBmp []string
	for _, e := range tb.byExtension["bmp"] {
		gotBmp = append(gotBmp, e.name)
	}
	sort.Strings(gotBmp)
	if diff := cmp.Diff(want, gotBmp); diff != "" {
		t.Fatalf("by_extension[bmp] mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		`Data\Item.txt`:  "data/item.txt",
		"ALREADY/LOWER":  "already/lower",
		"Mixed\\Case/Ok": "mixed/case/ok",
	}
	for in, want := range cases {
		if got := normalizeName(in); got != want {
			t.Errorf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtensionOf(t *testing.T) {
	cases := map[string]string{
		"data/foo.bmp": "bmp",
		"data/foo":     "",
		"data/.hidden": "hidden",
		"trailing.":    "",
	}
	for in, want := range cases {
		if got := extensionOf(in); got != want {
			t.Errorf("extensionOf(%q) = %q, want %q", in, got, want)
		}
	}
}
