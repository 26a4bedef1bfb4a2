package main

import (
	"os"
	"path/filepath"
	"testing"
)

const schemeFixture = `{"schemes":[
	{"scheme_name":"PM Mudra Yojana","brief":"Collateral-free loans for micro enterprises.","official_website":"https://example.org/mudra"},
	{"scheme_name":"Sukanya Samriddhi","brief":"Savings scheme for the girl child.","official_website":"https://example.org/ssy"},
	{"scheme_name":"Startup India Seed Fund","brief":"Seed funding for early-stage startups.","official_website":"https://example.org/sisf"}
]}`

func writeSchemeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemes.json")
	if err := os.WriteFile(path, []byte(schemeFixture), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSchemeCatalogSearch(t *testing.T) {
	c, err := LoadSchemeCatalog(writeSchemeFixture(t))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := len(c.Search("")); got != 3 {
		t.Fatalf("empty query returned %d schemes, want all 3", got)
	}
	// match on name
	if got := c.Search("mudra"); len(got) != 1 || got[0].SchemeName != "PM Mudra Yojana" {
		t.Fatalf("name search = %+v", got)
	}
	// match on brief only
	if got := c.Search("girl child"); len(got) != 1 || got[0].SchemeName != "Sukanya Samriddhi" {
		t.Fatalf("brief search = %+v", got)
	}
	// loan appears in one brief
	if got := c.Search("LOAN"); len(got) != 1 {
		t.Fatalf("case-insensitive search = %+v", got)
	}
	if got := c.Search("crypto airdrop"); len(got) != 0 {
		t.Fatalf("no-match search = %+v", got)
	}
}

func TestSchemeCatalogReload(t *testing.T) {
	path := writeSchemeFixture(t)
	c, err := LoadSchemeCatalog(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	updated := `{"schemes":[{"scheme_name":"Only One","brief":"b","official_website":"w"}]}`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := c.reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("after reload Len = %d, want 1", c.Len())
	}
}

func TestSchemeCatalogBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSchemeCatalog(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadSchemeCatalog(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestEmptySchemeCatalog(t *testing.T) {
	c := EmptySchemeCatalog()
	if got := c.Search("anything"); len(got) != 0 {
		t.Fatalf("empty catalog returned %d schemes", len(got))
	}
}
