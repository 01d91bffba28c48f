package common

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalogYaml = `farms:
  - id: 1
    name: "LLP 'Asa Agro'"
    cover: /asa-agro-logo.jpeg
    description: High-quality products with full traceability of origin.
  - id: 2
    name: "LLP 'Zhambyl Kus'"
    cover: /Zhambylkus-logo.png
    description: Verified origin and transparent logistics.

products:
  - name: Drumstick
    image: /golen.png
  - name: Egg
    image: /eggs.png
  - name: Wings
    image: /wings.jpeg
`

func writeTestCatalog(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}
	return path
}

func TestLoadCatalogConfig(t *testing.T) {
	path := writeTestCatalog(t, testCatalogYaml)

	config, err := LoadCatalogConfig(path)
	if err != nil {
		t.Fatalf("LoadCatalogConfig failed: %v", err)
	}

	if len(config.Farms) != 2 {
		t.Errorf("Expected 2 farms, got %d", len(config.Farms))
	}
	if len(config.Products) != 3 {
		t.Errorf("Expected 3 products, got %d", len(config.Products))
	}
	if config.Farms[0].Name != "LLP 'Asa Agro'" {
		t.Errorf("Unexpected farm name: %s", config.Farms[0].Name)
	}
}

func TestLoadCatalogConfig_Invalid(t *testing.T) {
	path := writeTestCatalog(t, "farms:\n  - name: 'No Id Farm'\nproducts:\n  - name: Egg\n    image: /eggs.png\n")

	if _, err := LoadCatalogConfig(path); err == nil {
		t.Errorf("Expected error for farm without id")
	}

	if _, err := LoadCatalogConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}

func TestBuildEntries(t *testing.T) {
	path := writeTestCatalog(t, testCatalogYaml)
	config, err := LoadCatalogConfig(path)
	if err != nil {
		t.Fatalf("LoadCatalogConfig failed: %v", err)
	}

	entries := BuildEntries(config)

	if len(entries) != 6 {
		t.Fatalf("Expected 6 entries (2 farms x 3 products), got %d", len(entries))
	}

	// Sequential ids starting at 1
	for i, entry := range entries {
		if entry.Id != int64(i+1) {
			t.Errorf("Expected id %d at position %d, got %d", i+1, i, entry.Id)
		}
		if entry.Owned {
			t.Errorf("Entry %d must start unowned", entry.Id)
		}
		if !entry.PriceSOL.IsPositive() {
			t.Errorf("Entry %d must have a positive price", entry.Id)
		}
	}

	first := entries[0]
	if first.Name != "Drumstick — LLP 'Asa Agro'" {
		t.Errorf("Unexpected first entry name: %s", first.Name)
	}
	if first.Caption != "Batch #1" {
		t.Errorf("Expected caption Batch #1, got %s", first.Caption)
	}
	if first.FarmId != 1 {
		t.Errorf("Expected farm id 1, got %d", first.FarmId)
	}

	// Captions restart per farm
	fourth := entries[3]
	if fourth.FarmId != 2 || fourth.Caption != "Batch #1" {
		t.Errorf("Expected farm 2 captions to restart at Batch #1, got farm %d caption %s", fourth.FarmId, fourth.Caption)
	}
}
