package common

import (
	"fmt"
	"os"
	"path/filepath"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type FarmConfig struct {
	Id          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Cover       string `yaml:"cover"`
	Description string `yaml:"description"`
}

type ProductConfig struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

type CatalogConfig struct {
	Farms    []FarmConfig    `yaml:"farms"`
	Products []ProductConfig `yaml:"products"`
}

func LoadCatalogConfig(catalogFile string) (*CatalogConfig, error) {
	var catalogPath string
	if filepath.IsAbs(catalogFile) {
		catalogPath = catalogFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		catalogPath = filepath.Join(wd, catalogFile)
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", catalogFile, err)
	}

	var config CatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", catalogFile, err)
	}

	for i, farm := range config.Farms {
		if farm.Id <= 0 {
			return nil, fmt.Errorf("farm at index %d missing id", i)
		}
		if farm.Name == "" {
			return nil, fmt.Errorf("farm at index %d missing name", i)
		}
	}
	for i, product := range config.Products {
		if product.Name == "" {
			return nil, fmt.Errorf("product at index %d missing name", i)
		}
		if product.Image == "" {
			return nil, fmt.Errorf("product at index %d missing image", i)
		}
	}

	return &config, nil
}

// BuildEntries expands the farm and product lists into the full catalog:
// one entry per farm and product pair, with sequential ids and a per-farm
// batch caption. Every entry lists at the standard one SOL price.
func BuildEntries(config *CatalogConfig) []models.CatalogEntry {
	listPrice := decimal.NewFromInt(1)

	entries := make([]models.CatalogEntry, 0, len(config.Farms)*len(config.Products))
	nextId := int64(1)
	for _, farm := range config.Farms {
		for i, product := range config.Products {
			entries = append(entries, models.CatalogEntry{
				Id:       nextId,
				Name:     fmt.Sprintf("%s — %s", product.Name, farm.Name),
				PriceSOL: listPrice,
				Image:    product.Image,
				Caption:  fmt.Sprintf("Batch #%d", i+1),
				FarmId:   farm.Id,
				Owned:    false,
			})
			nextId++
		}
	}
	return entries
}
