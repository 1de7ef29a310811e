package dto

import "github.com/noah-isme/ictak-go-api/internal/models"

// SeedCatalogRequest carries catalog entries and their reading lists.
type SeedCatalogRequest struct {
	Projects   []models.Project          `json:"projects"`
	References []models.ProjectReference `json:"references"`
}

// SeedCatalogResponse reports how many rows each upsert touched.
type SeedCatalogResponse struct {
	Projects   int64 `json:"projects"`
	References int64 `json:"references"`
}
