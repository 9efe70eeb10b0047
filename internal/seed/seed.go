// Package seed holds the dataset a fresh directory starts from
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultUser is the signed-in identity stored with a fresh state
var DefaultUser = models.User{ID: "admin-1", Mobile: "admin", Role: models.RoleAdmin, Name: "Samaj Member"}

// Load returns the embedded starting state
func Load() (models.AppState, error) {
	return Parse(seedYAML)
}

// Parse reads a seed document. Keys use the same camelCase names as the
// saved JSON blob, so the document is decoded generically and re-read
// through the JSON tags.
func Parse(data []byte) (models.AppState, error) {
	var doc struct {
		Settings map[string]any   `yaml:"settings"`
		Members  []map[string]any `yaml:"members"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.AppState{}, fmt.Errorf("failed to parse seed: %w", err)
	}

	blob, err := json.Marshal(map[string]any{
		"settings": doc.Settings,
		"members":  doc.Members,
	})
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to convert seed: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal(blob, &state); err != nil {
		return models.AppState{}, fmt.Errorf("failed to convert seed: %w", err)
	}
	if state.Members == nil {
		state.Members = []models.FamilyMember{}
	}
	user := DefaultUser
	state.CurrentUser = &user
	return state, nil
}
