// Package fixtures holds the bundled demo data used when no snapshot has
// been persisted yet.
package fixtures

import (
	_ "embed"
	"fmt"

	"cafechain/internal/core/domain"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Data is the set of read-mostly collections seeded on first boot
type Data struct {
	PartnerCafes  []domain.PartnerCafe      `yaml:"partnerCafes"`
	Announcements []domain.Announcement     `yaml:"announcements"`
	Leaderboard   []domain.LeaderboardEntry `yaml:"leaderboard"`
	Events        []domain.Event            `yaml:"events"`
	Transactions  []domain.Transaction      `yaml:"transactions"`
	Metrics       domain.Metrics            `yaml:"metrics"`
	Performance   domain.Performance        `yaml:"performance"`
}

// Parse decodes fixture YAML
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return d, nil
}

// Demo returns the embedded demo fixtures
func Demo() (Data, error) {
	return Parse(demoYAML)
}

// Empty returns fixtures with empty, non-nil collections
func Empty() Data {
	return Data{
		PartnerCafes:  []domain.PartnerCafe{},
		Announcements: []domain.Announcement{},
		Leaderboard:   []domain.LeaderboardEntry{},
		Events:        []domain.Event{},
		Transactions:  []domain.Transaction{},
	}
}
