// Package api contains the JSON contract of the simulation HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"ensaio/pkg/contracts/domain"
)

// SimulationRequest carries the decimal texts of one submission.
// Either Values (keyed by field label) or Fields (in schema order) is used.
type SimulationRequest struct {
	Values map[string]string `json:"values,omitempty" validate:"required_without=Fields"`
	Fields []string          `json:"fields,omitempty" validate:"required_without=Values,omitempty,max=16"`
}

// SimulationResponse is the success body of POST /api/simulations/{mode}
type SimulationResponse struct {
	Status string        `json:"status"`
	Mode   domain.Mode   `json:"mode"`
	Table  *domain.Table `json:"table"`
	Count  int           `json:"count"`
}

// SchemaField describes one input of a mode
type SchemaField struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Default  string `json:"default"`
}

// SchemaResponse is the body of GET /api/schemas/{mode}
type SchemaResponse struct {
	Mode        domain.Mode   `json:"mode"`
	DisplayName string        `json:"display_name"`
	Sheet       string        `json:"sheet"`
	Range       string        `json:"range"`
	Fields      []SchemaField `json:"fields"`
	Outputs     []string      `json:"outputs"`
}
