// Package itinerary holds the closed set of activities for the trip day and
// the only mutation it supports: toggling an activity's completion flag.
package itinerary

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/daytrip/internal/domain"
)

// defaultPlan is the Ålesund cruise day, embedded at compile time so the
// binary always has an itinerary even without ITINERARY_PATH.
//
//go:embed alesund.yaml
var defaultPlan []byte

// planFile is the on-disk shape of an itinerary definition.
type planFile struct {
	Activities []domain.Activity `yaml:"activities" validate:"required,min=1,dive"`
}

// DefaultPlan returns the embedded trip plan.
func DefaultPlan() ([]domain.Activity, error) {
	acts, err := decodePlan(defaultPlan)
	if err != nil {
		return nil, fmt.Errorf("itinerary.DefaultPlan: %w", err)
	}
	return acts, nil
}

// LoadPlanFile reads and validates an itinerary definition from path.
func LoadPlanFile(path string) ([]domain.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("itinerary.LoadPlanFile: %w", err)
	}
	defer f.Close()

	acts, err := LoadPlan(f)
	if err != nil {
		return nil, fmt.Errorf("itinerary.LoadPlanFile: %s: %w", path, err)
	}
	return acts, nil
}

// LoadPlan reads and validates an itinerary definition from r.
func LoadPlan(r io.Reader) ([]domain.Activity, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodePlan(b)
}

func decodePlan(b []byte) ([]domain.Activity, error) {
	var pf planFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validator.New().Struct(pf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	for _, a := range pf.Activities {
		if a.EndTime < a.StartTime {
			return nil, fmt.Errorf("%w: activity %s ends (%s) before it starts (%s)",
				domain.ErrValidation, a.ID, a.EndTime, a.StartTime)
		}
	}
	return pf.Activities, nil
}
