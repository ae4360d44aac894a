package handlers

import (
	"context"

	"github.com/gdg-garage/visitor-intake-api/internal/intake"
)

type FloorsOutput struct {
	Body []intake.FloorRooms
}

func HandleFloors(ctx context.Context, _ *struct{}) (*FloorsOutput, error) {
	return &FloorsOutput{Body: intake.FloorCatalog()}, nil
}

type CountryCodesOutput struct {
	Body struct {
		Default string               `json:"default"`
		Codes   []intake.CountryCode `json:"codes"`
	}
}

func HandleCountryCodes(ctx context.Context, _ *struct{}) (*CountryCodesOutput, error) {
	out := &CountryCodesOutput{}
	out.Body.Default = intake.DefaultCountryCode
	out.Body.Codes = intake.CountryCodes()
	return out, nil
}
