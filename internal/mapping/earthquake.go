package mapping

import (
	_ "embed"
	"fmt"
)

// HazusEarthquakeName is the registry name of the built-in PGA-based Hazus
// earthquake mapping.
const HazusEarthquakeName = "hazus-earthquake"

//go:embed earthquake_schema.json
var hazusEarthquakeSchema []byte

// HazusEarthquakeSchema returns the module's bundled input schema.
func HazusEarthquakeSchema() []byte {
	out := make([]byte, len(hazusEarthquakeSchema))
	copy(out, hazusEarthquakeSchema)
	return out
}

var designLevelCodes = map[string]string{
	"Pre-Code":      "PC",
	"Low-Code":      "LC",
	"Moderate-Code": "MC",
	"High-Code":     "HC",
}

var heightClassCodes = map[string]string{
	"Low-Rise":  "L",
	"Mid-Rise":  "M",
	"High-Rise": "H",
}

var foundationTypeCodes = map[string]string{
	"Shallow": "S",
	"Deep":    "D",
}

// HazusEarthquake builds a performance model for PGA-based Hazus earthquake
// analysis from an asset's general information.
//
// The lateral-force component is identified as LF.<building>.<height>.<design>
// (LF.<building>.<design> when no height class is given). When the asset is
// exposed to ground failure, horizontal and vertical ground-failure
// components GF.H.<foundation> and GF.V.<foundation> are added.
//
// Fields beyond the bundled schema's required set are read on demand, so an
// asset that passes schema validation can still fail here (e.g. ground
// failure without a foundation type).
func HazusEarthquake(asset Asset) (*Assignment, error) {
	gi := asset.GeneralInformation

	buildingType, err := gi.String("BuildingType")
	if err != nil {
		return nil, err
	}

	designLevelLabel, err := gi.String("DesignLevel")
	if err != nil {
		return nil, err
	}
	designLevel, ok := designLevelCodes[designLevelLabel]
	if !ok {
		return nil, fmt.Errorf("unknown design level %q", designLevelLabel)
	}

	var modelID string
	if gi.Has("HeightClass") {
		heightLabel, err := gi.String("HeightClass")
		if err != nil {
			return nil, err
		}
		heightClass, ok := heightClassCodes[heightLabel]
		if !ok {
			return nil, fmt.Errorf("unknown height class %q", heightLabel)
		}
		modelID = fmt.Sprintf("LF.%s.%s.%s", buildingType, heightClass, designLevel)
	} else {
		modelID = fmt.Sprintf("LF.%s.%s", buildingType, designLevel)
	}

	comp := NewComponentTable()
	comp.Add(modelID, Component{Units: "ea", Location: 1, Direction: 1, Theta0: 1, Family: "N/A"})

	groundFailure, err := gi.Bool("GroundFailure")
	if err != nil {
		return nil, err
	}
	if groundFailure {
		foundationLabel, err := gi.String("FoundationType")
		if err != nil {
			return nil, err
		}
		foundationType, ok := foundationTypeCodes[foundationLabel]
		if !ok {
			return nil, fmt.Errorf("unknown foundation type %q", foundationLabel)
		}

		comp.Add("GF.H."+foundationType, Component{Units: "ea", Location: 1, Direction: 1, Theta0: 1, Family: "N/A"})
		comp.Add("GF.V."+foundationType, Component{Units: "ea", Location: 1, Direction: 3, Theta0: 1, Family: "N/A"})
	}

	occupancy, err := gi.String("OccupancyClass")
	if err != nil {
		return nil, err
	}

	lossParams := LossParams{
		"Asset": map[string]any{
			"ComponentAssignmentFile": "CMP_QNT.csv",
			"ComponentDatabase":       "Hazus Earthquake - Buildings",
			// building-level resolution: the model carries a single story
			"NumberOfStories": 1,
			"OccupancyType":   occupancy,
			"PlanArea":        "1",
		},
		"Damage":  map[string]any{"DamageProcess": "Hazus Earthquake"},
		"Demands": map[string]any{},
		"Losses": map[string]any{
			"Repair": map[string]any{
				"ConsequenceDatabase": "Hazus Earthquake - Buildings",
				"MapApproach":         "Automatic",
			},
		},
		"Options": map[string]any{
			"NonDirectionalMultipliers": map[string]any{"ALL": 1.0},
		},
	}

	return &Assignment{GeneralInfo: gi, LossParams: lossParams, Components: comp}, nil
}
