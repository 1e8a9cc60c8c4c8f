package nutrition

import (
	"fmt"
	"math"
)

const (
	cmPerFoot  = 30.48
	cmPerInch  = 2.54
	kgPerPound = 0.453592
)

// FeetInchesToCM converts an imperial height to whole centimeters.
func FeetInchesToCM(feet, inches float64) float64 {
	return math.Round(feet*cmPerFoot + inches*cmPerInch)
}

// PoundsToKG converts pounds to whole kilograms.
func PoundsToKG(lbs float64) float64 {
	return math.Round(lbs * kgPerPound)
}

// KGToPounds converts kilograms to pounds. The result is not rounded so that
// a round trip through PoundsToKG lands back on the original value.
func KGToPounds(kg float64) float64 {
	return kg / kgPerPound
}

// NormalizeWeight resolves a weight sent as kilograms or as pounds into
// kilograms. Neither returns nil; both is an error. Errors name the field
// the caller actually sent, so a pound value that rounds to 0 kg is reported
// as weight_lbs.
func NormalizeWeight(kg, lbs *float64) (*float64, error) {
	switch {
	case kg != nil && lbs != nil:
		return nil, invalidInput("weight", "both weight_kg and weight_lbs")
	case kg != nil:
		if !withinLimit(*kg, MaxWeightKG) {
			return nil, invalidInput("weight_kg", *kg)
		}
		w := *kg
		return &w, nil
	case lbs != nil:
		if !positiveFinite(*lbs) {
			return nil, invalidInput("weight_lbs", *lbs)
		}
		w := PoundsToKG(*lbs)
		if !withinLimit(w, MaxWeightKG) {
			return nil, invalidInput("weight_lbs", *lbs)
		}
		return &w, nil
	}
	return nil, nil
}

// NormalizeHeight resolves a height sent as centimeters or as feet and/or
// inches into centimeters. Neither returns nil; mixing the two forms is an
// error.
func NormalizeHeight(cm, ft, in *float64) (*float64, error) {
	imperial := ft != nil || in != nil
	switch {
	case cm != nil && imperial:
		return nil, invalidInput("height", "both height_cm and height_ft/height_in")
	case cm != nil:
		if !withinLimit(*cm, MaxHeightCM) {
			return nil, invalidInput("height_cm", *cm)
		}
		h := *cm
		return &h, nil
	case imperial:
		var feet, inches float64
		if ft != nil {
			feet = *ft
			if feet < 0 || math.IsNaN(feet) || math.IsInf(feet, 0) {
				return nil, invalidInput("height_ft", feet)
			}
		}
		if in != nil {
			inches = *in
			if inches < 0 || math.IsNaN(inches) || math.IsInf(inches, 0) {
				return nil, invalidInput("height_in", inches)
			}
		}
		h := FeetInchesToCM(feet, inches)
		if !withinLimit(h, MaxHeightCM) {
			field := "height_ft"
			if ft == nil {
				field = "height_in"
			}
			return nil, invalidInput(field, fmt.Sprintf("%gft %gin", feet, inches))
		}
		return &h, nil
	}
	return nil, nil
}
