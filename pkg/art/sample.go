package art

import (
	"fmt"
	"math"
)

// Sample is one month of weather: average temperature in °C and average
// rainfall in mm. NaN marks a value the data layer could not provide.
type Sample struct {
	Temperature float64 `json:"temperature"`
	Rainfall    float64 `json:"rainfall"`
}

// Validate rejects missing (NaN) or infinite values. Negative temperatures
// and very large rainfall are valid.
func (s Sample) Validate() error {
	if math.IsNaN(s.Temperature) {
		return &InputError{Field: "temperature", Reason: "missing"}
	}
	if math.IsNaN(s.Rainfall) {
		return &InputError{Field: "rainfall", Reason: "missing"}
	}
	if math.IsInf(s.Temperature, 0) {
		return &InputError{Field: "temperature", Reason: "not finite"}
	}
	if math.IsInf(s.Rainfall, 0) {
		return &InputError{Field: "rainfall", Reason: "not finite"}
	}
	return nil
}

// Caption is the label text drawn in the corner of every artwork.
func (s Sample) Caption() string {
	return fmt.Sprintf("Temp: %.1f°C, Rain: %.1fmm", s.Temperature, s.Rainfall)
}
