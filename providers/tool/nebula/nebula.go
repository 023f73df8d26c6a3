package nebula

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/leofalp/reago/providers/tool"
)

const (
	ScanName     = "scan_sector_hazards"
	VelocityName = "calculate_escape_velocity"

	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.674e-11

	statusSuccess = "success"
	outOfBounds   = "Unknown sector - Out of bounds"
)

// Goal is the task of the nebula navigation scenario.
const Goal = "Plot a safe course from starting position (0,0) to the Exit at (2,2). Scan sectors to avoid hazards."

var ErrNonPositiveRadius = errors.New("radius must be positive")

// Sector is a grid coordinate.
type Sector struct{ X, Y int }

var hazards = map[Sector]string{
	{0, 0}: "Clear - Starting position",
	{0, 1}: "High Radiation - DANGER",
	{0, 2}: "Clear",
	{1, 0}: "Clear",
	{1, 1}: "Asteroid Field - DANGER",
	{1, 2}: "Clear",
	{2, 0}: "Clear",
	{2, 1}: "Ion Storm - DANGER",
	{2, 2}: "Clear - Exit point",
}

type ScanInput struct {
	X int `json:"x" jsonschema:"description=Sector column"`
	Y int `json:"y" jsonschema:"description=Sector row"`
}

type ScanOutput struct {
	Coordinates       string `json:"coordinates"`
	HazardDescription string `json:"hazard_description"`
	Safe              bool   `json:"safe"`
	Status            string `json:"status"`
}

// Scan reports the hazard in sector (x, y). Sectors off the grid are
// reported as unknown and unsafe rather than as an error.
func Scan(_ context.Context, in ScanInput) (ScanOutput, error) {
	hazard, ok := hazards[Sector{in.X, in.Y}]
	if !ok {
		hazard = outOfBounds
	}
	return ScanOutput{
		Coordinates:       fmt.Sprintf("(%d, %d)", in.X, in.Y),
		HazardDescription: hazard,
		Safe:              !strings.Contains(hazard, "DANGER") && !strings.Contains(hazard, "Unknown"),
		Status:            statusSuccess,
	}, nil
}

type VelocityInput struct {
	Mass   float64 `json:"mass"   jsonschema:"description=Body mass in kilograms"`
	Radius float64 `json:"radius" jsonschema:"description=Body radius in meters"`
}

type VelocityOutput struct {
	EscapeVelocityMS  float64 `json:"escape_velocity_m_s"`
	EscapeVelocityKMS float64 `json:"escape_velocity_km_s"`
	Mass              float64 `json:"mass"`
	Radius            float64 `json:"radius"`
	Status            string  `json:"status"`
}

// EscapeVelocity computes sqrt(2GM/r), rounded to two decimals in both m/s
// and km/s.
func EscapeVelocity(_ context.Context, in VelocityInput) (VelocityOutput, error) {
	if in.Radius <= 0 {
		return VelocityOutput{}, ErrNonPositiveRadius
	}
	if in.Mass < 0 {
		return VelocityOutput{}, fmt.Errorf("mass must not be negative, got %g", in.Mass)
	}
	v := math.Sqrt(2 * G * in.Mass / in.Radius)
	return VelocityOutput{
		EscapeVelocityMS:  round2(v),
		EscapeVelocityKMS: round2(v / 1000),
		Mass:              in.Mass,
		Radius:            in.Radius,
		Status:            statusSuccess,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewScanTool returns the hazard scanner.
func NewScanTool() *tool.Tool {
	return tool.MustNewTool(ScanName, Scan,
		tool.WithDescription("Scan a grid sector for navigational hazards."))
}

// NewVelocityTool returns the escape velocity calculator.
func NewVelocityTool() *tool.Tool {
	return tool.MustNewTool(VelocityName, EscapeVelocity,
		tool.WithDescription("Calculate the escape velocity of a celestial body."))
}

// Tools returns both nebula tools in prompt order.
func Tools() []*tool.Tool {
	return []*tool.Tool{NewScanTool(), NewVelocityTool()}
}
