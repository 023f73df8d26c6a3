package nebula

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/reago/providers/tool"
)

func TestScan(t *testing.T) {
	tests := []struct {
		x, y   int
		hazard string
		safe   bool
	}{
		{0, 0, "Clear - Starting position", true},
		{0, 1, "High Radiation - DANGER", false},
		{1, 1, "Asteroid Field - DANGER", false},
		{2, 1, "Ion Storm - DANGER", false},
		{2, 2, "Clear - Exit point", true},
		{3, 0, "Unknown sector - Out of bounds", false},
		{-1, 2, "Unknown sector - Out of bounds", false},
	}
	for _, tt := range tests {
		out, err := Scan(context.Background(), ScanInput{X: tt.x, Y: tt.y})
		if err != nil {
			t.Fatalf("Scan(%d,%d) error: %v", tt.x, tt.y, err)
		}
		if out.HazardDescription != tt.hazard || out.Safe != tt.safe || out.Status != "success" {
			t.Errorf("Scan(%d,%d) = %+v", tt.x, tt.y, out)
		}
	}

	out, _ := Scan(context.Background(), ScanInput{X: 1, Y: 0})
	if out.Coordinates != "(1, 0)" {
		t.Errorf("Coordinates = %q", out.Coordinates)
	}
}

func TestEscapeVelocity_Earth(t *testing.T) {
	out, err := EscapeVelocity(context.Background(), VelocityInput{Mass: 5.972e24, Radius: 6.371e6})
	if err != nil {
		t.Fatal(err)
	}
	if out.EscapeVelocityKMS != 11.19 {
		t.Errorf("km/s = %v, want 11.19", out.EscapeVelocityKMS)
	}
	if out.EscapeVelocityMS < 11185 || out.EscapeVelocityMS > 11187 {
		t.Errorf("m/s = %v", out.EscapeVelocityMS)
	}
}

func TestEscapeVelocity_Errors(t *testing.T) {
	if _, err := EscapeVelocity(context.Background(), VelocityInput{Mass: 1, Radius: 0}); !errors.Is(err, ErrNonPositiveRadius) {
		t.Errorf("expected ErrNonPositiveRadius, got %v", err)
	}
	if _, err := EscapeVelocity(context.Background(), VelocityInput{Mass: -1, Radius: 1}); err == nil {
		t.Error("expected error for negative mass")
	}
}

func TestTools_ThroughRegistry(t *testing.T) {
	r, err := tool.NewRegistryWithTools(Tools()...)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Names(); len(got) != 2 || got[0] != VelocityName || got[1] != ScanName {
		t.Errorf("Names() = %v", got)
	}

	res, err := r.Invoke(context.Background(), ScanName, tool.Arguments{"x": 2.0, "y": 1.0})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, `"safe":false`) {
		t.Errorf("Text = %s", res.Text)
	}

	_, err = r.Invoke(context.Background(), ScanName, tool.Arguments{"x": 1.5, "y": 1.0})
	if !errors.Is(err, tool.ErrInvalidArguments) {
		t.Errorf("fractional coordinate should be invalid, got %v", err)
	}

	_, err = r.Invoke(context.Background(), ScanName, tool.Arguments{"x": 1.0})
	var invalid *tool.InvalidArgumentsError
	if !errors.As(err, &invalid) || len(invalid.Missing) != 1 || invalid.Missing[0] != "y" {
		t.Errorf("expected missing y, got %v", err)
	}
}

func TestScenario(t *testing.T) {
	s, err := Scenario()
	if err != nil {
		t.Fatalf("Scenario() error: %v", err)
	}
	if s.Goal != Goal {
		t.Errorf("Goal = %q", s.Goal)
	}
	if len(s.Thoughts) != 7 {
		t.Fatalf("len(Thoughts) = %d, want 7", len(s.Thoughts))
	}
	if strings.Count(strings.Join(s.Thoughts, "\n"), "Action: "+ScanName) != 6 {
		t.Error("expected six scan actions")
	}
	if !strings.Contains(s.Thoughts[6], "Final Answer: "+RouteAnswerPrefix) {
		t.Errorf("last thought = %q", s.Thoughts[6])
	}
	if s.Fallback == nil || s.Config.MaxCycles != 10 {
		t.Errorf("fallback/config not loaded: %+v", s)
	}
}
