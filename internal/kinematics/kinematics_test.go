package kinematics

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCompute_KnownScenarios(t *testing.T) {
	tests := []struct {
		name       string
		input      Input
		flightTime float64
		heightM    float64
		heightCM   float64
		forceN     float64
		powerW     float64
	}{
		{
			name:       "240 fps short hop",
			input:      Input{FrameRate: 240, TakeoffIndex: 0, LandingIndex: 24, MassKg: 80},
			flightTime: 0.1,
			heightM:    0.0122625,
			heightCM:   1.22625,
			forceN:     80 * Gravity * 1.25,
			powerW:     80 * Gravity * 1.25 * 0.0122625 / 0.1,
		},
		{
			name:       "30 fps half second flight",
			input:      Input{FrameRate: 30, TakeoffIndex: 10, LandingIndex: 25, MassKg: 100},
			flightTime: 0.5,
			heightM:    0.3065625,
			heightCM:   30.65625,
			forceN:     1226.25,
			powerW:     751.84453125,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(res.FlightTime, tt.flightTime, tolerance) {
				t.Errorf("expected flight time %v, got %v", tt.flightTime, res.FlightTime)
			}
			if !almostEqual(res.JumpHeightM, tt.heightM, tolerance) {
				t.Errorf("expected height %v m, got %v", tt.heightM, res.JumpHeightM)
			}
			if !almostEqual(res.JumpHeightCM, tt.heightCM, 1e-7) {
				t.Errorf("expected height %v cm, got %v", tt.heightCM, res.JumpHeightCM)
			}
			if !almostEqual(res.AvgForceN, tt.forceN, 1e-6) {
				t.Errorf("expected force %v N, got %v", tt.forceN, res.AvgForceN)
			}
			if !almostEqual(res.AvgPowerW, tt.powerW, 1e-6) {
				t.Errorf("expected power %v W, got %v", tt.powerW, res.AvgPowerW)
			}
		})
	}
}

func TestFlightTime_MatchesFrameDelta(t *testing.T) {
	for _, fps := range []float64{24, 29.97, 30, 59.94, 60, 120, 240} {
		for takeoff := 0; takeoff < 40; takeoff += 7 {
			for delta := 1; delta < 200; delta += 13 {
				got, err := FlightTime(fps, takeoff, takeoff+delta)
				if err != nil {
					t.Fatalf("fps=%v takeoff=%d delta=%d: unexpected error: %v", fps, takeoff, delta, err)
				}
				want := float64(delta) / fps
				if !almostEqual(got, want, tolerance) {
					t.Errorf("fps=%v delta=%d: expected %v, got %v", fps, delta, want, got)
				}
			}
		}
	}
}

func TestCompute_HeightIncreasesWithFlightTime(t *testing.T) {
	prev := -1.0
	for landing := 1; landing <= 120; landing++ {
		res, err := Compute(Input{FrameRate: 60, TakeoffIndex: 0, LandingIndex: landing, MassKg: 75})
		if err != nil {
			t.Fatalf("landing=%d: unexpected error: %v", landing, err)
		}
		if res.JumpHeightCM <= prev {
			t.Fatalf("landing=%d: height %v not greater than previous %v", landing, res.JumpHeightCM, prev)
		}
		prev = res.JumpHeightCM
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := Input{FrameRate: 29.97, TakeoffIndex: 113, LandingIndex: 127, MassKg: 82}
	first, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compute(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("expected identical results, got %+v and %+v", first, again)
		}
	}
}

func TestCompute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
		field   string
	}{
		{
			name:    "equal indices",
			input:   Input{FrameRate: 30, TakeoffIndex: 12, LandingIndex: 12, MassKg: 80},
			wantErr: ErrFrameOrder,
			field:   "landing_index",
		},
		{
			name:    "landing before takeoff",
			input:   Input{FrameRate: 30, TakeoffIndex: 20, LandingIndex: 5, MassKg: 80},
			wantErr: ErrFrameOrder,
			field:   "landing_index",
		},
		{
			name:    "zero frame rate",
			input:   Input{FrameRate: 0, TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrInvalidFrameRate,
			field:   "frame_rate",
		},
		{
			name:    "negative frame rate",
			input:   Input{FrameRate: -30, TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrInvalidFrameRate,
			field:   "frame_rate",
		},
		{
			name:    "nan frame rate",
			input:   Input{FrameRate: math.NaN(), TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrInvalidFrameRate,
			field:   "frame_rate",
		},
		{
			name:    "infinite frame rate",
			input:   Input{FrameRate: math.Inf(1), TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrInvalidFrameRate,
			field:   "frame_rate",
		},
		{
			name:    "negative takeoff",
			input:   Input{FrameRate: 30, TakeoffIndex: -1, LandingIndex: 10, MassKg: 80},
			wantErr: ErrNegativeIndex,
			field:   "takeoff_index",
		},
		{
			name:    "zero mass",
			input:   Input{FrameRate: 30, TakeoffIndex: 0, LandingIndex: 10, MassKg: 0},
			wantErr: ErrInvalidMass,
			field:   "mass_kg",
		},
		{
			name:    "tiny frame rate overflows height",
			input:   Input{FrameRate: 1e-300, TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrNonFinite,
			field:   "frame_rate",
		},
		{
			name:    "huge frame rate underflows height",
			input:   Input{FrameRate: 1e308, TakeoffIndex: 0, LandingIndex: 10, MassKg: 80},
			wantErr: ErrNonFinite,
			field:   "frame_rate",
		},
		{
			name:    "huge mass overflows force",
			input:   Input{FrameRate: 30, TakeoffIndex: 0, LandingIndex: 10, MassKg: 1e308},
			wantErr: ErrNonFinite,
			field:   "mass_kg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.input)
			if err == nil {
				t.Fatalf("expected error, got result %+v", res)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
			if res != (Result{}) {
				t.Errorf("expected zero result on error, got %+v", res)
			}
		})
	}
}

func TestValidationError_Code(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: ErrFrameOrder, want: "invalid_frame_order"},
		{err: ErrNegativeIndex, want: "invalid_frame_index"},
		{err: ErrInvalidFrameRate, want: "invalid_frame_rate"},
		{err: ErrInvalidMass, want: "invalid_mass"},
		{err: ErrNonFinite, want: "value_out_of_range"},
		{err: errors.New("other"), want: "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			verr := &ValidationError{Field: "x", Err: tt.err}
			if got := verr.Code(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
