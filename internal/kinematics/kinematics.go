// Package kinematics converts the airborne interval of a vertical jump, measured in
// video frames, into jump height, average force and average power using the
// flight-time method.
package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// Gravity is the gravitational acceleration used by every formula, in m/s².
const Gravity = 9.81

var (
	ErrInvalidFrameRate = errors.New("frame rate must be a finite positive number")
	ErrNegativeIndex    = errors.New("frame index must not be negative")
	ErrFrameOrder       = errors.New("landing frame must come after take-off frame")
	ErrInvalidMass      = errors.New("body mass must be a finite positive number")
	ErrNonFinite        = errors.New("value is too extreme to compute a finite result")
)

// ValidationError names the input that was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code is a stable machine-readable name for the rejected input.
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Err, ErrFrameOrder):
		return "invalid_frame_order"
	case errors.Is(e.Err, ErrNegativeIndex):
		return "invalid_frame_index"
	case errors.Is(e.Err, ErrInvalidFrameRate):
		return "invalid_frame_rate"
	case errors.Is(e.Err, ErrInvalidMass):
		return "invalid_mass"
	case errors.Is(e.Err, ErrNonFinite):
		return "value_out_of_range"
	default:
		return "invalid_input"
	}
}

type Input struct {
	FrameRate    float64
	TakeoffIndex int
	LandingIndex int
	MassKg       float64
}

type Result struct {
	FlightTime   float64 `json:"flight_time_s"`
	JumpHeightM  float64 `json:"jump_height_m"`
	JumpHeightCM float64 `json:"jump_height_cm"`
	AvgForceN    float64 `json:"avg_force_n"`
	AvgPowerW    float64 `json:"avg_power_w"`
}

// FlightTime returns (landing-takeoff)/fps in seconds. The landing frame must be
// strictly after the take-off frame.
func FlightTime(fps float64, takeoff, landing int) (float64, error) {
	if !positiveFinite(fps) {
		return 0, &ValidationError{Field: "frame_rate", Err: ErrInvalidFrameRate}
	}
	if takeoff < 0 {
		return 0, &ValidationError{Field: "takeoff_index", Err: ErrNegativeIndex}
	}
	if landing < 0 {
		return 0, &ValidationError{Field: "landing_index", Err: ErrNegativeIndex}
	}
	if landing <= takeoff {
		return 0, &ValidationError{Field: "landing_index", Err: ErrFrameOrder}
	}
	return float64(landing-takeoff) / fps, nil
}

// Compute treats the airborne phase as symmetric free fall (rise time equals fall
// time) so h = g·t²/8. Average propulsive force adds 2h/t² to gravity compensation and
// average power is F·h/t.
func Compute(in Input) (Result, error) {
	t, err := FlightTime(in.FrameRate, in.TakeoffIndex, in.LandingIndex)
	if err != nil {
		return Result{}, err
	}
	if !positiveFinite(in.MassKg) {
		return Result{}, &ValidationError{Field: "mass_kg", Err: ErrInvalidMass}
	}

	heightM := (Gravity * t * t) / 8
	force := in.MassKg * (Gravity + (2 * heightM / (t * t)))
	power := (force * heightM) / t

	res := Result{
		FlightTime:   t,
		JumpHeightM:  heightM,
		JumpHeightCM: heightM * 100,
		AvgForceN:    force,
		AvgPowerW:    power,
	}
	// A flight time whose square under- or overflows comes from the frame rate;
	// anything that breaks after that comes from the mass.
	if !positiveFinite(res.JumpHeightM) || !positiveFinite(res.JumpHeightCM) {
		return Result{}, &ValidationError{Field: "frame_rate", Err: ErrNonFinite}
	}
	if !positiveFinite(res.AvgForceN) || !positiveFinite(res.AvgPowerW) {
		return Result{}, &ValidationError{Field: "mass_kg", Err: ErrNonFinite}
	}
	return res, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
