package dto

type ResultResponse struct {
	FlightTime   float64 `json:"flight_time_s" example:"0.5"`
	JumpHeightM  float64 `json:"jump_height_m" example:"0.3065625"`
	JumpHeightCM float64 `json:"jump_height_cm" example:"30.65625"`
	AvgForceN    float64 `json:"avg_force_n" example:"981"`
	AvgPowerW    float64 `json:"avg_power_w" example:"601.475625"`
}

type DisplayResponse struct {
	FlightTime string `json:"flight_time" example:"0.500 s"`
	JumpHeight string `json:"jump_height" example:"30.7 cm"`
	AvgForce   string `json:"avg_force" example:"981.0 N"`
	AvgPower   string `json:"avg_power" example:"601.5 W"`
}

type AnalysisResponse struct {
	SessionID string          `json:"session_id,omitempty" example:"jmp_abc123"`
	Result    ResultResponse  `json:"result"`
	Display   DisplayResponse `json:"display"`
	ReportURL string          `json:"report_url,omitempty" example:"/api/v1/sessions/jmp_abc123/report"`
}

type ComputeRequest struct {
	FrameRate    float64 `json:"frame_rate" example:"30"`
	TakeoffIndex int     `json:"takeoff_index" example:"10"`
	LandingIndex int     `json:"landing_index" example:"25"`
	MassKg       float64 `json:"mass_kg" example:"80"`
}
