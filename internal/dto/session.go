package dto

type VideoResponse struct {
	Name       string  `json:"name" example:"cmj_trial_1.mp4"`
	FrameCount int     `json:"frame_count" example:"240"`
	FrameRate  float64 `json:"frame_rate" example:"120"`
	LastIndex  int     `json:"last_index" example:"239"`
}

type AthleteRequest struct {
	Name     string `json:"name" example:"Alex Martin"`
	HeightCM int    `json:"height_cm" example:"180"`
	WeightKg int    `json:"weight_kg" example:"80"`
}

type AthleteResponse struct {
	Name     string `json:"name" example:"Alex Martin"`
	HeightCM int    `json:"height_cm" example:"180"`
	WeightKg int    `json:"weight_kg" example:"80"`
}

type SelectionRequest struct {
	TakeoffIndex int `json:"takeoff_index" example:"10"`
	LandingIndex int `json:"landing_index" example:"25"`
}

type SelectionResponse struct {
	TakeoffIndex int    `json:"takeoff_index" example:"10"`
	LandingIndex int    `json:"landing_index" example:"25"`
	TakeoffFrame string `json:"takeoff_frame_url" example:"/api/v1/sessions/jmp_abc123/frames/10"`
	LandingFrame string `json:"landing_frame_url" example:"/api/v1/sessions/jmp_abc123/frames/25"`
}

type SessionResponse struct {
	ID        string            `json:"id" example:"jmp_abc123"`
	Status    string            `json:"status" example:"open" enums:"open,analyzed,closed"`
	VideoURL  string            `json:"video_url" example:"/api/v1/sessions/jmp_abc123/video"`
	Video     VideoResponse     `json:"video"`
	Athlete   AthleteResponse   `json:"athlete"`
	Selection SelectionResponse `json:"selection"`
	ReportURL string            `json:"report_url,omitempty" example:"/api/v1/sessions/jmp_abc123/report"`
	CreatedAt string            `json:"created_at" example:"2024-03-07T10:30:00Z"`
	ExpiresAt string            `json:"expires_at" example:"2024-03-07T11:30:00Z"`
}
