package dto

type ErrorResponse struct {
	Code    string `json:"code" example:"invalid_frame_order"`
	Message string `json:"message" example:"landing frame must come after take-off frame"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

type ValidationError struct {
	Field   string `json:"field" example:"landing_index"`
	Message string `json:"message" example:"landing frame must come after take-off frame"`
}
