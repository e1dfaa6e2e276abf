package dto

// OpenVisitRequest starts a visit session at a customer.
type OpenVisitRequest struct {
	Customer string `json:"customer" binding:"required"`
}

// VisitReportRequest carries a typed report draft.
type VisitReportRequest struct {
	Text string `json:"text" binding:"required"`
}

// VisitVoiceRequest carries recorded audio for transcription.
type VisitVoiceRequest struct {
	AudioBase64 string `json:"audio_base64" binding:"required"`
	Language    string `json:"language"`
}
