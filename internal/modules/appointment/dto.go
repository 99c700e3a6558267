package appointment

type BookRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	ClientID  *int64 `json:"client_id"`
	Title     string `json:"title" binding:"required"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}
