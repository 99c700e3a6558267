package registration

// AttributionPayload mirrors the UTM fields the marketing site forwards.
// Opaque to the core; stored on the registration verbatim.
type AttributionPayload struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	Referrer    string `json:"referrer"`
}

type RegisterRequest struct {
	Name           string             `json:"name" binding:"required"`
	Phone          string             `json:"phone" binding:"required"`
	Email          string             `json:"email" binding:"omitempty,email"`
	City           string             `json:"city"`
	IdempotencyKey string             `json:"idempotency_key"`
	Attribution    AttributionPayload `json:"attribution"`

	// Set by the handler from the URL, never by the client body.
	EventSlug string `json:"-"`
}

type RegisterResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
