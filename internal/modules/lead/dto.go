package lead

type CreateRequest struct {
	Name        string  `json:"name" binding:"required" validate:"required,min=2,max=150"`
	Phone       string  `json:"phone" binding:"required" validate:"required,min=5,max=32"`
	Email       string  `json:"email" validate:"omitempty,email"`
	City        string  `json:"city" validate:"max=120"`
	Message     string  `json:"message" validate:"max=2000"`
	Attribution Payload `json:"attribution"`
}

type Payload struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	Referrer    string `json:"referrer"`
}
