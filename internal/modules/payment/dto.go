package payment

type CreateOrderRequest struct {
	RegistrationID int64  `json:"registration_id" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
}

type CreateOrderResponse struct {
	OrderID         string `json:"order_id"`
	Amount          int64  `json:"amount"` // minor units
	Currency        string `json:"currency"`
	PaymentRecordID string `json:"payment_record_id"`
}

type VerifyRequest struct {
	OrderID        string `json:"order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
	RegistrationID int64  `json:"registration_id" binding:"required"`
}

type VerifyResponse struct {
	Status             string `json:"status"`
	RegistrationStatus string `json:"registration_status"`
}
