package attendance

type CheckInRequest struct {
	ClientID      int64  `json:"client_id" binding:"required"`
	AppointmentID *int64 `json:"appointment_id"`
}

type CheckOutRequest struct {
	AttendanceLogID int64 `json:"attendance_log_id" binding:"required"`
}
