package types

// UserResponse is the public shape of a user, stripped of credentials.
type UserResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	IsActive   bool    `json:"is_active"`
}

// Pagination is attached to every list response.
type Pagination struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int64 `json:"total_pages"`
}
