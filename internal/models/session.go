package models

// SessionRecord is a persisted dashboard session
type SessionRecord struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	IsSuperuser   bool   `json:"is_superuser"`
	UpstreamToken string `json:"-"`
	Mode          string `json:"mode"`
	FocusedID     string `json:"focused_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
	ExpiresAt     int64  `json:"expires_at"`
}
