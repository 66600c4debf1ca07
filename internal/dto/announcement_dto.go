package dto

type CreateAnnouncementRequest struct {
	Title      string `json:"title" validate:"required,min=1"`
	Body       string `json:"body"  validate:"required,min=1"`
	LocationID *uint  `json:"location_id"`
}

type UpdateAnnouncementRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Active *bool  `json:"active"`
}

type AnnouncementResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	LocationID *uint  `json:"location_id,omitempty"`
	UserID     uint   `json:"user_id"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}
