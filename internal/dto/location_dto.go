package dto

type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Code string `json:"code" validate:"required,min=1,max=16"`
}

type UpdateLocationRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type LocationResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}
