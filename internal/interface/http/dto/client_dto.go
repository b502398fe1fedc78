package dto

import (
	"errors"
	"time"
)

type CreateClientRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
}

func (r *CreateClientRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateClientRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
}

type LoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

func (r *LoginRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.PIN) != 4 {
		return errors.New("pin must be 4 digits")
	}
	return nil
}

type ClientResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NationalID string `json:"national_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// CreatedClientResponse is returned once, at registration, and is the only
// place the generated PIN ever appears in a response.
type CreatedClientResponse struct {
	ClientResponse
	PIN string `json:"pin"`
}

func NewClientResponse(id, name, nationalID, phone string, createdAt time.Time) ClientResponse {
	return ClientResponse{
		ID:         id,
		Name:       name,
		NationalID: nationalID,
		Phone:      phone,
		CreatedAt:  createdAt.Format(time.RFC3339),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
