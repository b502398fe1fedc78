package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Client owns loans. The PIN is a 4-digit access code handed to the borrower
// at registration, used by the client-facing endpoints.
type Client struct {
	ID         string
	Name       string
	NationalID string
	Phone      string
	PIN        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewClient(name, nationalID, phone string) (*Client, error) {
	if name == "" {
		return nil, ErrInvalidClientName
	}
	now := time.Now()
	return &Client{
		ID:         uuid.New().String(),
		Name:       name,
		NationalID: nationalID,
		Phone:      phone,
		PIN:        generatePIN(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (c *Client) VerifyPIN(pin string) bool {
	return pin != "" && c.PIN == pin
}

func generatePIN() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
