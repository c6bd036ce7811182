package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	BlendWeight float64   `json:"blend_weight"`
	CreatedAt   time.Time `json:"created_at"`
}
