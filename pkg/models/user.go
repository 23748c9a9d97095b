package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns every other record kind. The service runs without
// authentication, so a single seeded user stands in for "the current
// user" on all requests.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
