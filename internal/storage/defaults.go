package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/models"
)

// PrepareNew fills in the generated fields of a session about to be created.
// Every backend calls it so IDs, titles and timestamps look the same
// regardless of where sessions are stored.
func PrepareNew(session *models.Session, now time.Time) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = now.Unix()
	}
	session.UpdatedAt = session.CreatedAt
	if session.Title == "" {
		session.Title = GenerateTitle(time.Unix(session.CreatedAt, 0))
	}
}

// GenerateTitle creates an auto-generated title from the creation date.
func GenerateTitle(createdAt time.Time) string {
	return fmt.Sprintf("Bill - %s", createdAt.UTC().Format("Jan 2, 2006"))
}
