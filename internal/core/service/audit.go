package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

func newAuthEvent(t domain.AuthEventType, userID, email string, movieID int) domain.AuthEvent {
	return domain.AuthEvent{
		ID:      uuid.NewString(),
		Type:    t,
		UserID:  userID,
		Email:   email,
		MovieID: movieID,
		At:      time.Now().UTC(),
	}
}
