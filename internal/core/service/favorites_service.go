package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cinefav/favorites-api/internal/api/metrics"
	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/ports"
)

// FavoritesService manages a user's favorite movie set. Every mutation is a
// single atomic store update; nothing is read, changed in memory and saved.
type FavoritesService struct {
	users  ports.UserRepository
	policy domain.DuplicateFavoritePolicy
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewFavoritesService(
	users ports.UserRepository,
	policy domain.DuplicateFavoritePolicy,
	audit ports.AuditSink,
	log zerolog.Logger,
) *FavoritesService {
	if policy == "" {
		policy = domain.DuplicateIgnore
	}
	return &FavoritesService{users: users, policy: policy, audit: audit, log: log}
}

func (s *FavoritesService) List(ctx context.Context, userID string) ([]int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr("list favorites", err)
	}
	return user.Public().Favorites, nil
}

// Add inserts movieID. With DuplicateIgnore a repeat add succeeds unchanged;
// with DuplicateReject it fails with domain.ErrAlreadyFavorite.
func (s *FavoritesService) Add(ctx context.Context, userID string, movieID int) ([]int, error) {
	if err := domain.ValidateMovieID(movieID); err != nil {
		metrics.FavoritesMutationsTotal.WithLabelValues("add", "invalid").Inc()
		return nil, err
	}

	var (
		user *domain.User
		err  error
	)
	if s.policy == domain.DuplicateReject {
		user, err = s.users.AddFavoriteIfAbsent(ctx, userID, movieID)
	} else {
		user, err = s.users.AddFavorite(ctx, userID, movieID)
	}
	if err != nil {
		metrics.FavoritesMutationsTotal.WithLabelValues("add", mutationResult(err)).Inc()
		return nil, wrapStoreErr("add favorite", err)
	}

	metrics.FavoritesMutationsTotal.WithLabelValues("add", "success").Inc()
	s.audit.Enqueue(newAuthEvent(domain.EventFavoriteAdded, userID, "", movieID))
	s.log.Debug().Str("user_id", userID).Int("movie_id", movieID).Msg("favorite added")

	return user.Public().Favorites, nil
}

// Remove pulls movieID; removing an id that is not a favorite is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, userID string, movieID int) ([]int, error) {
	if err := domain.ValidateMovieID(movieID); err != nil {
		metrics.FavoritesMutationsTotal.WithLabelValues("remove", "invalid").Inc()
		return nil, err
	}

	user, err := s.users.RemoveFavorite(ctx, userID, movieID)
	if err != nil {
		metrics.FavoritesMutationsTotal.WithLabelValues("remove", mutationResult(err)).Inc()
		return nil, wrapStoreErr("remove favorite", err)
	}

	metrics.FavoritesMutationsTotal.WithLabelValues("remove", "success").Inc()
	s.audit.Enqueue(newAuthEvent(domain.EventFavoriteRemoved, userID, "", movieID))
	s.log.Debug().Str("user_id", userID).Int("movie_id", movieID).Msg("favorite removed")

	return user.Public().Favorites, nil
}

func (s *FavoritesService) Check(ctx context.Context, userID string, movieID int) (bool, error) {
	if err := domain.ValidateMovieID(movieID); err != nil {
		return false, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, wrapStoreErr("check favorite", err)
	}
	return user.HasFavorite(movieID), nil
}

// wrapStoreErr passes domain errors through untouched and adds op context to
// anything else.
func wrapStoreErr(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrAlreadyFavorite) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mutationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyFavorite):
		return "duplicate"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
