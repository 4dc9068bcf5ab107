package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// CommunityService manages communities and their membership.
type CommunityService struct {
	store storage.Store
}

// NewCommunityService creates a new community service.
func NewCommunityService(store storage.Store) *CommunityService {
	return &CommunityService{store: store}
}

// Create makes a new community with the creator as its first member.
func (s *CommunityService) Create(ctx context.Context, creatorID, name, description string) (*models.Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: community name is required", ErrValidation)
	}

	c := &models.Community{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
	}
	if err := s.store.CreateCommunity(ctx, c); err != nil {
		slog.Error("CreateCommunity failed", "creator_id", creatorID, "error", err)
		return nil, err
	}

	slog.Info("Community created", "community_id", c.ID, "name", c.Name)
	return c, nil
}

// Get returns a single community.
func (s *CommunityService) Get(ctx context.Context, id string) (*models.Community, error) {
	return s.store.GetCommunity(ctx, id)
}

// List returns all communities.
func (s *CommunityService) List(ctx context.Context) ([]*models.Community, error) {
	return s.store.ListCommunities(ctx)
}

// Join enrolls the user in the community. Joining twice is a no-op.
func (s *CommunityService) Join(ctx context.Context, communityID, userID string) error {
	if _, err := s.store.GetCommunity(ctx, communityID); err != nil {
		return err
	}
	return s.store.AddCommunityMember(ctx, communityID, userID)
}

// Leave removes the user from the community.
func (s *CommunityService) Leave(ctx context.Context, communityID, userID string) error {
	if _, err := s.store.GetCommunity(ctx, communityID); err != nil {
		return err
	}
	return s.store.RemoveCommunityMember(ctx, communityID, userID)
}
