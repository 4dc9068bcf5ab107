package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// CreateCommunity persists a new community and enrolls its creator as the
// first member, in one transaction.
func (s *SQLiteStore) CreateCommunity(ctx context.Context, c *models.Community) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO communities (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create community: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO community_members (community_id, user_id) VALUES (?, ?)",
		c.ID, c.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to enroll creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCommunity retrieves a community by ID.
func (s *SQLiteStore) GetCommunity(ctx context.Context, id string) (*models.Community, error) {
	c := &models.Community{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, created_at FROM communities WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("community %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get community: %w", err)
	}
	return c, nil
}

// ListCommunities returns all communities ordered by name.
func (s *SQLiteStore) ListCommunities(ctx context.Context) ([]*models.Community, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_by, created_at FROM communities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	for rows.Next() {
		c := &models.Community{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan community: %w", err)
		}
		communities = append(communities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate communities: %w", err)
	}
	return communities, nil
}

// AddCommunityMember enrolls a user in a community. Joining twice is a no-op.
func (s *SQLiteStore) AddCommunityMember(ctx context.Context, communityID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO community_members (community_id, user_id) VALUES (?, ?)",
		communityID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add community member: %w", err)
	}
	return nil
}

// RemoveCommunityMember removes a user from a community.
func (s *SQLiteStore) RemoveCommunityMember(ctx context.Context, communityID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM community_members WHERE community_id = ? AND user_id = ?",
		communityID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove community member: %w", err)
	}
	return nil
}

// IsCommunityMember reports whether the user belongs to the community.
func (s *SQLiteStore) IsCommunityMember(ctx context.Context, communityID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM community_members WHERE community_id = ? AND user_id = ?",
		communityID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check community membership: %w", err)
	}
	return count > 0, nil
}
