package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
)

const groupColumns = `id, name, bio, photo_url, owner_id, is_active, active_until, created_at`

// CreateGroup persists a new group and adds the owner as its first member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = s.nowMillis()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Bio, group.PhotoURL, group.OwnerID,
		boolToInt(group.IsActive), group.ActiveUntil, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		group.ID, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var active int
	if err := row.Scan(&group.ID, &group.Name, &group.Bio, &group.PhotoURL, &group.OwnerID,
		&active, &group.ActiveUntil, &group.CreatedAt); err != nil {
		return nil, err
	}
	group.IsActive = active == 1
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupDetails retrieves a group with its members and photos.
func (s *SQLiteStore) GetGroupDetails(ctx context.Context, groupID string) (*models.GroupDetails, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	details := &models.GroupDetails{Group: *group}

	memberRows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.avatar_url
		 FROM group_members gm JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ? ORDER BY gm.joined_at, u.username`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	for memberRows.Next() {
		var p models.Profile
		if err := memberRows.Scan(&p.ID, &p.Username, &p.AvatarURL); err != nil {
			memberRows.Close()
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		details.Members = append(details.Members, p)
	}
	memberRows.Close()
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	photoRows, err := s.db.QueryContext(ctx,
		"SELECT group_id, photo_url, position FROM group_photos WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group photos: %w", err)
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var p models.GroupPhoto
		if err := photoRows.Scan(&p.GroupID, &p.PhotoURL, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		details.Photos = append(details.Photos, p)
	}
	if err := photoRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return details, nil
}

// ListGroupsForUser retrieves the user's groups with member counts and avatars.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.bio, g.photo_url, g.owner_id, g.is_active, g.active_until, g.created_at
		 FROM groups g JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ? ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var summaries []models.GroupSummary
	index := make(map[string]int)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		index[group.ID] = len(summaries)
		summaries = append(summaries, models.GroupSummary{Group: *group})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	// Second pass for rosters; the single connection cannot run nested queries.
	ids := make([]string, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.Group.ID
	}
	memberRows, err := s.db.QueryContext(ctx,
		`SELECT gm.group_id, u.avatar_url
		 FROM group_members gm JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id IN (`+placeholders(len(ids))+`) ORDER BY gm.joined_at`,
		stringArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID, avatar string
		if err := memberRows.Scan(&groupID, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		summary := &summaries[index[groupID]]
		summary.MemberCount++
		summary.MemberAvatars = append(summary.MemberAvatars, avatar)
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return summaries, nil
}

// UpdateGroup updates a group's editable fields.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, bio = ?, photo_url = ? WHERE id = ?",
		group.Name, group.Bio, group.PhotoURL, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

// SetGroupActive switches the group's activation state.
func (s *SQLiteStore) SetGroupActive(ctx context.Context, groupID string, active bool, activeUntil int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET is_active = ?, active_until = ? WHERE id = ?",
		boolToInt(active), activeUntil, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to set group activation: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes a group; foreign keys cascade to dependent rows.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)",
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists == 1, nil
}

// AddMember adds the user to the group; adding an existing member is a no-op.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		groupID, userID, s.nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes the user from the group.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
	}
	return nil
}

// ListMemberIDs returns the members of the given groups except excludeUserID.
func (s *SQLiteStore) ListMemberIDs(ctx context.Context, groupIDs []string, excludeUserID string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	args := append(stringArgs(groupIDs), excludeUserID)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM group_members
		 WHERE group_id IN (`+placeholders(len(groupIDs))+`) AND user_id <> ?
		 ORDER BY user_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list member ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member ids: %w", err)
	}
	return ids, nil
}

// AddGroupPhoto appends a photo at the end of the group's gallery.
func (s *SQLiteStore) AddGroupPhoto(ctx context.Context, photo *models.GroupPhoto) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_photos (group_id, photo_url, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_photos WHERE group_id = ?))`,
		photo.GroupID, photo.PhotoURL, photo.GroupID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to add group photo: %w", storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to add group photo: %w", err)
	}
	return s.db.QueryRowContext(ctx,
		"SELECT position FROM group_photos WHERE group_id = ? AND photo_url = ?",
		photo.GroupID, photo.PhotoURL,
	).Scan(&photo.Position)
}

// RemoveGroupPhoto deletes a photo from the group's gallery.
func (s *SQLiteStore) RemoveGroupPhoto(ctx context.Context, groupID, photoURL string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM group_photos WHERE group_id = ? AND photo_url = ?",
		groupID, photoURL,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group photo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("photo %s: %w", photoURL, storage.ErrNotFound)
	}
	return nil
}

// CreateInvite stores an invite code for a group.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.GroupInvite) error {
	if invite.CreatedAt == 0 {
		invite.CreatedAt = s.nowMillis()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_invites (code, group_id, created_by, created_at) VALUES (?, ?, ?, ?)",
		invite.Code, invite.GroupID, invite.CreatedBy, invite.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invite %s: %w", invite.Code, storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

// GetInvite retrieves an invite by code.
func (s *SQLiteStore) GetInvite(ctx context.Context, code string) (*models.GroupInvite, error) {
	invite := &models.GroupInvite{}
	err := s.db.QueryRowContext(ctx,
		"SELECT code, group_id, created_by, created_at FROM group_invites WHERE code = ?",
		code,
	).Scan(&invite.Code, &invite.GroupID, &invite.CreatedBy, &invite.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite %s: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}
