package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
)

// ListCandidates returns active, unexpired groups the swiping group has not swiped on yet.
func (s *SQLiteStore) ListCandidates(ctx context.Context, swipingGroupID string, nowMillis int64) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.bio, g.photo_url FROM groups g
		 WHERE g.id <> ? AND g.is_active = 1 AND g.active_until > ?
		   AND NOT EXISTS (
		       SELECT 1 FROM swipes s
		       WHERE s.swiper_group_id = ? AND s.swiped_group_id = g.id
		   )
		 ORDER BY g.active_until DESC, g.id`,
		swipingGroupID, nowMillis, swipingGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Bio, &c.PhotoURL); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// CreateSwipe records a swipe. A repeated swipe for the same ordered pair is ignored.
func (s *SQLiteStore) CreateSwipe(ctx context.Context, swipe *models.Swipe) error {
	if swipe.CreatedAt == 0 {
		swipe.CreatedAt = s.nowMillis()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO swipes (swiper_group_id, swiped_group_id, liked, created_at)
		 VALUES (?, ?, ?, ?)`,
		swipe.SwiperGroupID, swipe.SwipedGroupID, boolToInt(swipe.Liked), swipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert swipe: %w", err)
	}
	return nil
}

// HasSwiped reports whether swiper recorded the given decision toward swiped.
func (s *SQLiteStore) HasSwiped(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM swipes
		 WHERE swiper_group_id = ? AND swiped_group_id = ? AND liked = ?)`,
		swiperGroupID, swipedGroupID, boolToInt(liked),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query swipe: %w", err)
	}
	return exists == 1, nil
}

// CreateMatch inserts a match for a mutually liked pair of groups.
func (s *SQLiteStore) CreateMatch(ctx context.Context, match *models.Match) error {
	if match.CreatedAt == 0 {
		match.CreatedAt = s.nowMillis()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var likes int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swipes
		 WHERE liked = 1 AND ((swiper_group_id = ? AND swiped_group_id = ?)
		                   OR (swiper_group_id = ? AND swiped_group_id = ?))`,
		match.Group1, match.Group2, match.Group2, match.Group1,
	).Scan(&likes)
	if err != nil {
		return fmt.Errorf("failed to check mutual likes: %w", err)
	}
	if likes != 2 {
		return fmt.Errorf("match %s/%s: %w", match.Group1, match.Group2, storage.ErrNotMutual)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO matches (group_1, group_2, created_at) VALUES (?, ?, ?)",
		match.Group1, match.Group2, match.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("match %s/%s: %w", match.Group1, match.Group2, storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	if match.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read match id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	if err := row.Scan(&match.ID, &match.Group1, &match.Group2, &match.CreatedAt); err != nil {
		return nil, err
	}
	return match, nil
}

// FindMatch retrieves the match between two groups regardless of ordering.
func (s *SQLiteStore) FindMatch(ctx context.Context, groupA, groupB string) (*models.Match, error) {
	match, err := scanMatch(s.db.QueryRowContext(ctx,
		`SELECT id, group_1, group_2, created_at FROM matches
		 WHERE (group_1 = ? AND group_2 = ?) OR (group_1 = ? AND group_2 = ?)`,
		groupA, groupB, groupB, groupA,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s/%s: %w", groupA, groupB, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return match, nil
}

// GetMatch retrieves a match by ID.
func (s *SQLiteStore) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	match, err := scanMatch(s.db.QueryRowContext(ctx,
		"SELECT id, group_1, group_2, created_at FROM matches WHERE id = ?", matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", matchID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// GetMatchDetails retrieves a match with both groups' identities.
func (s *SQLiteStore) GetMatchDetails(ctx context.Context, matchID int64) (*models.MatchDetails, error) {
	d := &models.MatchDetails{}
	err := s.db.QueryRowContext(ctx,
		`SELECT m.id, m.group_1, m.group_2, m.created_at,
		        g1.id, g1.name, g1.photo_url, g2.id, g2.name, g2.photo_url
		 FROM matches m
		 JOIN groups g1 ON g1.id = m.group_1
		 JOIN groups g2 ON g2.id = m.group_2
		 WHERE m.id = ?`,
		matchID,
	).Scan(&d.Match.ID, &d.Match.Group1, &d.Match.Group2, &d.Match.CreatedAt,
		&d.Group1.ID, &d.Group1.Name, &d.Group1.PhotoURL,
		&d.Group2.ID, &d.Group2.Name, &d.Group2.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", matchID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match details: %w", err)
	}
	return d, nil
}

const matchSummaryColumns = `m.id, m.created_at,
	        g1.id, g1.name, g1.photo_url, g2.id, g2.name, g2.photo_url`

const lastMessageColumns = `
	        (SELECT content FROM messages WHERE match_id = m.id ORDER BY sent_at DESC, id DESC LIMIT 1),
	        (SELECT sent_at FROM messages WHERE match_id = m.id ORDER BY sent_at DESC, id DESC LIMIT 1)`

const matchJoins = `
	 FROM matches m
	 JOIN groups g1 ON g1.id = m.group_1
	 JOIN groups g2 ON g2.id = m.group_2`

// ListMatchSummaries retrieves the match list of a user with last message previews.
// When the user belongs to both groups of a match, group_1 is reported as theirs.
func (s *SQLiteStore) ListMatchSummaries(ctx context.Context, userID string) ([]models.MatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchSummaryColumns+`,
		        EXISTS(SELECT 1 FROM group_members WHERE group_id = m.group_1 AND user_id = ?),`+lastMessageColumns+
			matchJoins+`
		 WHERE m.group_1 IN (SELECT group_id FROM group_members WHERE user_id = ?)
		    OR m.group_2 IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY m.created_at DESC, m.id DESC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return scanMatchSummaries(rows)
}

// ListGroupMatches retrieves the matches of one group, with that group as MyGroup.
func (s *SQLiteStore) ListGroupMatches(ctx context.Context, groupID string) ([]models.MatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchSummaryColumns+`, m.group_1 = ?,`+lastMessageColumns+
			matchJoins+`
		 WHERE m.group_1 = ? OR m.group_2 = ?
		 ORDER BY m.created_at DESC, m.id DESC`,
		groupID, groupID, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group matches: %w", err)
	}
	return scanMatchSummaries(rows)
}

func scanMatchSummaries(rows *sql.Rows) ([]models.MatchSummary, error) {
	defer rows.Close()

	summaries := []models.MatchSummary{}
	for rows.Next() {
		var (
			summary     models.MatchSummary
			g1, g2      models.GroupIdentity
			firstIsMine int
			content     sql.NullString
			sentAt      sql.NullInt64
		)
		if err := rows.Scan(&summary.MatchID, &summary.CreatedAt,
			&g1.ID, &g1.Name, &g1.PhotoURL, &g2.ID, &g2.Name, &g2.PhotoURL,
			&firstIsMine, &content, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if firstIsMine == 1 {
			summary.MyGroup, summary.OtherGroup = g1, g2
		} else {
			summary.MyGroup, summary.OtherGroup = g2, g1
		}
		summary.LastMessageContent = content.String
		summary.LastMessageSentAt = sentAt.Int64
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return summaries, nil
}
