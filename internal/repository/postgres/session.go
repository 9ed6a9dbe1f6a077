package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SessionRepository implements domain.SessionRepository. Interactions are
// kept as a JSONB array on the session row.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	interactions := session.Interactions
	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	payload, err := json.Marshal(interactions)
	if err != nil {
		return fmt.Errorf("failed to encode interactions: %w", err)
	}

	query := `
		INSERT INTO sessions (session_id, user_id, title, mode, created_at, updated_at, interactions,
			group_name, group_type, members)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	groupName, groupType, members := groupColumns(session.Group)
	_, err = r.db.Pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Mode,
		session.CreatedAt,
		session.UpdatedAt,
		payload,
		groupName,
		groupType,
		members,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, title, mode, created_at, updated_at, interactions,
			group_name, group_type, members
		FROM sessions
		WHERE session_id = $1
	`
	var (
		s         domain.Session
		payload   []byte
		groupName *string
		groupType *string
		members   []string
	)
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&s.Mode,
		&s.CreatedAt,
		&s.UpdatedAt,
		&payload,
		&groupName,
		&groupType,
		&members,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(payload, &s.Interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	s.Group = groupFromColumns(groupName, groupType, members)
	return &s, nil
}

func (r *SessionRepository) AppendInteraction(ctx context.Context, sessionID string, interaction *domain.Interaction, title string) error {
	payload, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to encode interaction: %w", err)
	}

	query := `
		UPDATE sessions
		SET interactions = interactions || jsonb_build_array($2::jsonb),
			updated_at = $3,
			title = COALESCE(NULLIF($4, ''), title)
		WHERE session_id = $1
	`
	tag, err := r.db.Pool.Exec(ctx, query, sessionID, payload, interaction.CreatedAt, title)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE session_id = $1`
	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	query := `
		SELECT session_id, user_id, title, mode, created_at, updated_at,
			group_name, group_type, members
		FROM sessions
		WHERE (user_id = $1 OR $1 = ANY(members)) AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := r.db.Pool.Query(ctx, query, userID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		var (
			s         domain.Session
			groupName *string
			groupType *string
			members   []string
		)
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Title,
			&s.Mode,
			&s.CreatedAt,
			&s.UpdatedAt,
			&groupName,
			&groupType,
			&members,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Group = groupFromColumns(groupName, groupType, members)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) AddMember(ctx context.Context, sessionID, userID string) error {
	query := `
		UPDATE sessions
		SET members = CASE WHEN $2 = ANY(members) THEN members ELSE array_append(members, $2) END
		WHERE session_id = $1 AND group_name IS NOT NULL
	`
	tag, err := r.db.Pool.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// groupColumns flattens a group into nullable columns. A NULL group_name
// marks a session that is not a group.
func groupColumns(g *domain.Group) (*string, *string, []string) {
	if g == nil {
		return nil, nil, []string{}
	}
	typ := string(g.Type)
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &g.Name, &typ, members
}

func groupFromColumns(name, typ *string, members []string) *domain.Group {
	if name == nil {
		return nil
	}
	g := &domain.Group{Name: *name, Members: members}
	if typ != nil {
		g.Type = domain.GroupType(*typ)
	}
	return g
}
