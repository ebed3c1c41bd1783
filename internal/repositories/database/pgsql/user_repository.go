package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	"github.com/gullak-app/gullak_backend/internal/models"
	"github.com/gullak-app/gullak_backend/internal/utils/mapping"
	"github.com/gullak-app/gullak_backend/internal/utils/pagination"
)

const userColumns = `user_id, company_id, name, email, phone, role,
	manager_id, agent_id, password_hash, device_tokens, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.CompanyID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Role,
		&m.ManagerID,
		&m.AgentID,
		&m.PasswordHash,
		&m.DeviceTokens,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.UserID, m.CompanyID, m.Name, m.Email, m.Phone, m.Role,
		m.ManagerID, m.AgentID, m.PasswordHash, m.DeviceTokens, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, m.Email)
		}
		return apperrors.NewAppError(500, "failed to save user "+m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves an active user scoped to a company.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, companyID, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND company_id = $2 AND is_active = TRUE;`
	m, err := scanUser(r.db(ctx).QueryRow(ctx, query, userID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID, err)
	}
	u := mapping.ToDomainUser(*m)
	return &u, nil
}

// FindUserByEmail looks a user up for login. Email is unique platform-wide,
// so no company scoping applies.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE;`
	m, err := scanUser(r.db(ctx).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by email", err)
	}
	u := mapping.ToDomainUser(*m)
	return &u, nil
}

// FindUsersByIDs retrieves several active users in one query, keyed by ID.
func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, companyID string, userIDs []string) (map[string]domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]domain.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 AND user_id = ANY($2) AND is_active = TRUE;`
	rows, err := r.db(ctx).Query(ctx, query, companyID, userIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users by IDs", err)
	}
	defer rows.Close()

	result := make(map[string]domain.User, len(userIDs))
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		result[m.UserID] = mapping.ToDomainUser(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return result, nil
}

// ListUsers retrieves a token-paginated slice of a company's active users,
// optionally restricted to one role, newest first.
func (r *PgxUserRepository) ListUsers(ctx context.Context, companyID string, role domain.Role, limit int, nextToken *string) ([]domain.User, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 AND is_active = TRUE`
	args := []any{companyID}

	if role != "" {
		args = append(args, string(role))
		query += ` AND role = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list users for company "+companyID, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, fetchLimit)
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		users = append(users, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}

	var nextTokenVal *string
	if len(users) > limit {
		token := pagination.EncodeDateBasedToken(users[limit-1].CreatedAt)
		nextTokenVal = &token
		users = users[:limit]
	}

	return mapping.ToDomainUserSlice(users), nextTokenVal, nil
}

// ListAgentIDsByManager returns the IDs of every active Agent supervised by
// the manager.
func (r *PgxUserRepository) ListAgentIDsByManager(ctx context.Context, companyID, managerID string) ([]string, error) {
	query := `SELECT user_id FROM users WHERE company_id = $1 AND manager_id = $2 AND role = $3 AND is_active = TRUE;`
	return r.scanIDList(ctx, query, companyID, managerID, string(domain.RoleAgent))
}

// ListClientIDsByAgents returns the IDs of every active client assigned to
// any of the agents.
func (r *PgxUserRepository) ListClientIDsByAgents(ctx context.Context, companyID string, agentIDs []string) ([]string, error) {
	if len(agentIDs) == 0 {
		return nil, nil
	}
	query := `SELECT user_id FROM users WHERE company_id = $1 AND agent_id = ANY($2) AND role = $3 AND is_active = TRUE;`
	return r.scanIDList(ctx, query, companyID, agentIDs, string(domain.RoleClient))
}

func (r *PgxUserRepository) scanIDList(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query user IDs", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user id rows", err)
	}
	return ids, nil
}

// ListDeviceTokens collects registered device tokens for the given users.
func (r *PgxUserRepository) ListDeviceTokens(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `SELECT unnest(device_tokens) FROM users WHERE user_id = ANY($1) AND is_active = TRUE;`
	rows, err := r.db(ctx).Query(ctx, query, userIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query device tokens", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan device token", err)
		}
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating device token rows", err)
	}
	return tokens, nil
}

// UpdateUser persists mutable user attributes.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $2, phone = $3, manager_id = $4, agent_id = $5,
		    password_hash = $6, device_tokens = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE user_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.UserID, m.Name, m.Phone, m.ManagerID, m.AgentID,
		m.PasswordHash, m.DeviceTokens, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user "+m.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + m.UserID + " not found for update")
	}
	return nil
}

// DeactivateUser soft-deletes a user. The row stays so historical deposits
// keep resolving their collector and owner.
func (r *PgxUserRepository) DeactivateUser(ctx context.Context, companyID, userID, updatedBy string) error {
	query := `
		UPDATE users
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND company_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, userID, companyID, time.Now().UTC(), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found for deactivation")
	}
	return nil
}
