package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"krampus/internal/model"
)

// CreateStaff inserts a staff account. ID is assigned here when unset; the
// permission set must already be derived from the role by the caller.
func (db *DB) CreateStaff(ctx context.Context, s *model.Staff) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	perms, err := json.Marshal(s.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err = db.ExecContext(ctx, `
		INSERT INTO staff (id, name, username, password_hash, role, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Username, s.PasswordHash, string(s.Role), string(perms), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// GetStaff returns a staff account by id.
func (db *DB) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, username, password_hash, role, permissions, created_at, updated_at
		FROM staff WHERE id = ?`, id)
	s, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// GetStaffByUsername returns a staff account by exact username.
func (db *DB) GetStaffByUsername(ctx context.Context, username string) (*model.Staff, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, username, password_hash, role, permissions, created_at, updated_at
		FROM staff WHERE username = ?`, username)
	s, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// UpdateStaff applies only the non-nil columns. Role changes must arrive
// with the re-derived permission set; password changes arrive pre-hashed.
func (db *DB) UpdateStaff(ctx context.Context, id string, name, username, passwordHash *string, role *model.Role, permissions []string) error {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if name != nil {
		set = append(set, "name = ?")
		args = append(args, *name)
	}
	if username != nil {
		set = append(set, "username = ?")
		args = append(args, *username)
	}
	if passwordHash != nil {
		set = append(set, "password_hash = ?")
		args = append(args, *passwordHash)
	}
	if role != nil {
		perms, err := json.Marshal(permissions)
		if err != nil {
			return fmt.Errorf("encode permissions: %w", err)
		}
		set = append(set, "role = ?", "permissions = ?")
		args = append(args, string(*role), string(perms))
	}

	query := "UPDATE staff SET " + joinSet(set) + " WHERE id = ?"
	args = append(args, id)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("update staff: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStaff removes a staff account. Reservations referencing it as
// artist keep the dangling id and resolve to "Not assigned".
func (db *DB) DeleteStaff(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM staff WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStaff returns all staff ordered by creation time.
func (db *DB) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, username, password_hash, role, permissions, created_at, updated_at
		FROM staff ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanStaff(row rowScanner) (*model.Staff, error) {
	var s model.Staff
	var role, perms string
	err := row.Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &role, &perms, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Role = model.Role(role)
	if err := json.Unmarshal([]byte(perms), &s.Permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return &s, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
