package repository

import (
	"context"
	"database/sql"

	"github.com/signora/eventwall/internal/model"
)

const officerColumns = "id, email, password_hash, first_name, last_name, role, department_id, created_at, updated_at"

// OfficerRepo reads the `officers` table. Officers are provisioned by the
// administration tooling, so the API only needs lookups.
type OfficerRepo struct{ DB *sql.DB }

func NewOfficerRepo(db *sql.DB) *OfficerRepo { return &OfficerRepo{DB: db} }

// GetByEmail fetches an officer by normalized email.
func (r *OfficerRepo) GetByEmail(ctx context.Context, email string) (model.Officer, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+officerColumns+" FROM officers WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanOfficer(row)
}

// GetByID fetches an officer by id.
func (r *OfficerRepo) GetByID(ctx context.Context, id string) (model.Officer, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+officerColumns+" FROM officers WHERE id=? LIMIT 1", id)
	return scanOfficer(row)
}

func scanOfficer(s rowScanner) (model.Officer, error) {
	var (
		o                    model.Officer
		lastName, department sql.NullString
	)
	err := s.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.FirstName, &lastName, &o.Role, &department,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Officer{}, classify(err)
	}
	o.LastName = lastName.String
	o.DepartmentID = department.String
	return o, nil
}
