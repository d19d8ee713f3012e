package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/signora/eventwall/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, national_id,
	date_of_birth, address, city, province, gn_division, divisional_secretariat, postal_code,
	is_verified, is_onboarded, created_at, updated_at`

// UserRepo reads and writes the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an address so that lookups and the
// unique key agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u. ID, Email and PasswordHash must be set; timestamps are
// filled in. A taken email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, nullString(u.LastName), now, now)
	if err != nil {
		return fmt.Errorf("insert user: %w", classify(err))
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetByNationalID fetches the user holding a national id.
func (r *UserRepo) GetByNationalID(ctx context.Context, nationalID string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE national_id=? LIMIT 1", nationalID)
	return scanUser(row)
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CompleteOnboarding stores the onboarding profile and marks the user as
// onboarded.
func (r *UserRepo) CompleteOnboarding(ctx context.Context, id string, o model.Onboarding) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name=?, last_name=?, phone_number=?, national_id=?, date_of_birth=?,
		 address=?, city=?, province=?, gn_division=?, divisional_secretariat=?, postal_code=?,
		 is_onboarded=1 WHERE id=?`,
		o.FirstName, nullString(o.LastName), nullString(o.PhoneNumber), nullString(o.NationalID),
		o.DateOfBirth, nullString(o.Address), nullString(o.City), nullString(o.Province),
		nullString(o.GNDivision), nullString(o.DivisionalSecretariat), nullString(o.PostalCode), id)
	if err != nil {
		return model.User{}, fmt.Errorf("update onboarding: %w", classify(err))
	}
	if err := requireAffected(res); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies a partial profile update and returns the fresh row.
func (r *UserRepo) Update(ctx context.Context, id string, u model.UserUpdate) (model.User, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if u.FirstName != nil {
		add("first_name", *u.FirstName)
	}
	if u.LastName != nil {
		add("last_name", nullString(*u.LastName))
	}
	if u.PhoneNumber != nil {
		add("phone_number", nullString(*u.PhoneNumber))
	}
	if u.Address != nil {
		add("address", nullString(*u.Address))
	}
	if u.City != nil {
		add("city", nullString(*u.City))
	}
	if u.Province != nil {
		add("province", nullString(*u.Province))
	}
	if u.PostalCode != nil {
		add("postal_code", nullString(*u.PostalCode))
	}
	if u.IsVerified != nil {
		add("is_verified", *u.IsVerified)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.User{}, fmt.Errorf("update user: %w", classify(err))
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user; posts, reactions and comments cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (model.User, error) {
	var (
		u                                                  model.User
		lastName, phone, nationalID, address, city         sql.NullString
		province, gnDivision, divisionalSecretariat, postal sql.NullString
		dob                                                sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &lastName, &phone, &nationalID,
		&dob, &address, &city, &province, &gnDivision, &divisionalSecretariat, &postal,
		&u.IsVerified, &u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, classify(err)
	}
	u.LastName = lastName.String
	u.PhoneNumber = phone.String
	u.NationalID = nationalID.String
	u.Address = address.String
	u.City = city.String
	u.Province = province.String
	u.GNDivision = gnDivision.String
	u.DivisionalSecretariat = divisionalSecretariat.String
	u.PostalCode = postal.String
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
