package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const userColumns = `id, username, password_hash, role, phone_no, device_id,
       COALESCE(to_char(sub_start_date, 'YYYY-MM-DD'), ''),
       COALESCE(to_char(sub_end_date, 'YYYY-MM-DD'), ''),
       gender, COALESCE(to_char(dob, 'YYYY-MM-DD'), ''), height, weight,
       calories_goal, proteins_goal, fats_goal, carbs_goal,
       profile_image_key, created_at`

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u              domain.User
		height, weight sql.NullInt64
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.PhoneNo, &u.DeviceID,
		&u.SubscriptionStart, &u.SubscriptionEnd,
		&u.Gender, &u.DOB, &height, &weight,
		&u.Goals.Calories, &u.Goals.Proteins, &u.Goals.Fats, &u.Goals.Carbs,
		&u.ProfileImageKey, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Height, u.Weight = intPtr(height), intPtr(weight)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, phone_no, device_id,
		                    sub_start_date, sub_end_date, gender, dob, height, weight,
		                    calories_goal, proteins_goal, fats_goal, carbs_goal, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6,
		         NULLIF($7, '')::date, NULLIF($8, '')::date, $9, NULLIF($10, '')::date, $11, $12,
		         $13, $14, $15, $16, $17)`,
		created.ID, created.Username, created.PasswordHash, created.Role, created.PhoneNo, created.DeviceID,
		created.SubscriptionStart, created.SubscriptionEnd, created.Gender, created.DOB,
		nullableInt(created.Height), nullableInt(created.Weight),
		created.Goals.Calories, created.Goals.Proteins, created.Goals.Fats, created.Goals.Carbs,
		created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storageErr("insert user", err)
	}
	return &created, nil
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr(op, err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "find user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "find user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) LockByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "lock user", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) ExistsByUsernameAndPhone(ctx context.Context, username, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND phone_no = $2)`,
		username, phone,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("check user exists", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (r *UserRepository) SubscriptionEnds(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT COALESCE(to_char(sub_end_date, 'YYYY-MM-DD'), '') FROM users`)
	if err != nil {
		return nil, storageErr("list subscription ends", err)
	}
	defer rows.Close()

	var ends []string
	for rows.Next() {
		var end string
		if err := rows.Scan(&end); err != nil {
			return nil, storageErr("scan subscription end", err)
		}
		ends = append(ends, end)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list subscription ends", err)
	}
	return ends, nil
}

// exec runs a single-row update and maps "no row matched" to ErrUserNotFound.
func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	return r.exec(ctx, "update profile",
		`UPDATE users
		    SET username = $2, phone_no = $3, gender = $4, dob = NULLIF($5, '')::date, height = $6, weight = $7
		  WHERE id = $1`,
		id, p.Username, p.PhoneNo, p.Gender, p.DOB, nullableInt(p.Height), nullableInt(p.Weight),
	)
}

func (r *UserRepository) UpdateGoals(ctx context.Context, id string, g domain.Goals) error {
	return r.exec(ctx, "update goals",
		`UPDATE users SET calories_goal = $2, proteins_goal = $3, fats_goal = $4, carbs_goal = $5 WHERE id = $1`,
		id, g.Calories, g.Proteins, g.Fats, g.Carbs,
	)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "update password", `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id, key string) error {
	return r.exec(ctx, "update profile image", `UPDATE users SET profile_image_key = $2 WHERE id = $1`, id, key)
}

// UpdateDetails leaves columns whose patch field is nil untouched.
func (r *UserRepository) UpdateDetails(ctx context.Context, id string, patch ports.UserDetailsPatch) error {
	return r.exec(ctx, "update user details",
		`UPDATE users
		    SET password_hash = COALESCE($2, password_hash),
		        sub_end_date  = COALESCE(NULLIF($3, '')::date, sub_end_date),
		        device_id     = COALESCE($4, device_id)
		  WHERE id = $1`,
		id, nullableString(patch.PasswordHash), nullableString(patch.SubscriptionEnd), nullableString(patch.DeviceID),
	)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

var _ ports.UserRepository = (*UserRepository)(nil)
