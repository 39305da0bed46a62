package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const registrationColumns = `id, username, phone_no, email, message, preferred_role, device_id,
       gender, COALESCE(to_char(dob, 'YYYY-MM-DD'), ''), height, weight,
       status, created_at, processed_at, processed_by, notes`

// RegistrationRepository implements ports.RegistrationRepository on the registrations table.
type RegistrationRepository struct {
	db DBTX
}

func NewRegistrationRepository(db DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row rowScanner) (*domain.RegistrationRequest, error) {
	var (
		req            domain.RegistrationRequest
		height, weight sql.NullInt64
		processedAt    sql.NullTime
	)
	err := row.Scan(
		&req.ID, &req.Username, &req.PhoneNo, &req.Email, &req.Message, &req.PreferredRole, &req.DeviceID,
		&req.Gender, &req.DOB, &height, &weight,
		&req.Status, &req.CreatedAt, &processedAt, &req.ProcessedBy, &req.Notes,
	)
	if err != nil {
		return nil, err
	}
	req.Height, req.Weight = intPtr(height), intPtr(weight)
	if processedAt.Valid {
		t := processedAt.Time
		req.ProcessedAt = &t
	}
	return &req, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, req *domain.RegistrationRequest) (*domain.RegistrationRequest, error) {
	created := *req
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = domain.RegistrationPending
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (id, username, phone_no, email, message, preferred_role, device_id,
		                            gender, dob, height, weight, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::date, $10, $11, $12, $13)`,
		created.ID, created.Username, created.PhoneNo, created.Email, created.Message, created.PreferredRole,
		created.DeviceID, created.Gender, created.DOB, nullableInt(created.Height), nullableInt(created.Weight),
		string(created.Status), created.CreatedAt,
	)
	if err != nil {
		return nil, storageErr("insert registration", err)
	}
	return &created, nil
}

func (r *RegistrationRepository) findOne(ctx context.Context, op, query, id string) (*domain.RegistrationRequest, error) {
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, storageErr(op, err)
	}
	return req, nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	return r.findOne(ctx, "find registration", `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
}

func (r *RegistrationRepository) LockByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	return r.findOne(ctx, "lock registration", `SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, id)
}

func (r *RegistrationRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.RegistrationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE status = $1 ORDER BY created_at DESC`,
		string(status),
	)
	if err != nil {
		return nil, storageErr("list registrations", err)
	}
	defer rows.Close()

	var out []*domain.RegistrationRequest
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, storageErr("scan registration", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list registrations", err)
	}
	return out, nil
}

// UpdateStatus is a compare-and-set on the current status.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, change ports.StatusChange) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations
		    SET status = $3, processed_at = $4, processed_by = $5, notes = $6
		  WHERE id = $1 AND status = $2`,
		id, string(change.From), string(change.To), change.ProcessedAt, change.ProcessedBy, change.Notes,
	)
	if err != nil {
		return storageErr("update registration status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update registration status", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM registrations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return storageErr("check registration exists", err)
	}
	if !exists {
		return domain.ErrRegistrationNotFound
	}
	return domain.ErrRegistrationProcessed
}

var _ ports.RegistrationRepository = (*RegistrationRepository)(nil)
