package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const auditCollection = "registration_audit"

type auditDocument struct {
	RegistrationID string    `bson:"registration_id"`
	Action         string    `bson:"action"`
	Actor          string    `bson:"actor"`
	Username       string    `bson:"username"`
	Notes          string    `bson:"notes,omitempty"`
	At             time.Time `bson:"at"`
	RecordedAt     time.Time `bson:"recorded_at"`
}

// AuditRepository implements ports.AuditLog using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection), now: time.Now}
}

// EnsureIndexes creates the lookup index on registration_id. Safe to call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "registration_id", Value: 1}, {Key: "at", Value: 1}},
		Options: options.Index().SetName("registration_at"),
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Append inserts one decision into the registration_audit collection.
func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	doc := auditDocument{
		RegistrationID: entry.RegistrationID,
		Action:         string(entry.Action),
		Actor:          entry.Actor,
		Username:       entry.Username,
		Notes:          entry.Notes,
		At:             entry.At.UTC(),
		RecordedAt:     r.now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

var _ ports.AuditLog = (*AuditRepository)(nil)
