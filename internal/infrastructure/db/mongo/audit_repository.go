package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mb-platform/user-service/internal/core/domain"
)

const auditCollection = "account_events"

// AuditRepository persists account audit-trail events to MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}
