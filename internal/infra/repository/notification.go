package repository

import (
	"context"
	"time"

	"ticket-hold/internal/infra"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/pgconv"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) Create(ctx context.Context, clientID *uuid.UUID, notificationType, message string, sentAt time.Time) error {
	const query = `
		INSERT INTO notifications (client_id, type, message, sent_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, clientID, notificationType, message, pgconv.TimeToPgtype(sentAt))
	if err != nil {
		return infra.WrapRepoErr("failed to insert notification", err)
	}
	return nil
}
