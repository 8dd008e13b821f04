package repository

import (
	"context"

	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentWriteQueries interface {
	UpsertPayment(ctx context.Context, db sqlstore.DBTX, arg sqlstore.UpsertPaymentParams) error
	UpdatePaymentStatus(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, status string, updatedAt pgtype.Timestamptz) (int64, error)
}

type PaymentRepository struct {
	queries PaymentWriteQueries
	db      sqlstore.DBTX
}

func NewPaymentRepository(queries PaymentWriteQueries, db sqlstore.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	if err := r.queries.UpsertPayment(ctx, r.db, converter.PaymentToUpsertParams(p)); err != nil {
		return infra.WrapRepoErr("failed to save payment", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, p *payment.Payment) error {
	rows, err := r.queries.UpdatePaymentStatus(ctx, r.db, p.ID(), p.Status().String(), pgconv.TimeToPgtype(p.UpdatedAt()))
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}
