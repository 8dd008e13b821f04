//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/tests/common/builder"
	queriesmock "reservation-engine/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	owner := user.NewActor(uuid.New(), user.RoleCustomer)
	view := builder.NewReservationBuilder().WithCustomer(owner.ID).BuildView()

	tests := []struct {
		name  string
		actor user.Actor
		errIs error
	}{
		{name: "owner", actor: owner},
		{name: "operator", actor: user.NewActor(uuid.New(), user.RoleOperator)},
		{name: "other customer sees not found", actor: user.NewActor(uuid.New(), user.RoleCustomer), errIs: errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := queriesmock.NewMockReservationViewRepo(ctrl)
			repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

			got, err := queries.NewReservationQueries(repo).GetByID(ctx, tt.actor, view.ID)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}
}

func TestListByCustomer(t *testing.T) {
	ctx := context.Background()
	customer := user.NewActor(uuid.New(), user.RoleCustomer)

	rows := func(n int) []*queries.ReservationListItem {
		out := make([]*queries.ReservationListItem, n)
		for i := range out {
			out[i] = builder.NewReservationBuilder().
				With(func(b *builder.ReservationBuilder) { b.CreatedAt = builder.BaseTime.Add(-time.Duration(i) * time.Minute) }).
				BuildListItem()
		}
		return out
	}

	t.Run("last page has no cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		repo.EXPECT().FindByCustomerAfter(gomock.Any(), customer.ID, nil, nil, 3).Return(rows(2), nil)

		items, next, err := queries.NewReservationQueries(repo).ListByCustomer(ctx, customer, customer.ID, nil, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Nil(t, next)
	})

	t.Run("full page returns a cursor at the last row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		page := rows(3)
		repo.EXPECT().FindByCustomerAfter(gomock.Any(), customer.ID, nil, nil, 3).Return(page, nil)

		items, next, err := queries.NewReservationQueries(repo).ListByCustomer(ctx, customer, customer.ID, nil, 2)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, next)

		at, id, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, page[1].ID, id)
		assert.True(t, page[1].CreatedAt.Equal(at))
	})

	t.Run("cursor is passed to the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		afterID := uuid.New()
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(builder.BaseTime, afterID)}
		repo.EXPECT().
			FindByCustomerAfter(gomock.Any(), customer.ID, gomock.Any(), gomock.Any(), queries.DefaultListLimit+1).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, at *time.Time, id *uuid.UUID, _ int) ([]*queries.ReservationListItem, error) {
				require.NotNil(t, at)
				require.NotNil(t, id)
				assert.True(t, builder.BaseTime.Equal(*at))
				assert.Equal(t, afterID, *id)
				return nil, nil
			})

		items, next, err := queries.NewReservationQueries(repo).ListByCustomer(ctx, customer, customer.ID, cursor, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Nil(t, next)
	})

	t.Run("rejected without touching the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		uc := queries.NewReservationQueries(repo)

		_, _, err := uc.ListByCustomer(ctx, customer, uuid.New(), nil, 10)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		_, _, err = uc.ListByCustomer(ctx, customer, customer.ID, &queries.Cursor{After: "garbage"}, 10)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("staff may list any customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		repo.EXPECT().FindByCustomerAfter(gomock.Any(), customer.ID, nil, nil, 11).Return(nil, nil)

		_, _, err := queries.NewReservationQueries(repo).ListByCustomer(ctx, user.NewActor(uuid.New(), user.RoleAdmin), customer.ID, nil, 10)
		assert.NoError(t, err)
	})
}
