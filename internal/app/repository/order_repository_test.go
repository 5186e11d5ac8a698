package repository

import (
	"context"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB, NewOrderRepository(testDB)
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	_, repo := setupOrderTest(t)
	ctx := context.Background()

	order := &model.Order{
		UserID: 1,
		Items: model.OrderSnapshot{
			{ProductID: 10, Name: "A", Price: 50, Quantity: 2},
			{ProductID: 11, Name: "B", Price: 30, Quantity: 1},
		},
		TotalAmount: 130,
		AddressLine: "1 Main St",
		Phone:       "555-0100",
		PaymentMode: model.PaymentModeCOD,
		Status:      model.OrderStatusPending,
	}
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	lines := []model.OrderLine{
		{OrderID: order.ID, ProductID: 10, Quantity: 2, PriceEach: 50},
		{OrderID: order.ID, ProductID: 11, Quantity: 1, PriceEach: 30},
	}
	require.NoError(t, repo.CreateLines(ctx, lines))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 130.0, found.TotalAmount)
	assert.Equal(t, "1 Main St", found.AddressLine)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "A", found.Items[0].Name)
	require.Len(t, found.OrderLines, 2)
	assert.Equal(t, uint(10), found.OrderLines[0].ProductID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	_, repo := setupOrderTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &model.Order{UserID: 1, PaymentMode: model.PaymentModeCOD, Status: model.OrderStatusPending}))
	}
	require.NoError(t, repo.Create(ctx, &model.Order{UserID: 2, PaymentMode: model.PaymentModeCard, Status: model.OrderStatusPending}))

	orders, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	// nil snapshot is stored as an empty list
	assert.NotNil(t, orders[0].Items)
	assert.Empty(t, orders[0].Items)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	_, repo := setupOrderTest(t)
	ctx := context.Background()

	order := &model.Order{UserID: 1, PaymentMode: model.PaymentModeUPI, Status: model.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped))
	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, model.OrderStatusShipped), gorm.ErrRecordNotFound)
}
