package store

import (
	"errors"
	"testing"
	"time"

	"go-rental-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestCreateSale(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	sale, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, 15.0, sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 5.0, sale.Items[0].UnitPrice)
	assert.Equal(t, 15.0, sale.Items[0].Subtotal)
	assert.Equal(t, 7, productStock(t, s, drill.ID))
}

func TestCreateSaleSnapshotsPrice(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	sale, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: 1}})
	require.NoError(t, err)

	// A later price change must not rewrite the recorded sale.
	require.NoError(t, s.db.Model(&models.Product{}).Where("id = ?", drill.ID).Update("price", 99).Error)

	var stored models.Sale
	require.NoError(t, s.db.Preload("Items").First(&stored, sale.ID).Error)
	assert.Equal(t, 5.0, stored.Items[0].UnitPrice)
	assert.Equal(t, 5.0, stored.Total)
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})
	saw := seedProduct(t, s, models.Product{Name: "Saw", Type: "tools", Price: 8, Stock: 2})

	_, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{
		{ProductID: drill.ID, Quantity: 3},
		{ProductID: saw.ID, Quantity: 5},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, saw.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)

	// The first line's decrement must roll back with the rest.
	assert.Equal(t, 10, productStock(t, s, drill.ID))
	assert.Equal(t, 2, productStock(t, s, saw.ID))

	var count int64
	require.NoError(t, s.db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSaleSameProductTwice(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 5})

	// 3 + 3 exceeds the 5 in stock even though each line alone fits.
	_, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{
		{ProductID: drill.ID, Quantity: 3},
		{ProductID: drill.ID, Quantity: 3},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, productStock(t, s, drill.ID))

	// 3 + 2 drains it exactly.
	_, err = s.CreateSale(client.ID, 1, "cash", []LineRequest{
		{ProductID: drill.ID, Quantity: 3},
		{ProductID: drill.ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, s, drill.ID))
}

func TestCreateSaleInvalidQuantity(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	for _, qty := range []int{0, -1} {
		_, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: qty}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 10, productStock(t, s, drill.ID))
}

func TestCreateSaleUnknownClient(t *testing.T) {
	s := newTestStore(t)
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	_, err := s.CreateSale(999, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	sale, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, 7, productStock(t, s, drill.ID))

	require.NoError(t, s.DeleteSale(sale.ID))
	assert.Equal(t, 10, productStock(t, s, drill.ID))

	var items int64
	require.NoError(t, s.db.Model(&models.SaleItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestCreateRental(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	mixer := seedProduct(t, s, models.Product{
		Name: "Mixer", Type: "machinery", Price: 50, RentalPricePerDay: 2, Rentable: true, Stock: 4,
	})

	rental, err := s.CreateRental(client.ID, 1,
		day(t, "2026-03-01"), day(t, "2026-03-04"),
		20, "cash", "handle with care",
		[]LineRequest{{ProductID: mixer.ID, Quantity: 2}})
	require.NoError(t, err)

	// 2 units x $2/day x 3 days.
	assert.Equal(t, 12.0, rental.Total)
	assert.Equal(t, models.RentalStatusActive, rental.Status)
	assert.Nil(t, rental.ReturnedAt)
	require.Len(t, rental.Items, 1)
	assert.Equal(t, 3, rental.Items[0].Days)
	assert.Equal(t, 2.0, rental.Items[0].PricePerDay)
	assert.Equal(t, 2, productStock(t, s, mixer.ID))
}

func TestCreateRentalInvalidDateRange(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	mixer := seedProduct(t, s, models.Product{
		Name: "Mixer", Type: "machinery", RentalPricePerDay: 2, Rentable: true, Stock: 4,
	})

	cases := []struct{ start, end string }{
		{"2026-03-04", "2026-03-01"}, // reversed
		{"2026-03-01", "2026-03-01"}, // zero days
	}
	for _, tc := range cases {
		_, err := s.CreateRental(client.ID, 1, day(t, tc.start), day(t, tc.end),
			0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 1}})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	}
	assert.Equal(t, 4, productStock(t, s, mixer.ID))
}

func TestCreateRentalNotRentable(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	_, err := s.CreateRental(client.ID, 1, day(t, "2026-03-01"), day(t, "2026-03-03"),
		0, "cash", "", []LineRequest{{ProductID: drill.ID, Quantity: 1}})

	var rentableErr *NotRentableError
	require.ErrorAs(t, err, &rentableErr)
	assert.Equal(t, drill.ID, rentableErr.ProductID)
	assert.Equal(t, 10, productStock(t, s, drill.ID))
}

func TestFinalizeRental(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	mixer := seedProduct(t, s, models.Product{
		Name: "Mixer", Type: "machinery", RentalPricePerDay: 2, Rentable: true, Stock: 4,
	})

	rental, err := s.CreateRental(client.ID, 1, day(t, "2026-03-01"), day(t, "2026-03-04"),
		0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 2, productStock(t, s, mixer.ID))

	finished, err := s.FinalizeRental(rental.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusFinished, finished.Status)
	assert.NotNil(t, finished.ReturnedAt)
	assert.Equal(t, 4, productStock(t, s, mixer.ID))

	// Finalizing again must fail and not restore a second time.
	_, err = s.FinalizeRental(rental.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 4, productStock(t, s, mixer.ID))
}

func TestDeleteRentalStockHandling(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	mixer := seedProduct(t, s, models.Product{
		Name: "Mixer", Type: "machinery", RentalPricePerDay: 2, Rentable: true, Stock: 4,
	})

	t.Run("active rental returns its units", func(t *testing.T) {
		rental, err := s.CreateRental(client.ID, 1, day(t, "2026-03-01"), day(t, "2026-03-04"),
			0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 2}})
		require.NoError(t, err)
		require.Equal(t, 2, productStock(t, s, mixer.ID))

		require.NoError(t, s.DeleteRental(rental.ID))
		assert.Equal(t, 4, productStock(t, s, mixer.ID))
	})

	t.Run("finished rental already returned them", func(t *testing.T) {
		rental, err := s.CreateRental(client.ID, 1, day(t, "2026-03-01"), day(t, "2026-03-04"),
			0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 2}})
		require.NoError(t, err)
		_, err = s.FinalizeRental(rental.ID)
		require.NoError(t, err)
		require.Equal(t, 4, productStock(t, s, mixer.ID))

		require.NoError(t, s.DeleteRental(rental.ID))
		assert.Equal(t, 4, productStock(t, s, mixer.ID))
	})
}

func TestDeleteClientCascades(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})
	mixer := seedProduct(t, s, models.Product{
		Name: "Mixer", Type: "machinery", RentalPricePerDay: 2, Rentable: true, Stock: 4,
	})

	_, err := s.CreateSale(client.ID, 1, "cash", []LineRequest{{ProductID: drill.ID, Quantity: 3}})
	require.NoError(t, err)
	_, err = s.CreateSale(client.ID, 1, "card", []LineRequest{{ProductID: drill.ID, Quantity: 2}})
	require.NoError(t, err)

	active, err := s.CreateRental(client.ID, 1, day(t, "2026-03-01"), day(t, "2026-03-04"),
		0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 2}})
	require.NoError(t, err)
	finished, err := s.CreateRental(client.ID, 1, day(t, "2026-03-05"), day(t, "2026-03-07"),
		0, "cash", "", []LineRequest{{ProductID: mixer.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = s.FinalizeRental(finished.ID)
	require.NoError(t, err)
	_ = active

	salesRemoved, rentalsRemoved, err := s.DeleteClient(client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, salesRemoved)
	assert.Equal(t, 2, rentalsRemoved)

	// Sales and the still-active rental restore stock; the finished one already did.
	assert.Equal(t, 10, productStock(t, s, drill.ID))
	assert.Equal(t, 4, productStock(t, s, mixer.ID))

	var clients int64
	require.NoError(t, s.db.Model(&models.Client{}).Count(&clients).Error)
	assert.Zero(t, clients)
	var saleItems int64
	require.NoError(t, s.db.Model(&models.SaleItem{}).Count(&saleItems).Error)
	assert.Zero(t, saleItems)
}

func TestDeleteClientUnknown(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.DeleteClient(42)
	assert.True(t, errors.Is(err, ErrNotFound))
}
