package store

import (
	"fmt"
	"testing"

	"go-rental-pos/internal/database"
	"go-rental-pos/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return New(db)
}

func seedProduct(t *testing.T, s *Store, p models.Product) models.Product {
	t.Helper()
	p.Active = true
	require.NoError(t, s.db.Create(&p).Error)
	return p
}

func seedClient(t *testing.T, s *Store, name string) models.Client {
	t.Helper()
	c := models.Client{Name: name, Phone: "555-0100", Email: name + "@example.com"}
	require.NoError(t, s.db.Create(&c).Error)
	return c
}

func productStock(t *testing.T, s *Store, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, s.db.First(&p, id).Error)
	return p.Stock
}
