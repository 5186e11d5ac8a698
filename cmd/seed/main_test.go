package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseCatalogRows(t *testing.T) {
	rows := [][]string{
		{"name", "description", "price", "stock", "location", "reorder_level"},
		{"Widget", "small", "10.5", "3", "A-1", "2"},
		{"", "no name", "1", "1"},
		{"Bad price", "", "abc", "1"},
		{"Negative stock", "", "1", "-1"},
		{"widget", "duplicate", "1", "1"},
		{"Short"},
		{"Gadget", "", "20", "0"},
	}

	catalog, skipped := parseCatalogRows(rows)

	require.Len(t, catalog, 2)
	assert.Equal(t, 5, skipped)
	assert.Equal(t, "Widget", catalog[0].Product.Name)
	assert.Equal(t, 10.5, catalog[0].Product.Price)
	assert.Equal(t, 3, catalog[0].Product.StockValue)
	assert.True(t, catalog[0].Product.IsActive)
	assert.Equal(t, "A-1", catalog[0].Location)
	assert.Equal(t, 2, catalog[0].ReorderLevel)
	assert.Equal(t, "Gadget", catalog[1].Product.Name)
	assert.Empty(t, catalog[1].Location)
}

func TestImportCatalogFromXLSX(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"name", "description", "price", "stock", "location", "reorder_level"},
		{"Widget", "small", 10.5, 3, "A-1", 2},
		{"Gadget", "", 20, 0},
	})

	rows, err := readCatalogFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	inventoryRepo := repository.NewInventoryRepository(testDB)

	imported, err := importCatalog(context.Background(), productRepo, inventoryRepo, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	products, err := productRepo.FindWithFilter(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)

	var items []model.InventoryItem
	require.NoError(t, testDB.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, products[0].ID, items[0].ProductID)
	assert.Equal(t, "A-1", items[0].Location)
	assert.Equal(t, 2, items[0].ReorderLevel)
}

func TestReadCatalogFromXLSX_MissingFile(t *testing.T) {
	_, err := readCatalogFromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
