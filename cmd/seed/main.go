package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Sheet layout: name, description, price, stock, location, reorder level.
const (
	colName = iota
	colDescription
	colPrice
	colStock
	colLocation
	colReorderLevel
	minColumns = colStock + 1
)

const batchSize = 1000

type catalogRow struct {
	Product      model.Product
	Location     string
	ReorderLevel int
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(rows))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	imported, err := importCatalog(ctx,
		repository.NewProductRepository(db.GetDB()),
		repository.NewInventoryRepository(db.GetDB()),
		rows,
	)
	if err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

// importCatalog bulk inserts the products and then attaches an inventory
// listing to every row that names a location.
func importCatalog(ctx context.Context, productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, rows []catalogRow) (int, error) {
	products := make([]model.Product, len(rows))
	for i, row := range rows {
		products[i] = row.Product
	}

	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(ctx, products, batchSize); err != nil {
		return 0, fmt.Errorf("bulk create products: %w", err)
	}

	for i, row := range rows {
		if row.Location == "" {
			continue
		}
		item := &model.InventoryItem{
			ProductID:    products[i].ID,
			Location:     row.Location,
			ReorderLevel: row.ReorderLevel,
		}
		if err := inventoryRepo.Upsert(ctx, item); err != nil {
			return i, fmt.Errorf("upsert inventory for %q: %w", row.Product.Name, err)
		}
	}

	return len(products), nil
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	catalog, skipped := parseCatalogRows(rows)

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(catalog))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return catalog, nil
}

// parseCatalogRows converts sheet rows into products. The first row is the
// header. Rows with a blank name, a bad price or a bad stock count are
// skipped, as are repeated names.
func parseCatalogRows(rows [][]string) ([]catalogRow, int) {
	var catalog []catalogRow
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < minColumns {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[colName])
		if name == "" || seen[strings.ToLower(name)] {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[colPrice]), 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[colStock]))
		if err != nil || stock < 0 {
			skipped++
			continue
		}

		entry := catalogRow{
			Product: model.Product{
				Name:        name,
				Description: strings.TrimSpace(row[colDescription]),
				Price:       price,
				StockValue:  stock,
				IsActive:    true,
			},
		}
		if len(row) > colLocation {
			entry.Location = strings.TrimSpace(row[colLocation])
		}
		if len(row) > colReorderLevel {
			if level, err := strconv.Atoi(strings.TrimSpace(row[colReorderLevel])); err == nil && level > 0 {
				entry.ReorderLevel = level
			}
		}

		seen[strings.ToLower(name)] = true
		catalog = append(catalog, entry)
	}

	return catalog, skipped
}
