package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Enums matching database schema
type ItemCategory string

const (
	CategoryStaples   ItemCategory = "staples"
	CategoryProduce   ItemCategory = "produce"
	CategoryDairy     ItemCategory = "dairy"
	CategoryBakery    ItemCategory = "bakery"
	CategorySnacks    ItemCategory = "snacks"
	CategoryBeverages ItemCategory = "beverages"
	CategorySpices    ItemCategory = "spices"
	CategoryFrozen    ItemCategory = "frozen"
	CategoryHousehold ItemCategory = "household"
	CategoryPersonal  ItemCategory = "personal_care"
	CategoryBabyCare  ItemCategory = "baby_care"
	CategoryOther     ItemCategory = "other"
)

// CatalogItem is one product from the seed catalog
type CatalogItem struct {
	Name        string
	Description string
	Category    ItemCategory
	Price       decimal.Decimal
	Barcode     string
}

// SeedStore describes a kirana store to create
type SeedStore struct {
	Name           string
	Address        string
	Contact        string
	OperatingHours string
}

// CategoryClassifier assigns a category from product name keywords,
// used for catalog rows that leave the category column empty.
type CategoryClassifier struct {
	keywords map[ItemCategory][]string
}

func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{
		keywords: map[ItemCategory][]string{
			CategoryStaples: {"atta", "rice", "dal", "flour", "sugar", "salt", "oil",
				"ghee", "besan", "poha", "rava", "maida", "toor", "moong", "chana"},
			CategoryProduce: {"onion", "potato", "tomato", "banana", "apple", "mango",
				"coriander", "spinach", "carrot", "cucumber", "lemon", "ginger", "garlic"},
			CategoryDairy: {"milk", "butter", "paneer", "curd", "dahi", "cheese",
				"cream", "lassi", "buttermilk"},
			CategoryBakery: {"bread", "bun", "pav", "rusk", "cake", "khari"},
			CategorySnacks: {"biscuit", "chips", "namkeen", "bhujia", "mixture", "chakli",
				"kurkure", "wafer", "chocolate", "cookies"},
			CategoryBeverages: {"tea", "coffee", "juice", "cola", "soda", "squash",
				"drink", "water", "sherbet", "horlicks", "bournvita"},
			CategorySpices: {"masala", "turmeric", "haldi", "chilli", "mirchi", "jeera",
				"cumin", "garam", "coriander powder", "hing", "cardamom", "clove"},
			CategoryFrozen:    {"frozen", "ice cream", "peas frozen", "kulfi"},
			CategoryHousehold: {"detergent", "soap bar", "phenyl", "broom", "scrubber",
				"dishwash", "agarbatti", "matchbox", "mosquito"},
			CategoryPersonal: {"shampoo", "toothpaste", "soap", "oil hair", "cream face",
				"talc", "razor", "sanitary"},
			CategoryBabyCare: {"diaper", "baby", "cerelac", "wipes"},
		},
	}
}

func (c *CategoryClassifier) Classify(name string) ItemCategory {
	nameLower := strings.ToLower(name)

	best := CategoryOther
	maxScore := 0
	for category, keywords := range c.keywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(nameLower, kw) {
				score++
			}
		}
		if score > maxScore {
			best = category
			maxScore = score
		}
	}
	return best
}

// defaultCatalog is used when no CSV catalog is provided
var defaultCatalog = []CatalogItem{
	{"Tata Salt 1kg", "Iodised salt", CategoryStaples, dec("28.00"), "8901058000101"},
	{"Aashirvaad Atta 5kg", "Whole wheat flour", CategoryStaples, dec("260.00"), "8901058000102"},
	{"Fortune Sunflower Oil 1L", "Refined sunflower oil", CategoryStaples, dec("155.00"), "8901058000103"},
	{"India Gate Basmati Rice 1kg", "Premium basmati rice", CategoryStaples, dec("145.00"), "8901058000104"},
	{"Toor Dal 1kg", "Unpolished toor dal", CategoryStaples, dec("160.00"), "8901058000105"},
	{"Amul Butter 500g", "Pasteurised butter", CategoryDairy, dec("295.00"), "8901058000201"},
	{"Amul Taaza Milk 1L", "Toned milk tetra pack", CategoryDairy, dec("72.00"), "8901058000202"},
	{"Amul Paneer 200g", "Fresh malai paneer", CategoryDairy, dec("95.00"), "8901058000203"},
	{"Nestle Dahi 400g", "Set curd cup", CategoryDairy, dec("50.00"), "8901058000204"},
	{"Parle-G 250g", "Glucose biscuits", CategorySnacks, dec("25.00"), "8901058000301"},
	{"Haldiram Bhujia 200g", "Aloo bhujia namkeen", CategorySnacks, dec("55.00"), "8901058000302"},
	{"Lays Magic Masala 52g", "Potato chips", CategorySnacks, dec("20.00"), "8901058000303"},
	{"Britannia Good Day 200g", "Butter cookies", CategorySnacks, dec("35.00"), "8901058000304"},
	{"Tata Tea Gold 500g", "Leaf tea blend", CategoryBeverages, dec("290.00"), "8901058000401"},
	{"Nescafe Classic 50g", "Instant coffee jar", CategoryBeverages, dec("185.00"), "8901058000402"},
	{"Real Mixed Fruit Juice 1L", "Fruit juice tetra pack", CategoryBeverages, dec("120.00"), "8901058000403"},
	{"MDH Garam Masala 100g", "Blended spice mix", CategorySpices, dec("82.00"), "8901058000501"},
	{"Everest Turmeric 200g", "Haldi powder", CategorySpices, dec("62.00"), "8901058000502"},
	{"Catch Jeera Powder 100g", "Ground cumin", CategorySpices, dec("58.00"), "8901058000503"},
	{"Britannia Bread 400g", "Sandwich white bread", CategoryBakery, dec("30.00"), "8901058000601"},
	{"Onion 1kg", "Fresh red onion", CategoryProduce, dec("35.00"), ""},
	{"Potato 1kg", "Fresh potato", CategoryProduce, dec("30.00"), ""},
	{"Tomato 1kg", "Fresh tomato", CategoryProduce, dec("40.00"), ""},
	{"McCain Frozen Fries 420g", "Frozen french fries", CategoryFrozen, dec("99.00"), "8901058000701"},
	{"Surf Excel 1kg", "Detergent powder", CategoryHousehold, dec("135.00"), "8901058000801"},
	{"Vim Dishwash Bar 200g", "Lemon dishwash bar", CategoryHousehold, dec("22.00"), "8901058000802"},
	{"Colgate Strong Teeth 200g", "Toothpaste", CategoryPersonal, dec("112.00"), "8901058000901"},
	{"Clinic Plus Shampoo 340ml", "Daily care shampoo", CategoryPersonal, dec("182.00"), "8901058000902"},
	{"Pampers Diapers M 20s", "Baby diaper pants", CategoryBabyCare, dec("349.00"), "8901058001001"},
	{"Nestle Cerelac Wheat 300g", "Infant cereal", CategoryBabyCare, dec("255.00"), "8901058001002"},
}

var defaultStores = []SeedStore{
	{"Sharma General Store", "14 MG Road, Indiranagar, Bengaluru 560038", "+919812345001", "7:00-22:00"},
	{"Gupta Kirana Bhandar", "221 Linking Road, Bandra West, Mumbai 400050", "+919812345002", "6:30-21:30"},
	{"Annapurna Provisions", "45 Anna Salai, T Nagar, Chennai 600017", "+919812345003", "7:00-21:00"},
}

// loadCatalogCSV reads a catalog file with columns:
// name,description,category,price,barcode
func loadCatalogCSV(path string, classifier *CategoryClassifier, logger *slog.Logger) ([]CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var items []CatalogItem
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row: %w", err)
		}
		line++

		// Skip header
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 4 {
			logger.Warn("skipping short catalog row", slog.Int("line", line))
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			logger.Warn("skipping row with bad price",
				slog.Int("line", line),
				slog.String("price", record[3]))
			continue
		}

		category := ItemCategory(strings.TrimSpace(record[2]))
		if category == "" {
			category = classifier.Classify(name)
		}

		barcode := ""
		if len(record) > 4 {
			barcode = strings.TrimSpace(record[4])
		}

		items = append(items, CatalogItem{
			Name:        name,
			Description: strings.TrimSpace(record[1]),
			Category:    category,
			Price:       price,
			Barcode:     barcode,
		})
	}

	logger.Info("loaded catalog", slog.String("file", path), slog.Int("items", len(items)))
	return items, nil
}

// Seeder writes seed data in batched transactions
type Seeder struct {
	db     *pgxpool.Pool
	rng    *rand.Rand
	logger *slog.Logger
}

func NewSeeder(db *pgxpool.Pool, seed int64, logger *slog.Logger) *Seeder {
	return &Seeder{
		db:     db,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// SeedUsers creates one owner per store plus a batch of customers.
// Returns owner ids and customer ids.
func (s *Seeder) SeedUsers(ctx context.Context, ownerCount, customerCount int) ([]uuid.UUID, []uuid.UUID, error) {
	batch := &pgx.Batch{}

	owners := make([]uuid.UUID, 0, ownerCount)
	for i := 0; i < ownerCount; i++ {
		id := uuid.New()
		owners = append(owners, id)
		batch.Queue(`
			INSERT INTO users (user_id, email, name, phone, role)
			VALUES ($1, $2, $3, $4, 'owner')
			ON CONFLICT (email) DO NOTHING`,
			id,
			fmt.Sprintf("owner%d@kiranakart.in", i+1),
			fmt.Sprintf("Store Owner %d", i+1),
			fmt.Sprintf("+9198000%05d", i+1),
		)
	}

	customers := make([]uuid.UUID, 0, customerCount)
	for i := 0; i < customerCount; i++ {
		id := uuid.New()
		customers = append(customers, id)
		batch.Queue(`
			INSERT INTO users (user_id, email, name, phone, role)
			VALUES ($1, $2, $3, $4, 'customer')
			ON CONFLICT (email) DO NOTHING`,
			id,
			fmt.Sprintf("customer%d@example.com", i+1),
			fmt.Sprintf("Customer %d", i+1),
			fmt.Sprintf("+9197000%05d", i+1),
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("failed to seed users: %w", err)
	}

	s.logger.Info("seeded users",
		slog.Int("owners", ownerCount),
		slog.Int("customers", customerCount))
	return owners, customers, nil
}

// SeedStores creates the stores, one per owner
func (s *Seeder) SeedStores(ctx context.Context, stores []SeedStore, owners []uuid.UUID) ([]uuid.UUID, error) {
	batch := &pgx.Batch{}

	ids := make([]uuid.UUID, 0, len(stores))
	for i, store := range stores {
		id := uuid.New()
		ids = append(ids, id)
		batch.Queue(`
			INSERT INTO stores (store_id, owner_id, name, address, contact, operating_hours)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, owners[i%len(owners)], store.Name, store.Address, store.Contact, store.OperatingHours,
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to seed stores: %w", err)
	}

	s.logger.Info("seeded stores", slog.Int("count", len(ids)))
	return ids, nil
}

// SeedInventory stocks every store with the catalog. Quantities are
// randomised and a few items start below their threshold so the
// low-stock views have something to show.
func (s *Seeder) SeedInventory(ctx context.Context, storeIDs []uuid.UUID, catalog []CatalogItem) (int, error) {
	total := 0

	for _, storeID := range storeIDs {
		batch := &pgx.Batch{}

		for _, item := range catalog {
			quantity := 10 + s.rng.Intn(90)
			threshold := 5 + s.rng.Intn(10)

			// Roughly one in eight items starts low or out of stock
			if s.rng.Intn(8) == 0 {
				quantity = s.rng.Intn(threshold + 1)
			}

			var barcode interface{}
			if item.Barcode != "" {
				barcode = item.Barcode
			}

			batch.Queue(`
				INSERT INTO inventory (
					item_id, store_id, name, description, category,
					price, quantity, low_stock_threshold, barcode, last_restocked
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				uuid.New(), storeID, item.Name, item.Description, item.Category,
				item.Price, quantity, threshold, barcode,
				time.Now().Add(-time.Duration(s.rng.Intn(14*24))*time.Hour),
			)
			total++
		}

		if err := s.sendBatch(ctx, batch); err != nil {
			return total, fmt.Errorf("failed to seed inventory for store %s: %w", storeID, err)
		}
	}

	s.logger.Info("seeded inventory", slog.Int("items", total))
	return total, nil
}

func (s *Seeder) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to execute batch statement: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	return tx.Commit(ctx)
}

// Truncate clears all seedable tables
func (s *Seeder) Truncate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		TRUNCATE subscriptions, notifications, payments, sales, orders,
		         inventory, stores, users CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	s.logger.Info("truncated existing data")
	return nil
}

func main() {
	var (
		catalogFile = flag.String("catalog", "", "CSV catalog file (name,description,category,price,barcode); built-in catalog when empty")
		storeCount  = flag.Int("stores", len(defaultStores), "Number of stores to create")
		customers   = flag.Int("customers", 25, "Number of customer accounts to create")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed for quantities")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Preview without modifying the database")
		truncate    = flag.Bool("truncate", false, "Clear existing data before seeding")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	classifier := NewCategoryClassifier()

	catalog := defaultCatalog
	if *catalogFile != "" {
		loaded, err := loadCatalogCSV(*catalogFile, classifier, logger)
		if err != nil {
			logger.Error("failed to load catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		catalog = loaded
	}

	stores := make([]SeedStore, 0, *storeCount)
	for i := 0; i < *storeCount; i++ {
		if i < len(defaultStores) {
			stores = append(stores, defaultStores[i])
			continue
		}
		stores = append(stores, SeedStore{
			Name:           fmt.Sprintf("Kirana Store %d", i+1),
			Address:        fmt.Sprintf("%d Market Road, Sector %d", i+1, i+1),
			Contact:        fmt.Sprintf("+9196000%05d", i+1),
			OperatingHours: "7:00-21:00",
		})
	}

	if *dryRun {
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("DRY RUN: seed plan")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("Stores:          %d\n", len(stores))
		fmt.Printf("Customers:       %d\n", *customers)
		fmt.Printf("Catalog items:   %d\n", len(catalog))
		fmt.Printf("Inventory rows:  %d\n", len(stores)*len(catalog))
		fmt.Println("\nNo changes were made to the database")
		return
	}

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "kirana"),
		getEnv("DB_PASSWORD", "kirana_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "kirana_kart"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Error("database unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	seeder := NewSeeder(db, *seed, logger)

	if *truncate {
		if err := seeder.Truncate(ctx); err != nil {
			logger.Error("truncate failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	owners, customerIDs, err := seeder.SeedUsers(ctx, len(stores), *customers)
	if err != nil {
		logger.Error("user seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storeIDs, err := seeder.SeedStores(ctx, stores, owners)
	if err != nil {
		logger.Error("store seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	itemCount, err := seeder.SeedInventory(ctx, storeIDs, catalog)
	if err != nil {
		logger.Error("inventory seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Owners:     %d\n", len(owners))
	fmt.Printf("Customers:  %d\n", len(customerIDs))
	fmt.Printf("Stores:     %d\n", len(storeIDs))
	fmt.Printf("Inventory:  %d items\n", itemCount)

	logger.Info("seed operation completed",
		slog.Int("stores", len(storeIDs)),
		slog.Int("items", itemCount))
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic("invalid decimal literal: " + v)
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
