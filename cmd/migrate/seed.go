package main

import (
	"database/sql"
	"fmt"
	"os"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedAdmin struct {
	Name     string
	Email    string
	Password string
}

type seedProduct struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Image       string
}

var sampleProducts = []seedProduct{
	{"Fresh Milk", "Pure and fresh cow milk, rich in nutrients", "Dairy", decimal.NewFromInt(60), 100, "milk.jpg"},
	{"Paneer", "Fresh homemade paneer, perfect for cooking", "Dairy", decimal.NewFromInt(250), 50, "paneer.jpg"},
	{"Butter", "Creamy fresh butter made from pure milk", "Dairy", decimal.NewFromInt(120), 75, "butter.jpg"},
	{"Yogurt", "Thick and creamy yogurt, naturally fermented", "Dairy", decimal.NewFromInt(45), 80, "yogurt.jpg"},
	{"Cheese", "Artisanal cheese with rich flavor", "Dairy", decimal.NewFromInt(300), 30, "cheese.jpg"},
}

func seedAdminFromEnv() seedAdmin {
	a := seedAdmin{
		Name:     os.Getenv("SEED_ADMIN_NAME"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	if a.Name == "" {
		a.Name = "Admin"
	}
	if a.Email == "" {
		a.Email = "admin@sudhamrit.com"
	}
	if a.Password == "" {
		a.Password = "admin123"
	}
	return a
}

// seed inserts the sample admin and catalog. It is safe to run repeatedly:
// an existing admin is kept and products are only added to an empty catalog.
func seed(database *sql.DB, admin seedAdmin) error {
	log := logger.L()

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	res, err := database.Exec(`
		INSERT INTO admins (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, admin.Name, admin.Email, hash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Info("sample admin already exists", zap.String("email", admin.Email))
	} else {
		log.Info("sample admin created", zap.String("email", admin.Email))
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Info("catalog not empty, skipping sample products", zap.Int("products", count))
		return nil
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	for _, p := range sampleProducts {
		if _, err := tx.Exec(`
			INSERT INTO products (name, description, category, price, stock, image)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.Name, p.Description, p.Category, p.Price, p.Stock, p.Image); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("sample products added", zap.Int("count", len(sampleProducts)))
	return nil
}
