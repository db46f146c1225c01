package database

import (
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

func defaultUsers() []models.User {
	return []models.User{
		{ID: "1", Username: "admin", Password: "admin123", Name: "Admin User", Role: models.RoleAdmin},
		{ID: "2", Username: "cashier", Password: "cashier123", Name: "Cashier User", Role: models.RoleCashier},
	}
}

func defaultProducts() []models.Product {
	return []models.Product{
		sampleProduct("1", "Milk", "8901234567890", "Dairy", "2.99", "1.99", 50, 10, "bottle"),
		sampleProduct("2", "Bread", "7890123456789", "Bakery", "1.99", "0.99", 30, 5, "loaf"),
		sampleProduct("3", "Eggs", "6789012345678", "Dairy", "3.49", "2.49", 40, 8, "dozen"),
		sampleProduct("4", "Cheese", "5678901234567", "Dairy", "4.99", "3.49", 25, 5, "pack"),
		sampleProduct("5", "Apple", "4567890123456", "Fruits", "0.99", "0.49", 100, 20, "piece"),
	}
}

func sampleProduct(id, name, barcode, category, price, cost string, stock, minStock int, unit string) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Barcode:   barcode,
		Category:  category,
		Price:     decimal.RequireFromString(price),
		CostPrice: decimal.RequireFromString(cost),
		Stock:     stock,
		MinStock:  minStock,
		Unit:      unit,
	}
}
