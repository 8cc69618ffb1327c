package models

import "github.com/pitangasoft/compras_backend/config"

func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Branch{},
		&Product{},
		&PurchaseOrder{},
		&Supplier{},
	)
}
