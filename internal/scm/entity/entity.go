package entity

import "gorm.io/gorm"

// AutoMigrate migrates every SCM table in dependency order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Supplier{},
		&Product{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
	)
}
