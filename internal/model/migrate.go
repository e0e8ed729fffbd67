package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Brand{},
		&CodeBatch{},
		&ProductCode{},
		&VerificationAttempt{},
		&CounterfeitReport{},
		&AdminUser{},
	); err != nil {
		return err
	}

	// Case-insensitive unique brand prefix for non-soft-deleted brands.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_brands_prefix_upper " +
			"ON brands ((upper(prefix))) WHERE deleted_at IS NULL",
	).Error; err != nil {
		return err
	}

	// Hot path for per-batch status aggregation on the admin dashboard.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_product_codes_batch_status " +
			"ON product_codes (batch_id, status)",
	).Error
}
