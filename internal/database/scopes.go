package database

import (
	"strings"

	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows belonging to userID.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Limit caps the number of rows; zero means no limit.
func Limit(limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}

// SearchCompanyOrTitle applies a case-insensitive substring match over
// company and job title. LOWER + LIKE behaves the same on postgres, mysql and sqlite.
func SearchCompanyOrTitle(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		return db.Where("(LOWER(company) LIKE ? OR LOWER(job_title) LIKE ?)", pattern, pattern)
	}
}
