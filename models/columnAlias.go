package models

import (
	"context"
	"errors"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ColumnAlias is a learned header mapping, created when a user corrects a
// fuzzy or LLM suggestion. Read-only afterwards except for the usage counter.
// Factory scope outranks organization scope, which outranks global.
// Unique constraint: (scope, scope_id, normalized_alias).
type ColumnAlias struct {
	ID              int        `gorm:"primary_key" json:"id"`
	Scope           AliasScope `gorm:"size:20;not null;index:uniq_alias,unique" json:"scope"`
	ScopeId         int        `gorm:"not null;index:uniq_alias,unique" json:"scope_id"`
	NormalizedAlias string     `gorm:"size:255;not null;index:uniq_alias,unique" json:"normalized_alias"`
	CanonicalField  string     `gorm:"size:100;not null" json:"canonical_field"`
	UsageCount      int        `gorm:"default:0" json:"usage_count"`
	CreatedBy       string     `gorm:"size:100" json:"created_by"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func IsDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func LoadAliases(ctx context.Context, db *gorm.DB, factoryId, organizationId int) ([]ColumnAlias, error) {
	var aliases []ColumnAlias
	err := db.WithContext(ctx).
		Where("(scope = ? AND scope_id = ?) OR (scope = ? AND scope_id = ?) OR scope = ?",
			AliasScopeFactory, factoryId,
			AliasScopeOrganization, organizationId,
			AliasScopeGlobal).
		Find(&aliases).Error
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// RecordAliasCorrection appends a learned alias. Two users correcting the
// same column concurrently race on the unique constraint; the loser requeries
// and returns the surviving row.
func RecordAliasCorrection(ctx context.Context, db *gorm.DB, scope AliasScope, scopeId int, normalizedAlias, canonicalField, createdBy string) (*ColumnAlias, error) {
	alias := ColumnAlias{
		Scope:           scope,
		ScopeId:         scopeId,
		NormalizedAlias: normalizedAlias,
		CanonicalField:  canonicalField,
		CreatedBy:       createdBy,
	}
	err := db.WithContext(ctx).Create(&alias).Error
	if err == nil {
		return &alias, nil
	}
	if !IsDuplicateKeyErr(err) {
		return nil, err
	}

	var existing ColumnAlias
	if err := db.WithContext(ctx).
		Where("scope = ? AND scope_id = ? AND normalized_alias = ?", scope, scopeId, normalizedAlias).
		Take(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// IncrementAliasUsage bumps the counter when a user confirms a suggestion
// that originated from this alias.
func IncrementAliasUsage(ctx context.Context, db *gorm.DB, aliasId int) error {
	return db.WithContext(ctx).Model(&ColumnAlias{}).
		Where("id = ?", aliasId).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
