package workflow

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/aguo890/linesight/models"
)

func TestRequeryAfterLostInsertRaceUsesShareLock(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	var style models.Style
	stmt := requeryCommitted(context.Background(), db, &style,
		"business_id = ? AND factory_id = ? AND style_number = ?", "biz-1", 3, "ST-100").Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "FOR SHARE") {
		t.Fatalf("requery must be a locking read, got: %s", sql)
	}
	if !strings.Contains(sql, "style_number") {
		t.Fatalf("requery lost its predicate: %s", sql)
	}
}
