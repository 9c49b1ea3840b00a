package utils

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateGormError(t *testing.T) {
	if got := TranslateGormError(gorm.ErrRecordNotFound); got != ErrorRecordNotFound {
		t.Fatalf("got %v, want the shared sentinel", got)
	}

	wrapped := fmt.Errorf("load import 42: %w", gorm.ErrRecordNotFound)
	if got := TranslateGormError(wrapped); got != ErrorRecordNotFound {
		t.Fatalf("wrapped not-found = %v, want the shared sentinel", got)
	}

	other := errors.New("connection refused")
	if got := TranslateGormError(other); got != other {
		t.Fatalf("unrelated error rewritten to %v", got)
	}

	if got := TranslateGormError(nil); got != nil {
		t.Fatalf("nil rewritten to %v", got)
	}
}
