package utils

import (
	"errors"

	"gorm.io/gorm"
)

// ErrorRecordNotFound is the storage-agnostic not-found sentinel. Loaders
// translate gorm's error into this so callers never import gorm to check it.
var ErrorRecordNotFound = errors.New("record not found")

// TranslateGormError maps gorm.ErrRecordNotFound (wrapped or not) onto the
// shared sentinel; every other error passes through unchanged.
func TranslateGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorRecordNotFound
	}
	return err
}
