package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type MatchTier string

const (
	MatchTierHash      MatchTier = "HASH"
	MatchTierFuzzy     MatchTier = "FUZZY"
	MatchTierLLM       MatchTier = "LLM"
	MatchTierUnmatched MatchTier = "UNMATCHED"
)

type AliasScope string

const (
	AliasScopeFactory      AliasScope = "FACTORY"
	AliasScopeOrganization AliasScope = "ORGANIZATION"
	AliasScopeGlobal       AliasScope = "GLOBAL"
)

func (s AliasScope) Value() (driver.Value, error) {
	switch s {
	case AliasScopeFactory, AliasScopeOrganization, AliasScopeGlobal:
		return string(s), nil
	}
	return nil, fmt.Errorf("invalid alias scope %q", string(s))
}

func (s *AliasScope) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = AliasScope(v)
	case []byte:
		*s = AliasScope(v)
	default:
		return errors.New("alias scope must be string")
	}
	return nil
}

type ImportStatus string

const (
	ImportStatusPending  ImportStatus = "PENDING"
	ImportStatusMapped   ImportStatus = "MAPPED"
	ImportStatusPromoted ImportStatus = "PROMOTED"
	ImportStatusFailed   ImportStatus = "FAILED"
)

type IssueSeverity string

const (
	IssueSeverityWarning  IssueSeverity = "WARNING"
	IssueSeverityCritical IssueSeverity = "CRITICAL"
)

type EventType string

const (
	EventTypeInitial    EventType = "INITIAL"
	EventTypeAdjustment EventType = "ADJUSTMENT"
)

type InspectionType string

const (
	InspectionTypeEndline InspectionType = "ENDLINE"
)
