package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aguo890/linesight/config"
	"github.com/aguo890/linesight/matching"
	"github.com/aguo890/linesight/models"
	"github.com/aguo890/linesight/utils"
)

const promotionLockTTL = 5 * time.Minute

// PromoteRequest carries everything one promotion needs. Mapping must be the
// confirmed, active mapping for the data source.
type PromoteRequest struct {
	ImportId     int
	FilePath     string
	BusinessId   string
	FactoryId    int
	DataSourceId int
	Mapping      *models.SchemaMapping

	// Progress, when set, is called with a stage name as the pipeline
	// advances. UI feedback only, no cancellation semantics.
	Progress func(stage string)
}

func (r PromoteRequest) report(stage string) {
	if r.Progress != nil {
		r.Progress(stage)
	}
}

// PromotionResult reports what one promotion did. ColumnResults echoes the
// applied mapping in the same shape the suggestion flow emits, so clients
// render one structure for both paths.
type PromotionResult struct {
	Status        string                       `json:"status"` // promoted | already_promoted
	Inserted      int                          `json:"inserted"`
	Updated       int                          `json:"updated"`
	Events        int                          `json:"events"`
	Errors        int                          `json:"errors"`
	Issues        []TransformIssue             `json:"issues,omitempty"`
	ColumnResults []matching.ColumnMatchResult `json:"column_results,omitempty"`
}

// confirmedColumnResults renders a confirmed mapping as per-column results:
// every mapped column at confidence 1.0, empty targets as ignored.
func confirmedColumnResults(columnMap models.ColumnMap) []matching.ColumnMatchResult {
	sources := make([]string, 0, len(columnMap))
	for source := range columnMap {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	results := make([]matching.ColumnMatchResult, 0, len(sources))
	for _, source := range sources {
		target := columnMap[source]
		if target == "" {
			results = append(results, matching.ColumnMatchResult{
				SourceColumn: source,
				Reasoning:    utils.NewString("ignored by confirmed mapping"),
				Ignored:      true,
			})
			continue
		}
		results = append(results, matching.ColumnMatchResult{
			SourceColumn: source,
			TargetField:  utils.NewString(target),
			Confidence:   1.0,
			Tier:         models.MatchTierHash,
			Reasoning:    utils.NewString("confirmed mapping"),
		})
	}
	return results
}

// PromoteImport runs the full pipeline for one import: read the file, apply
// the mapping, resolve parents, validate physics, write differentially, mark
// the import promoted. The whole write is one transaction; any error rolls
// everything back and marks the import FAILED. Re-promoting a PROMOTED
// import returns already_promoted without touching production data.
func PromoteImport(ctx context.Context, db *gorm.DB, req PromoteRequest) (*PromotionResult, error) {
	logger := config.GetLogger()

	imp, err := models.GetDataImport(ctx, db, req.ImportId)
	if err != nil {
		return nil, fmt.Errorf("load import %d: %w", req.ImportId, err)
	}
	if imp.Status == models.ImportStatusPromoted {
		logger.WithFields(logrus.Fields{
			"import_id":      req.ImportId,
			"data_source_id": req.DataSourceId,
		}).Info("[workflow.promote] import already promoted, skipping")
		return &PromotionResult{Status: "already_promoted"}, nil
	}
	if req.Mapping == nil || len(req.Mapping.Columns) == 0 {
		return nil, fmt.Errorf("import %d has no confirmed column mapping", req.ImportId)
	}

	// Serialize promotions per data source. Best effort: if redis is down the
	// database unique constraint on runs still prevents duplicates.
	if locker := config.GetRedisLock(); locker != nil {
		lockKey := fmt.Sprintf("promote:ds:%d", req.DataSourceId)
		lock, lockErr := locker.Obtain(ctx, lockKey, promotionLockTTL, nil)
		switch lockErr {
		case nil:
			defer lock.Release(ctx)
		case redislock.ErrNotObtained:
			return nil, fmt.Errorf("another promotion is running for data source %d", req.DataSourceId)
		default:
			logger.WithError(lockErr).Warn("[workflow.promote] lock unavailable, relying on unique constraint")
		}
	}

	req.report("reading")
	headers, rows, err := ReadTabularFile(ctx, req.FilePath)
	if err != nil {
		_ = models.MarkImportFailed(ctx, db, req.ImportId, err)
		return nil, fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	req.report("transforming")
	records, issues := TransformRows(headers, rows, req.Mapping.Columns, TimeFormat(req.Mapping.TimeFormat))
	for _, w := range ValidateProductionPhysics(records) {
		issues = append(issues, TransformIssue{
			RowNumber: w.RowNumber,
			IssueType: w.IssueType,
			Severity:  w.Severity,
			Message:   w.Message,
		})
	}

	var writeResult WriteResult
	err = db.Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction: a concurrent promotion may have
		// finished between our read and here.
		current, err := models.GetDataImport(ctx, tx, req.ImportId)
		if err != nil {
			return err
		}
		if current.Status == models.ImportStatusPromoted {
			writeResult = WriteResult{}
			return errAlreadyPromoted
		}

		req.report("resolving")
		styles, err := ResolveStyles(ctx, tx, records, req.BusinessId, req.FactoryId)
		if err != nil {
			return fmt.Errorf("resolve styles: %w", err)
		}
		orders, err := ResolveOrders(ctx, tx, records, styles, req.BusinessId)
		if err != nil {
			return fmt.Errorf("resolve orders: %w", err)
		}
		existing, err := ResolveExistingRuns(ctx, tx, runKeysFor(records, styles, orders), req.DataSourceId)
		if err != nil {
			return fmt.Errorf("resolve runs: %w", err)
		}

		req.report("writing")
		result, writeIssues, err := WriteRecords(ctx, tx, WriteBatch{
			BusinessId:   req.BusinessId,
			DataSourceId: req.DataSourceId,
			ImportId:     req.ImportId,
			Records:      records,
			Styles:       styles,
			Orders:       orders,
			ExistingRuns: existing,
		})
		issues = append(issues, writeIssues...)
		if err != nil {
			return err
		}
		writeResult = result

		if err := models.MarkImportPromoted(ctx, tx, req.ImportId, result.Inserted, result.Updated, result.Events, result.Errors); err != nil {
			return fmt.Errorf("mark promoted: %w", err)
		}
		return persistIssues(ctx, tx, req.ImportId, issues)
	})
	if err == errAlreadyPromoted {
		return &PromotionResult{
			Status:        "already_promoted",
			ColumnResults: confirmedColumnResults(req.Mapping.Columns),
		}, nil
	}
	if err != nil {
		_ = models.MarkImportFailed(ctx, db, req.ImportId, err)
		return nil, err
	}

	if writeResult.Events > 0 {
		PublishBatchUpdated(ctx, req.BusinessId, req.DataSourceId, req.ImportId, writeResult)
		InvalidateAnalyticsCache(req.BusinessId)
	}

	logger.WithFields(logrus.Fields{
		"import_id":      req.ImportId,
		"data_source_id": req.DataSourceId,
		"rows":           len(records),
		"inserted":       writeResult.Inserted,
		"updated":        writeResult.Updated,
		"events":         writeResult.Events,
		"issues":         len(issues),
	}).Info("[workflow.promote] import promoted")

	req.report("promoted")
	return &PromotionResult{
		Status:        "promoted",
		Inserted:      writeResult.Inserted,
		Updated:       writeResult.Updated,
		Events:        writeResult.Events,
		Errors:        writeResult.Errors,
		Issues:        issues,
		ColumnResults: confirmedColumnResults(req.Mapping.Columns),
	}, nil
}

var errAlreadyPromoted = fmt.Errorf("import already promoted")

func runKeysFor(records []ParsedRecord, styles map[string]models.Style, orders map[OrderKey]models.ProductionOrder) []models.RunKey {
	var keys []models.RunKey
	for _, rec := range records {
		date, ok := rec.Date("production_date")
		if !ok {
			continue
		}
		style, ok := styles[rec.String("style_number")]
		if !ok {
			continue
		}
		order, ok := orders[OrderKey{PONumber: rec.String("po_number"), StyleId: style.ID}]
		if !ok {
			continue
		}
		shift := strings.ToUpper(rec.String("shift"))
		if shift == "" {
			shift = "DAY"
		}
		keys = append(keys, models.NewRunKey(order.ID, date, shift))
	}
	return keys
}

func persistIssues(ctx context.Context, tx *gorm.DB, importId int, issues []TransformIssue) error {
	if len(issues) == 0 {
		return nil
	}
	rows := make([]models.DataQualityIssue, len(issues))
	for i, issue := range issues {
		rows[i] = models.DataQualityIssue{
			ImportId:  importId,
			RowNumber: issue.RowNumber,
			IssueType: issue.IssueType,
			Severity:  issue.Severity,
			Message:   issue.Message,
		}
	}
	return tx.WithContext(ctx).CreateInBatches(rows, childInsertBatchSize).Error
}
