package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/aguo890/linesight/config"
	"github.com/aguo890/linesight/utils"
)

const batchUpdateTopic = "production-batch-updates"

// PublishBatchUpdated tells downstream consumers (analytics aggregation,
// dashboards) that a promotion changed production data. Best effort: a
// publish failure is logged and swallowed, the committed data stands.
func PublishBatchUpdated(ctx context.Context, businessId string, dataSourceId, importId int, result WriteResult) {
	logger := config.GetLogger()

	client, err := config.GetPubSubClient(ctx)
	if err != nil {
		config.LogError(logger, "workflow", "PublishBatchUpdated", "pubsub client", nil, err)
		return
	}
	topic, err := config.CreateTopicIfNotExists(client, batchUpdateTopic)
	if err != nil {
		config.LogError(logger, "workflow", "PublishBatchUpdated", "ensure topic", batchUpdateTopic, err)
		return
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	msg := config.BatchUpdateMessage{
		BusinessId:    businessId,
		DataSourceId:  dataSourceId,
		ImportId:      importId,
		Inserted:      result.Inserted,
		Updated:       result.Updated,
		Events:        result.Events,
		PromotedAt:    time.Now().UTC(),
		CorrelationId: correlationId,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		config.LogError(logger, "workflow", "PublishBatchUpdated", "marshal", msg, err)
		return
	}

	if _, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx); err != nil {
		config.LogError(logger, "workflow", "PublishBatchUpdated", "publish", msg, err)
		return
	}
	logger.WithFields(map[string]interface{}{
		"business_id":    businessId,
		"data_source_id": dataSourceId,
		"import_id":      importId,
		"events":         result.Events,
	}).Info("[workflow.notify] published batch update")
}

// InvalidateAnalyticsCache drops cached report payloads for the business so
// the next dashboard read reflects the new runs. Best effort.
func InvalidateAnalyticsCache(businessId string) {
	pattern := fmt.Sprintf("Report:%s:*", businessId)
	if err := config.RemoveRedisKeysByPattern(pattern); err != nil {
		config.LogError(config.GetLogger(), "workflow", "InvalidateAnalyticsCache", "remove keys", pattern, err)
	}
}
