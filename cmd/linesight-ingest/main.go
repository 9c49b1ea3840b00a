package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/aguo890/linesight/config"
	"github.com/aguo890/linesight/matching"
	"github.com/aguo890/linesight/models"
	"github.com/aguo890/linesight/utils"
	"github.com/aguo890/linesight/workflow"
)

// Operator tool for running ingestion by hand: suggest a mapping for a file,
// or promote a pending import using its data source's active mapping.
func main() {
	mode := flag.String("mode", "promote", "suggest | promote")
	businessID := flag.String("business-id", "", "Required: business id")
	factoryID := flag.Int("factory-id", 0, "Required: factory id")
	dataSourceID := flag.Int("data-source-id", 0, "Required: data source id")
	importID := flag.Int("import-id", 0, "Import id (promote mode)")
	filePath := flag.String("file", "", "Required: path or gs:// URI of the source file")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" || *dataSourceID == 0 || strings.TrimSpace(*filePath) == "" {
		fmt.Fprintln(os.Stderr, "--business-id, --data-source-id and --file are required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	config.ConnectRedis()

	ctx := utils.SetBusinessIdInContext(context.Background(), *businessID)
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	switch *mode {
	case "suggest":
		svc, err := matching.NewHTTPReasoningService()
		if err != nil {
			// fuzzy and alias tiers still work without the reasoning service
			fmt.Fprintf(os.Stderr, "reasoning service disabled: %v\n", err)
			svc = nil
		}
		suggestion, err := workflow.SuggestMapping(ctx, db, *filePath, matching.ScopeIDs{
			FactoryID:      *factoryID,
			OrganizationID: *factoryID,
		}, svc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suggest failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(suggestion)

	case "promote":
		if *importID == 0 {
			fmt.Fprintln(os.Stderr, "--import-id is required in promote mode")
			os.Exit(1)
		}
		ctx = utils.SetImportIdInContext(ctx, *importID)
		mapping, err := models.GetActiveMapping(ctx, db, *businessID, *dataSourceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "no active mapping for data source %d: %v\n", *dataSourceID, err)
			os.Exit(1)
		}
		result, err := workflow.PromoteImport(ctx, db, workflow.PromoteRequest{
			ImportId:     *importID,
			FilePath:     *filePath,
			BusinessId:   *businessID,
			FactoryId:    *factoryID,
			DataSourceId: *dataSourceID,
			Mapping:      mapping,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "promote failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
