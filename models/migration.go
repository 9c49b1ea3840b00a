package models

import (
	"log"

	"github.com/aguo890/linesight/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Style{}, &ProductionOrder{},
		&ProductionRun{}, &ProductionEvent{}, &EfficiencyMetric{}, &QualityInspection{},
		&DataImport{}, &SchemaMapping{}, &ColumnAlias{}, &DataQualityIssue{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
