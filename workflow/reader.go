package workflow

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/xuri/excelize/v2"
)

// ReadTabularFile reads headers plus data rows from an .xlsx or .csv file.
// Paths of the form gs://bucket/key are fetched from object storage into a
// temp file first; local paths are read directly.
func ReadTabularFile(ctx context.Context, path string) ([]string, [][]string, error) {
	localPath := path
	if strings.HasPrefix(path, "gs://") {
		fetched, cleanup, err := fetchGCSObject(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		defer cleanup()
		localPath = fetched
	}

	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".xlsx", ".xlsm":
		return readExcel(localPath)
	case ".csv":
		return readCSV(localPath)
	default:
		return nil, nil, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(localPath))
	}
}

func readExcel(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("sheet is empty")
	}
	return rows[0], rows[1:], nil
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are common in exports

	var headers []string
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if headers == nil {
			headers = record
			continue
		}
		rows = append(rows, record)
	}
	if headers == nil {
		return nil, nil, errors.New("csv file is empty")
	}
	return headers, rows, nil
}

// fetchGCSObject downloads gs://bucket/key to a temp file and returns its
// path plus a cleanup func.
func fetchGCSObject(ctx context.Context, uri string) (string, func(), error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	slash := strings.IndexByte(trimmed, '/')
	if slash <= 0 || slash == len(trimmed)-1 {
		return "", nil, fmt.Errorf("invalid object uri %q", uri)
	}
	bucket, key := trimmed[:slash], trimmed[slash+1:]

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return "", nil, err
	}
	defer client.Close()

	reader, err := client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("open gs://%s/%s: %w", bucket, key, err)
	}
	defer reader.Close()

	tmp, err := os.CreateTemp("", "linesight-import-*"+filepath.Ext(key))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}
