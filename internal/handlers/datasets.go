package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

const maxUploadBytes = 10 << 20 // 10 MB

/* DatasetHandlers manages uploaded datasets. Rows arrive either as JSON or
 * as a CSV file; either way they are wrapped into a Dataset record for
 * table widgets to reference. */
type DatasetHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewDatasetHandlers(store *dashboard.Store, logger *logging.Logger) *DatasetHandlers {
	return &DatasetHandlers{store: store, logger: logger}
}

func (h *DatasetHandlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State().Datasets, http.StatusOK)
}

type datasetRequest struct {
	Name string                   `json:"name"`
	Rows []map[string]interface{} `json:"rows"`
}

func (h *DatasetHandlers) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid dataset: %w", err), nil)
		return
	}
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("dataset name is required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_dataset")
	id := h.store.AddDataset(req.Name, req.Rows)
	WriteSuccess(w, map[string]interface{}{"id": id, "rows": len(req.Rows)}, http.StatusCreated)
}

/* UploadDataset ingests a CSV file from a multipart form. The header row
 * becomes the column names; numeric cells are stored as numbers. */
func (h *DatasetHandlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err), nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err), nil)
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, ".csv")
	}

	rows, err := parseCSV(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("failed to parse CSV: %w", err), nil)
		return
	}

	metrics.RecordStoreOperation("add_dataset")
	id := h.store.AddDataset(name, rows)
	h.logger.Info("Dataset uploaded", map[string]interface{}{
		"dataset_id": id,
		"name":       name,
		"rows":       len(rows),
	})
	WriteSuccess(w, map[string]interface{}{"id": id, "name": name, "rows": len(rows)}, http.StatusCreated)
}

func (h *DatasetHandlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("remove_dataset")
	h.store.RemoveDataset(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func parseCSV(r io.Reader) ([]map[string]interface{}, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	var rows []map[string]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(headers))
		for i, col := range headers {
			if i >= len(record) {
				break
			}
			cell := record[i]
			if n, err := strconv.ParseFloat(cell, 64); err == nil && cell != "" {
				row[col] = n
			} else {
				row[col] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
