// Package handlers provides the HTTP handlers for the molecule fetch
// service: one fetch endpoint per upstream database, a local conversion
// endpoint, source availability and health.
package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol"
	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/interfaces"
	"github.com/LenkaChandini/PyBioMed/logging"
	"github.com/LenkaChandini/PyBioMed/metrics"
	"github.com/LenkaChandini/PyBioMed/validation"
	"github.com/go-chi/chi/v5"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

var validator = validation.NewAccessionValidator()

// RespondWithJSON writes a JSON response, gzipped when it is big enough
// and the client accepts it.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	shouldCompress := len(data) >= compressionThreshold &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")

	if shouldCompress {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := gz.Write(data); err != nil {
			logging.Error("Failed to write compressed response", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Error("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error body.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	jsonResponse, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonResponse); err != nil {
		logging.Error("Failed to write error response", "error", err)
	}
}

type fetchFunc func(ctx context.Context, c *getmol.Client, id string) (*entities.Structure, error)

// serveFetch is the shared fetch path: validated accession in, one
// upstream call under a hard timeout, normalized structure out.
func serveFetch(w http.ResponseWriter, r *http.Request, client *getmol.Client,
	store interfaces.StatusStore, source entities.Source, accession string,
	fetch fetchFunc, timeout time.Duration) {

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	start := time.Now()
	structure, err := fetch(ctx, client, accession)
	metrics.MoleculeFetchDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())

	store.RecordFetch(source, err == nil)

	if err != nil {
		metrics.MoleculeFetchTotals.WithLabelValues(string(source), "error").Inc()
		logging.Warn("Structure fetch failed", "source", source, "accession", accession, "error", err)

		switch {
		case errors.Is(err, getmol.ErrNotFound), errors.Is(err, getmol.ErrNoStructure):
			RespondWithError(w, http.StatusNotFound,
				fmt.Sprintf("No structure found for %s in %s", accession, source))
		case errors.Is(err, context.DeadlineExceeded):
			RespondWithError(w, http.StatusGatewayTimeout,
				fmt.Sprintf("Fetch from %s timed out", source))
		default:
			RespondWithError(w, http.StatusBadGateway,
				fmt.Sprintf("Fetch from %s failed", source))
		}
		return
	}

	metrics.MoleculeFetchTotals.WithLabelValues(string(source), "success").Inc()
	RespondWithJSON(w, r, http.StatusOK, structure)
}

// FetchCAS handles GET /molecule/cas/{casID}.
func FetchCAS(client *getmol.Client, store interfaces.StatusStore, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		casID, err := validator.ValidateCAS(chi.URLParam(r, "casID"))
		if err != nil {
			logging.Warn("Unusual user input", "casID", chi.URLParam(r, "casID"))
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		serveFetch(w, r, client, store, entities.SourceCAS, casID, getmol.FetchFromCAS, timeout)
	}
}

// FetchPubChem handles GET /molecule/pubchem/{cid}.
func FetchPubChem(client *getmol.Client, store interfaces.StatusStore, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cid, err := validator.ValidateCID(chi.URLParam(r, "cid"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		serveFetch(w, r, client, store, entities.SourcePubChem, cid, getmol.FetchFromPubChem, timeout)
	}
}

// FetchDrugBank handles GET /molecule/drugbank/{dbID}.
func FetchDrugBank(client *getmol.Client, store interfaces.StatusStore, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbID, err := validator.ValidateDrugBankID(chi.URLParam(r, "dbID"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		serveFetch(w, r, client, store, entities.SourceDrugBank, dbID, getmol.FetchFromDrugBank, timeout)
	}
}

// FetchKEGG handles GET /molecule/kegg/{keggID}.
func FetchKEGG(client *getmol.Client, store interfaces.StatusStore, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keggID, err := validator.ValidateKEGGID(chi.URLParam(r, "keggID"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		serveFetch(w, r, client, store, entities.SourceKEGG, keggID, getmol.FetchFromKEGG, timeout)
	}
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

// Convert handles POST /convert: parse a structure string in the given
// format and return the normalized molecule(s).
func Convert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Data) == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing data")
			return
		}

		switch strings.ToLower(strings.TrimSpace(req.Format)) {
		case "smiles":
			respondMolecule(w, r, func() (any, error) {
				mol, err := getmol.ReadMolFromSmiles(req.Data)
				return mol, err
			})
		case "inchi":
			respondMolecule(w, r, func() (any, error) {
				mol, err := getmol.ReadMolFromInchi(req.Data)
				return mol, err
			})
		case "mol":
			respondMolecule(w, r, func() (any, error) {
				mol, err := getmol.ParseMolBlock(req.Data)
				return mol, err
			})
		case "sdf":
			respondMolecule(w, r, func() (any, error) {
				mols, err := getmol.ParseSDF(strings.NewReader(req.Data))
				return mols, err
			})
		default:
			RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Unknown format %q, expected smiles, inchi, mol or sdf", req.Format))
		}
	}
}

// respondMolecule maps parse failures to 422, everything parseable to 200.
func respondMolecule(w http.ResponseWriter, r *http.Request, parse func() (any, error)) {
	result, err := parse()
	if err != nil {
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	RespondWithJSON(w, r, http.StatusOK, result)
}

// ServeSources handles GET /sources with the latest probe results.
func ServeSources(store interfaces.StatusStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := store.GetStatuses()

		// Stable order for clients
		ordered := make([]entities.SourceStatus, 0, len(statuses))
		for _, source := range entities.Sources() {
			if status, ok := statuses[source]; ok {
				ordered = append(ordered, status)
			}
		}

		response := map[string]any{
			"last_probe": store.GetLastProbe().Format(time.RFC3339),
			"probing":    store.IsProbing(),
			"sources":    ordered,
		}

		RespondWithJSON(w, r, http.StatusOK, response)
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// HealthCheck handles GET /health.
func HealthCheck(checker interfaces.HealthChecker, store interfaces.StatusStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		status, data, httpStatus := checker.HealthCheck()

		response := HealthResponse{
			Status:        status,
			UptimeSeconds: time.Since(store.GetServerStartTime()).Seconds(),
			Data:          data,
			System: map[string]any{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]any{
					"alloc_mb":       int(m.Alloc / 1024 / 1024),
					"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
					"sys_mb":         int(m.Sys / 1024 / 1024),
					"num_gc":         m.NumGC,
				},
			},
		}

		RespondWithJSON(w, r, httpStatus, response)
	}
}
