package handlers

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LenkaChandini/PyBioMed/data"
	"github.com/LenkaChandini/PyBioMed/getmol"
	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/health"
	"github.com/go-chi/chi/v5"
)

const waterMolBlock = `Water
  getmol

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
    0.7570    0.5860    0.0000 H   0  0  0  0  0  0  0  0  0  0  0  0
   -0.7570    0.5860    0.0000 H   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  1  3  1  0
M  END
`

const pubchemWaterSDF = waterMolBlock + `> <PUBCHEM_SMILES>
O

> <PUBCHEM_IUPAC_INCHI>
InChI=1S/H2O/h1H2

$$$$
`

func upstreamClient(t *testing.T, handler http.HandlerFunc) *getmol.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := getmol.NewClient(5 * time.Second)
	client.CASBaseURL = server.URL
	client.PubChemBaseURL = server.URL
	client.DrugBankBaseURL = server.URL
	client.KEGGBaseURL = server.URL
	return client
}

func doConvert(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/convert", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Convert()(rec, req)
	return rec
}

func TestConvertSmiles(t *testing.T) {
	rec := doConvert(t, `{"format":"smiles","data":"CCO"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var mol entities.Molecule
	if err := json.Unmarshal(rec.Body.Bytes(), &mol); err != nil {
		t.Fatalf("response is not a molecule: %v", err)
	}
	if mol.AtomCount() != 3 {
		t.Errorf("atom count = %d, want 3", mol.AtomCount())
	}
}

func TestConvertInchi(t *testing.T) {
	rec := doConvert(t, `{"format":"inchi","data":"InChI=1S/H2O/h1H2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestConvertSDFReturnsList(t *testing.T) {
	body, err := json.Marshal(ConvertRequest{Format: "sdf", Data: pubchemWaterSDF})
	if err != nil {
		t.Fatal(err)
	}

	rec := doConvert(t, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var mols []entities.Molecule
	if err := json.Unmarshal(rec.Body.Bytes(), &mols); err != nil {
		t.Fatalf("response is not a molecule list: %v", err)
	}
	if len(mols) != 1 {
		t.Fatalf("expected 1 molecule, got %d", len(mols))
	}
}

func TestConvertRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{"format":`, http.StatusBadRequest},
		{"missing data", `{"format":"smiles","data":"  "}`, http.StatusBadRequest},
		{"unknown format", `{"format":"pdb","data":"x"}`, http.StatusBadRequest},
		{"unparseable smiles", `{"format":"smiles","data":"C(("}`, http.StatusUnprocessableEntity},
		{"unparseable inchi", `{"format":"inchi","data":"not-an-inchi"}`, http.StatusUnprocessableEntity},
		{"unparseable sdf", `{"format":"sdf","data":"garbage\n$$$$\n"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doConvert(t, tc.body)
			if rec.Code != tc.code {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.code, rec.Body.String())
			}
		})
	}
}

func moleculeRouter(client *getmol.Client, store *data.StatusContainer) *chi.Mux {
	router := chi.NewRouter()
	timeout := 5 * time.Second
	router.Get("/molecule/cas/{casID}", FetchCAS(client, store, timeout))
	router.Get("/molecule/pubchem/{cid}", FetchPubChem(client, store, timeout))
	router.Get("/molecule/drugbank/{dbID}", FetchDrugBank(client, store, timeout))
	router.Get("/molecule/kegg/{keggID}", FetchKEGG(client, store, timeout))
	return router
}

func TestFetchPubChemRoute(t *testing.T) {
	client := upstreamClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pubchemWaterSDF))
	})
	store := data.NewStatusContainer()
	router := moleculeRouter(client, store)

	req := httptest.NewRequest("GET", "/molecule/pubchem/962", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var structure entities.Structure
	if err := json.Unmarshal(rec.Body.Bytes(), &structure); err != nil {
		t.Fatalf("response is not a structure: %v", err)
	}
	if structure.SMILES != "O" {
		t.Errorf("smiles = %q, want O", structure.SMILES)
	}
	if structure.Source != entities.SourcePubChem {
		t.Errorf("source = %q, want pubchem", structure.Source)
	}

	total, failed := store.FetchCounts()
	if total != 1 || failed != 0 {
		t.Errorf("fetch counts = %d/%d, want 1/0", total, failed)
	}
}

func TestFetchRouteRejectsBadAccession(t *testing.T) {
	client := upstreamClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call should happen for an invalid accession")
	})
	router := moleculeRouter(client, data.NewStatusContainer())

	paths := []string{
		"/molecule/pubchem/not-a-cid",
		"/molecule/cas/50-12-5",
		"/molecule/drugbank/XX123",
		"/molecule/kegg/Z00001",
	}
	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestFetchRouteNotFound(t *testing.T) {
	client := upstreamClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	store := data.NewStatusContainer()
	router := moleculeRouter(client, store)

	req := httptest.NewRequest("GET", "/molecule/drugbank/DB99999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}

	total, failed := store.FetchCounts()
	if total != 1 || failed != 1 {
		t.Errorf("fetch counts = %d/%d, want 1/1", total, failed)
	}
}

func TestFetchRouteUpstreamFailure(t *testing.T) {
	client := upstreamClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	router := moleculeRouter(client, data.NewStatusContainer())

	req := httptest.NewRequest("GET", "/molecule/kegg/C00001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
}

func TestServeSources(t *testing.T) {
	store := data.NewStatusContainer()
	store.UpdateStatuses(map[entities.Source]entities.SourceStatus{
		entities.SourceCAS:      {Source: entities.SourceCAS, Reachable: true},
		entities.SourcePubChem:  {Source: entities.SourcePubChem, Reachable: true},
		entities.SourceDrugBank: {Source: entities.SourceDrugBank, Reachable: false, Error: "timeout"},
		entities.SourceKEGG:     {Source: entities.SourceKEGG, Reachable: true},
	})

	req := httptest.NewRequest("GET", "/sources", nil)
	rec := httptest.NewRecorder()
	ServeSources(store)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var response struct {
		LastProbe string                  `json:"last_probe"`
		Probing   bool                    `json:"probing"`
		Sources   []entities.SourceStatus `json:"sources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if len(response.Sources) != 4 {
		t.Fatalf("expected 4 sources, got %d", len(response.Sources))
	}
	// Stable ordering: cas, pubchem, drugbank, kegg
	if response.Sources[0].Source != entities.SourceCAS {
		t.Errorf("first source = %q, want cas", response.Sources[0].Source)
	}
	if response.Sources[2].Error != "timeout" {
		t.Errorf("drugbank error = %q, want timeout", response.Sources[2].Error)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	store := data.NewStatusContainer()
	store.UpdateStatuses(map[entities.Source]entities.SourceStatus{
		entities.SourcePubChem: {Source: entities.SourcePubChem, Reachable: true},
	})
	checker := health.NewHealthChecker(store, 15*time.Minute)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	HealthCheck(checker, store)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("status = %q, want healthy", response.Status)
	}
	if response.System["goroutines"] == nil {
		t.Error("system block should carry goroutine count")
	}
}

func TestRespondWithJSONCompression(t *testing.T) {
	big := map[string]string{"data": strings.Repeat("x", 4096)}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, req, http.StatusOK, big)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("large response should be gzipped when the client accepts it")
	}

	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("body is not valid gzip: %v", err)
	}
	decoded, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("failed to decompress body: %v", err)
	}
	if !strings.Contains(string(decoded), "xxxx") {
		t.Error("decompressed body lost its payload")
	}

	// Small responses stay uncompressed
	rec = httptest.NewRecorder()
	RespondWithJSON(rec, req, http.StatusOK, map[string]string{"ok": "yes"})
	if rec.Header().Get("Content-Encoding") == "gzip" {
		t.Error("small response should not be compressed")
	}
}
