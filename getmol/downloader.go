package getmol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/logging"
	"golang.org/x/text/encoding/charmap"
)

// Upstream responses are capped to keep a misbehaving source from
// exhausting memory. Structure files are tiny; pages are small.
const maxResponseBytes = 8 * 1024 * 1024

// defaultUserAgent is a browser agent. DrugBank and the KEGG dbget CGI
// refuse requests from default library agents.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/115.0"

// Client fetches structures from the remote databases. Base URLs are
// exported so tests can point them at local servers.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	CASBaseURL      string
	PubChemBaseURL  string
	DrugBankBaseURL string
	KEGGBaseURL     string
}

// NewClient builds a client with production base URLs and a hard timeout
// on every request.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent:       defaultUserAgent,
		CASBaseURL:      "http://www.chemnet.com",
		PubChemBaseURL:  "https://pubchem.ncbi.nlm.nih.gov",
		DrugBankBaseURL: "https://go.drugbank.com",
		KEGGBaseURL:     "https://www.genome.jp",
	}
}

// get opens one connection, reads the full body and normalizes it to
// UTF-8. ChemNet serves ISO-8859-1 pages; the structure files are ASCII.
func (c *Client) get(ctx context.Context, source entities.Source, accession, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Accession: accession, Err: err}
	}
	req.Header.Set("User-Agent", c.UserAgent)

	response, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Accession: accession, Err: err}
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "source", source, "error", err)
		}
	}()

	if response.StatusCode == http.StatusNotFound {
		return nil, &FetchError{Source: source, Accession: accession, StatusCode: response.StatusCode, Err: ErrNotFound}
	}
	if response.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: source, Accession: accession, StatusCode: response.StatusCode,
			Err: fmt.Errorf("unexpected status %s", response.Status)}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{Source: source, Accession: accession, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil, &FetchError{Source: source, Accession: accession, Err: ErrEmptyResponse}
	}

	// Some sources answer in iso-8859-1, some in utf8, so check first
	if !utf8.Valid(bodyBytes) {
		decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes)))
		if err != nil {
			return nil, &FetchError{Source: source, Accession: accession, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		bodyBytes = decoded
	}

	logging.Debug("Downloaded structure document", "source", source, "accession", accession, "bytes", len(bodyBytes))
	return bodyBytes, nil
}
