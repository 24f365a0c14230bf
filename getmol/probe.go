package getmol

import (
	"context"
	"net/http"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// probeURL returns the address checked by availability probes for each
// source. The base URL is enough: a probe asks "is the host answering",
// not "is this accession there".
func (c *Client) probeURL(source entities.Source) string {
	switch source {
	case entities.SourceCAS:
		return c.CASBaseURL + "/"
	case entities.SourcePubChem:
		return c.PubChemBaseURL + "/"
	case entities.SourceDrugBank:
		return c.DrugBankBaseURL + "/"
	case entities.SourceKEGG:
		return c.KEGGBaseURL + "/"
	default:
		return ""
	}
}

// ProbeSource checks whether one upstream database answers HTTP at all.
// Any HTTP response counts as reachable; only transport failures do not.
func (c *Client) ProbeSource(ctx context.Context, source entities.Source) entities.SourceStatus {
	status := entities.SourceStatus{Source: source, CheckedAt: time.Now()}

	probeURL := c.probeURL(source)
	if probeURL == "" {
		status.Error = "unknown source"
		return status
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	req.Header.Set("User-Agent", c.UserAgent)

	start := time.Now()
	response, err := c.HTTPClient.Do(req)
	status.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer response.Body.Close()

	status.Reachable = true
	status.StatusCode = response.StatusCode
	return status
}
