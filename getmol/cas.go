package getmol

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/PuerkitoBio/goquery"
)

// FetchFromCAS downloads the ChemNet dictionary page for a CAS registry
// number and scrapes the standard InChI out of the result table.
func FetchFromCAS(ctx context.Context, c *Client, casID string) (*entities.Structure, error) {
	casID = strings.TrimSpace(casID)

	pageURL := fmt.Sprintf("%s/cas/supplier.cgi?terms=%s&l=&exact=dict",
		c.CASBaseURL, url.QueryEscape(casID))

	body, err := c.get(ctx, entities.SourceCAS, casID, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: entities.SourceCAS, Accession: casID,
			Err: fmt.Errorf("failed to parse result page: %w", err)}
	}

	var inchi string
	doc.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if strings.HasPrefix(text, "InChI=") {
			inchi = text
			return false
		}
		return true
	})

	if inchi == "" {
		return nil, &FetchError{Source: entities.SourceCAS, Accession: casID, Err: ErrNoStructure}
	}

	mol, err := ReadMolFromInchi(inchi)
	if err != nil {
		return nil, &FetchError{Source: entities.SourceCAS, Accession: casID,
			Err: fmt.Errorf("scraped InChI is invalid: %w", err)}
	}

	return &entities.Structure{
		Source:      entities.SourceCAS,
		Accession:   casID,
		InChI:       inchi,
		Molecule:    mol,
		RetrievedAt: time.Now(),
	}, nil
}
