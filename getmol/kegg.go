package getmol

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// FetchFromKEGG downloads the molfile for a KEGG compound (C numbers) or
// drug (D numbers) entry. KEGG serves no SMILES, so the result carries the
// molblock and the parsed molecule only.
func FetchFromKEGG(ctx context.Context, c *Client, keggID string) (*entities.Structure, error) {
	keggID = strings.TrimSpace(keggID)

	database := "compound"
	if strings.HasPrefix(keggID, "D") {
		database = "drug"
	}

	molURL := fmt.Sprintf("%s/dbget-bin/www_bget?-f+m+%s+%s",
		c.KEGGBaseURL, database, url.QueryEscape(keggID))

	body, err := c.get(ctx, entities.SourceKEGG, keggID, molURL)
	if err != nil {
		return nil, err
	}

	molBlock := strings.TrimRight(string(body), "\n") + "\n"
	mol, err := ParseMolBlock(molBlock)
	if err != nil {
		return nil, &FetchError{Source: entities.SourceKEGG, Accession: keggID,
			Err: fmt.Errorf("downloaded molfile is unparseable: %w", err)}
	}
	if mol.Name == "" {
		mol.Name = keggID
	}

	return &entities.Structure{
		Source:      entities.SourceKEGG,
		Accession:   keggID,
		Name:        mol.Name,
		MolBlock:    molBlock,
		Molecule:    mol,
		RetrievedAt: time.Now(),
	}, nil
}
