package getmol

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

var (
	drugbankSmilesTags = []string{"SMILES", "DATABASE_SMILES"}
	drugbankInchiTags  = []string{"INCHI_IDENTIFIER", "InChI"}
	drugbankNameTags   = []string{"GENERIC_NAME", "COMMON_NAME"}
)

// FetchFromDrugBank downloads <id>.sdf from DrugBank and returns the
// SMILES it carries. DrugBank serves an empty page to unknown IDs, which
// surfaces here as ErrEmptyResponse.
func FetchFromDrugBank(ctx context.Context, c *Client, dbID string) (*entities.Structure, error) {
	dbID = strings.TrimSpace(dbID)

	sdfURL := fmt.Sprintf("%s/drugs/%s.sdf", c.DrugBankBaseURL, url.PathEscape(dbID))

	body, err := c.get(ctx, entities.SourceDrugBank, dbID, sdfURL)
	if err != nil {
		return nil, err
	}

	mols, err := ParseSDF(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: entities.SourceDrugBank, Accession: dbID,
			Err: fmt.Errorf("downloaded SDF is unparseable: %w", err)}
	}
	mol := mols[0]

	structure := &entities.Structure{
		Source:      entities.SourceDrugBank,
		Accession:   dbID,
		SMILES:      firstProperty(mol, drugbankSmilesTags),
		InChI:       firstProperty(mol, drugbankInchiTags),
		Name:        firstProperty(mol, drugbankNameTags),
		Molecule:    mol,
		RetrievedAt: time.Now(),
	}

	if structure.SMILES == "" {
		return nil, &FetchError{Source: entities.SourceDrugBank, Accession: dbID, Err: ErrNoStructure}
	}

	return structure, nil
}
