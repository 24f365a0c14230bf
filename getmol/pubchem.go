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

// PubChem SD data fields carrying the canonical identifiers. The tag names
// changed over the years, so older ones are kept as fallbacks.
var (
	pubchemSmilesTags = []string{"PUBCHEM_SMILES", "PUBCHEM_OPENEYE_CAN_SMILES", "PUBCHEM_CANONICAL_SMILES"}
	pubchemInchiTags  = []string{"PUBCHEM_IUPAC_INCHI"}
	pubchemNameTags   = []string{"PUBCHEM_IUPAC_NAME", "PUBCHEM_IUPAC_TRADITIONAL_NAME"}
)

// FetchFromPubChem downloads the SDF for a PubChem compound ID and
// returns the canonical SMILES and standard InChI PubChem computed for it.
func FetchFromPubChem(ctx context.Context, c *Client, cid string) (*entities.Structure, error) {
	cid = strings.TrimSpace(cid)

	sdfURL := fmt.Sprintf("%s/summary/summary.cgi?cid=%s&disopt=SaveSDF",
		c.PubChemBaseURL, url.QueryEscape(cid))

	body, err := c.get(ctx, entities.SourcePubChem, cid, sdfURL)
	if err != nil {
		return nil, err
	}

	mols, err := ParseSDF(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: entities.SourcePubChem, Accession: cid,
			Err: fmt.Errorf("downloaded SDF is unparseable: %w", err)}
	}
	mol := mols[0]

	structure := &entities.Structure{
		Source:      entities.SourcePubChem,
		Accession:   cid,
		SMILES:      firstProperty(mol, pubchemSmilesTags),
		InChI:       firstProperty(mol, pubchemInchiTags),
		Name:        firstProperty(mol, pubchemNameTags),
		Molecule:    mol,
		RetrievedAt: time.Now(),
	}

	if structure.SMILES == "" && structure.InChI == "" {
		return nil, &FetchError{Source: entities.SourcePubChem, Accession: cid, Err: ErrNoStructure}
	}

	return structure, nil
}

// firstProperty returns the first SD field out of tags that is set.
func firstProperty(mol *entities.Molecule, tags []string) string {
	for _, tag := range tags {
		if v, ok := mol.Property(tag); ok && v != "" {
			return v
		}
	}
	return ""
}
