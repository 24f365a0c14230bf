package entities

import "time"

// Source identifies an upstream molecule database.
type Source string

const (
	SourceCAS      Source = "cas"
	SourcePubChem  Source = "pubchem"
	SourceDrugBank Source = "drugbank"
	SourceKEGG     Source = "kegg"
	SourceLocal    Source = "local"
)

// Sources lists every remote source a structure can be fetched from.
func Sources() []Source {
	return []Source{SourceCAS, SourcePubChem, SourceDrugBank, SourceKEGG}
}

// Structure is the normalized result of one fetch: the accession that was
// asked for, the string representation the source is authoritative for,
// and the parsed molecule when the source serves a connection table.
type Structure struct {
	Source      Source    `json:"source"`
	Accession   string    `json:"accession"`
	Name        string    `json:"name,omitempty"`
	SMILES      string    `json:"smiles,omitempty"`
	InChI       string    `json:"inchi,omitempty"`
	MolBlock    string    `json:"molblock,omitempty"`
	Molecule    *Molecule `json:"molecule,omitempty"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// SourceStatus is the result of one availability probe against an upstream.
type SourceStatus struct {
	Source     Source    `json:"source"`
	Reachable  bool      `json:"reachable"`
	StatusCode int       `json:"statusCode,omitempty"`
	LatencyMs  int64     `json:"latencyMs"`
	CheckedAt  time.Time `json:"checkedAt"`
	Error      string    `json:"error,omitempty"`
}
