package entities

// Atom is a single atom from a connection table or a SMILES/InChI string.
// Coordinates are zero for formats that carry no geometry.
type Atom struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Charge  int     `json:"charge"`
	Isotope int     `json:"isotope"`
	HCount  int     `json:"hCount"`
}

// Bond connects two atoms by zero-based index into the molecule atom slice.
type Bond struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Order int `json:"order"`
}

// Molecule is the normalized in-memory representation shared by every
// reader and fetcher in this module.
type Molecule struct {
	Name       string            `json:"name,omitempty"`
	Formula    string            `json:"formula,omitempty"`
	Atoms      []Atom            `json:"atoms"`
	Bonds      []Bond            `json:"bonds"`
	Properties map[string]string `json:"properties,omitempty"`
}

// AtomCount returns the number of atoms in the molecule.
func (m *Molecule) AtomCount() int {
	return len(m.Atoms)
}

// BondCount returns the number of bonds in the molecule.
func (m *Molecule) BondCount() int {
	return len(m.Bonds)
}

// Property returns the named SD data field, if present.
func (m *Molecule) Property(name string) (string, bool) {
	if m.Properties == nil {
		return "", false
	}
	v, ok := m.Properties[name]
	return v, ok
}
