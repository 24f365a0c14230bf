package getmol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// Inchi is an InChI string split into its layers.
type Inchi struct {
	Version       string `json:"version"`
	Formula       string `json:"formula"`
	Connections   string `json:"connections"`
	HAtoms        string `json:"h_atoms"`
	Charge        string `json:"charge"`
	Protons       string `json:"protons"`
	StereoDbond   string `json:"stereo_dbond"`
	StereoSP3     string `json:"stereo_SP3"`
	StereoInvert  string `json:"stereo_SP3_inverted"`
	StereoType    string `json:"stereo_type"`
	IsotopicAtoms string `json:"isotopic_atoms"`
}

// Standard InChI layers through the isotopic block. Fixed-H (f) and
// reconnected (r) layers only appear in non-standard InChI, which the
// sources here never serve, so they are rejected rather than dropped.
var inchiLayerPrefixes = map[byte]bool{
	'c': true, 'h': true, 'q': true, 'p': true, 'b': true,
	't': true, 'm': true, 's': true, 'i': true,
}

var formulaAtomRe = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)

// ParseInchi splits an InChI string into layers. Layers with unknown
// prefixes are rejected.
func ParseInchi(s string) (*Inchi, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "InChI=") {
		return nil, parseErrf("inchi", 0, "missing InChI= prefix")
	}

	parts := strings.Split(strings.TrimPrefix(s, "InChI="), "/")
	if len(parts) < 2 {
		return nil, parseErrf("inchi", 0, "missing formula layer")
	}
	if !strings.HasPrefix(parts[0], "1") {
		return nil, parseErrf("inchi", 0, "unsupported version %q", parts[0])
	}

	inchi := &Inchi{Version: parts[0], Formula: parts[1]}
	if inchi.Formula == "" {
		return nil, parseErrf("inchi", 0, "empty formula layer")
	}

	for _, layer := range parts[2:] {
		if layer == "" {
			return nil, parseErrf("inchi", 0, "empty layer")
		}
		prefix, body := layer[0], layer[1:]
		if !inchiLayerPrefixes[prefix] {
			return nil, parseErrf("inchi", 0, "unknown layer prefix %q", string(prefix))
		}
		switch prefix {
		case 'c':
			inchi.Connections = body
		case 'h':
			if inchi.IsotopicAtoms != "" || inchi.HAtoms != "" {
				// second h layer belongs to the isotopic block
				break
			}
			inchi.HAtoms = body
		case 'q':
			inchi.Charge = body
		case 'p':
			inchi.Protons = body
		case 'b':
			inchi.StereoDbond = body
		case 't':
			inchi.StereoSP3 = body
		case 'm':
			inchi.StereoInvert = body
		case 's':
			inchi.StereoType = body
		case 'i':
			inchi.IsotopicAtoms = body
		}
	}

	return inchi, nil
}

// String rebuilds the InChI from its layers in standard order.
func (inchi *Inchi) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "InChI=%s/%s", inchi.Version, inchi.Formula)

	appendLayer := func(prefix, body string) {
		if body != "" {
			b.WriteString("/" + prefix + body)
		}
	}
	appendLayer("c", inchi.Connections)
	appendLayer("h", inchi.HAtoms)
	appendLayer("q", inchi.Charge)
	appendLayer("p", inchi.Protons)
	appendLayer("b", inchi.StereoDbond)
	appendLayer("t", inchi.StereoSP3)
	appendLayer("m", inchi.StereoInvert)
	appendLayer("s", inchi.StereoType)
	appendLayer("i", inchi.IsotopicAtoms)

	return b.String()
}

// ReadMolFromInchi validates an InChI string and expands its formula layer
// into the atom composition. Connectivity reconstruction from the c layer
// is toolkit work this module does not do.
func ReadMolFromInchi(s string) (*entities.Molecule, error) {
	inchi, err := ParseInchi(s)
	if err != nil {
		return nil, err
	}

	mol := &entities.Molecule{Formula: inchi.Formula}

	// Components are separated by dots, each with an optional multiplier
	for _, component := range strings.Split(inchi.Formula, ".") {
		multiplier := 0
		idx := 0
		for idx < len(component) && component[idx] >= '0' && component[idx] <= '9' {
			multiplier = multiplier*10 + int(component[idx]-'0')
			idx++
		}
		if idx == 0 {
			multiplier = 1
		}

		matches := formulaAtomRe.FindAllStringSubmatch(component[idx:], -1)
		if len(matches) == 0 {
			return nil, parseErrf("inchi", 0, "unparseable formula component %q", component)
		}
		for _, m := range matches {
			count := 1
			if m[2] != "" {
				count, _ = strconv.Atoi(m[2])
			}
			for n := 0; n < count*multiplier; n++ {
				mol.Atoms = append(mol.Atoms, entities.Atom{Element: m[1]})
			}
		}
	}

	if len(mol.Atoms) == 0 {
		return nil, parseErrf("inchi", 0, "formula %q contains no atoms", inchi.Formula)
	}

	return mol, nil
}
