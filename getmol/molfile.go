// Package getmol fetches small-molecule structures from remote chemistry
// databases and reads them from local SDF, MOL, SMILES and InChI inputs,
// normalizing everything into the entities.Molecule representation.
package getmol

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// MDL ctfile charge codes for the atom block charge column.
var chargeCodes = map[int]int{
	0: 0,
	1: 3,
	2: 2,
	3: 1,
	4: 0, // doublet radical, not a formal charge
	5: -1,
	6: -2,
	7: -3,
}

// ReadMolFromMolFile reads a single molecule from an MDL molfile on disk.
func ReadMolFromMolFile(path string) (*entities.Molecule, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read mol file %s: %w", path, err)
	}
	return ParseMolBlock(string(data))
}

// ParseMolBlock parses one V2000 connection table. The block is the
// 3-line header, counts line, atom block, bond block and property block
// up to M  END. V3000 tables are rejected.
func ParseMolBlock(block string) (*entities.Molecule, error) {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	if len(lines) < 4 {
		return nil, parseErrf("mol", len(lines), "truncated header, needs 3 header lines and a counts line")
	}

	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, parseErrf("mol", 4, "V3000 connection tables are not supported")
	}
	if len(counts) < 6 {
		return nil, parseErrf("mol", 4, "counts line too short: %q", counts)
	}

	atomCount, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil || atomCount < 0 {
		return nil, parseErrf("mol", 4, "invalid atom count in counts line: %q", counts[0:3])
	}
	bondCount, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil || bondCount < 0 {
		return nil, parseErrf("mol", 4, "invalid bond count in counts line: %q", counts[3:6])
	}

	if len(lines) < 4+atomCount+bondCount {
		return nil, parseErrf("mol", len(lines), "expected %d atom and %d bond lines, file ends early", atomCount, bondCount)
	}

	mol := &entities.Molecule{
		Name:  strings.TrimSpace(lines[0]),
		Atoms: make([]entities.Atom, atomCount),
		Bonds: make([]entities.Bond, bondCount),
	}

	for i := 0; i < atomCount; i++ {
		lineNo := 5 + i
		line := lines[4+i]
		if len(line) < 34 {
			return nil, parseErrf("mol", lineNo, "atom line too short: %q", line)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(line[0:10]), 64)
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid x coordinate: %q", line[0:10])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(line[10:20]), 64)
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid y coordinate: %q", line[10:20])
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(line[20:30]), 64)
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid z coordinate: %q", line[20:30])
		}

		element := strings.TrimSpace(column(line, 31, 34))
		if element == "" {
			return nil, parseErrf("mol", lineNo, "missing element symbol")
		}

		charge := 0
		if code, err := strconv.Atoi(strings.TrimSpace(column(line, 36, 39))); err == nil {
			charge = chargeCodes[code]
		}

		mol.Atoms[i] = entities.Atom{X: x, Y: y, Z: z, Element: element, Charge: charge}
	}

	for i := 0; i < bondCount; i++ {
		lineNo := 5 + atomCount + i
		line := lines[4+atomCount+i]
		if len(line) < 9 {
			return nil, parseErrf("mol", lineNo, "bond line too short: %q", line)
		}

		from, err := strconv.Atoi(strings.TrimSpace(line[0:3]))
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid bond start atom: %q", line[0:3])
		}
		to, err := strconv.Atoi(strings.TrimSpace(line[3:6]))
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid bond end atom: %q", line[3:6])
		}
		order, err := strconv.Atoi(strings.TrimSpace(line[6:9]))
		if err != nil {
			return nil, parseErrf("mol", lineNo, "invalid bond order: %q", line[6:9])
		}

		if from < 1 || from > atomCount || to < 1 || to > atomCount {
			return nil, parseErrf("mol", lineNo, "bond references atom out of range: %d-%d (molecule has %d atoms)", from, to, atomCount)
		}

		mol.Bonds[i] = entities.Bond{From: from - 1, To: to - 1, Order: order}
	}

	// Property block: M  CHG and M  ISO override atom-block values
	for _, line := range lines[4+atomCount+bondCount:] {
		switch {
		case strings.HasPrefix(line, "M  END"):
			return mol, nil
		case strings.HasPrefix(line, "M  CHG"):
			applyAtomProps(line, mol, func(a *entities.Atom, v int) { a.Charge = v })
		case strings.HasPrefix(line, "M  ISO"):
			applyAtomProps(line, mol, func(a *entities.Atom, v int) { a.Isotope = v })
		}
	}

	return mol, nil
}

// applyAtomProps handles "M  CHG  n  aaa vvv ..." style property lines.
func applyAtomProps(line string, mol *entities.Molecule, set func(*entities.Atom, int)) {
	fields := strings.Fields(line)
	// M, CHG/ISO, pair count, then index/value pairs
	if len(fields) < 5 {
		return
	}
	for i := 3; i+1 < len(fields); i += 2 {
		idx, err1 := strconv.Atoi(fields[i])
		val, err2 := strconv.Atoi(fields[i+1])
		if err1 != nil || err2 != nil || idx < 1 || idx > len(mol.Atoms) {
			continue
		}
		set(&mol.Atoms[idx-1], val)
	}
}

// column returns the slice of line between from and to, tolerating lines
// that end before the field does. Molfiles routinely omit trailing fields.
func column(line string, from, to int) string {
	if len(line) <= from {
		return ""
	}
	if len(line) < to {
		to = len(line)
	}
	return line[from:to]
}
