package getmol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMolFromSmilesEthanol(t *testing.T) {
	mol, err := ReadMolFromSmiles("CCO")
	require.NoError(t, err)

	require.Equal(t, 3, mol.AtomCount())
	require.Equal(t, 2, mol.BondCount())
	assert.Equal(t, "C", mol.Atoms[0].Element)
	assert.Equal(t, "O", mol.Atoms[2].Element)
}

func TestReadMolFromSmilesBenzene(t *testing.T) {
	mol, err := ReadMolFromSmiles("c1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 6, mol.AtomCount())
	// Five chain bonds plus the ring closure
	assert.Equal(t, 6, mol.BondCount())
	for _, atom := range mol.Atoms {
		assert.Equal(t, "C", atom.Element)
	}
}

func TestReadMolFromSmilesBranchesAndOrders(t *testing.T) {
	// Acetic acid: branch with a double bond
	mol, err := ReadMolFromSmiles("CC(=O)O")
	require.NoError(t, err)

	require.Equal(t, 4, mol.AtomCount())
	require.Equal(t, 3, mol.BondCount())
	assert.Equal(t, 2, mol.Bonds[1].Order)
	// The branch pops back to the second carbon
	assert.Equal(t, 1, mol.Bonds[2].From)
	assert.Equal(t, 3, mol.Bonds[2].To)
}

func TestReadMolFromSmilesBracketAtoms(t *testing.T) {
	tests := []struct {
		smiles  string
		element string
		charge  int
		hCount  int
		isotope int
	}{
		{"[NH4+]", "N", 1, 4, 0},
		{"[O-]", "O", -1, 0, 0},
		{"[13CH4]", "C", 0, 4, 13},
		{"[Fe+2]", "Fe", 2, 0, 0},
		{"[nH]", "N", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			mol, err := ReadMolFromSmiles(tt.smiles)
			require.NoError(t, err)
			require.Equal(t, 1, mol.AtomCount())

			atom := mol.Atoms[0]
			assert.Equal(t, tt.element, atom.Element)
			assert.Equal(t, tt.charge, atom.Charge)
			assert.Equal(t, tt.hCount, atom.HCount)
			assert.Equal(t, tt.isotope, atom.Isotope)
		})
	}
}

func TestReadMolFromSmilesTwoLetterElements(t *testing.T) {
	mol, err := ReadMolFromSmiles("ClCCBr")
	require.NoError(t, err)

	require.Equal(t, 4, mol.AtomCount())
	assert.Equal(t, "Cl", mol.Atoms[0].Element)
	assert.Equal(t, "Br", mol.Atoms[3].Element)
}

func TestReadMolFromSmilesFragments(t *testing.T) {
	// Sodium acetate: the dot separates fragments without a bond
	mol, err := ReadMolFromSmiles("CC(=O)[O-].[Na+]")
	require.NoError(t, err)

	assert.Equal(t, 5, mol.AtomCount())
	assert.Equal(t, 3, mol.BondCount())
}

func TestReadMolFromSmilesPercentRingBond(t *testing.T) {
	mol, err := ReadMolFromSmiles("C%10CCCCC%10")
	require.NoError(t, err)
	assert.Equal(t, 6, mol.AtomCount())
	assert.Equal(t, 6, mol.BondCount())
}

func TestReadMolFromSmilesErrors(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unclosed branch", "CC(C"},
		{"unmatched close", "CC)C"},
		{"unclosed ring", "C1CC"},
		{"unclosed bracket", "[CH4"},
		{"bracket without element", "[+]"},
		{"leading branch", "(CC)"},
		{"unknown character", "C?C"},
		{"self ring bond", "C11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMolFromSmiles(tt.smiles)
			require.Error(t, err)
		})
	}
}

func TestReadMolFromSmilesLeadingWhitespaceTrimmed(t *testing.T) {
	mol, err := ReadMolFromSmiles("  CCO\n")
	require.NoError(t, err)
	assert.Equal(t, 3, mol.AtomCount())
}
