package getmol

import (
	"strconv"
	"strings"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// Two-letter organic subset symbols are matched before one-letter ones.
var organicSymbols = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"}

// aromaticSymbols are the lowercase organic-subset forms.
var aromaticSymbols = map[byte]string{
	'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S",
}

var bondOrders = map[byte]int{
	'-': 1, '=': 2, '#': 3, '$': 4, ':': 1, '/': 1, '\\': 1,
}

type ringBond struct {
	atom  int
	order int
}

// ReadMolFromSmiles builds a molecule graph from a SMILES string. The
// graph keeps exactly what the string says: no canonicalization and no
// aromaticity perception beyond accepting the lowercase organic subset.
func ReadMolFromSmiles(s string) (*entities.Molecule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, parseErrf("smiles", 0, "empty string")
	}

	mol := &entities.Molecule{}
	prev := -1          // index of the atom a new bond attaches to
	order := 0          // pending explicit bond order, 0 means default single
	var stack []int     // open branch attachment points
	rings := map[int]ringBond{}

	addAtom := func(a entities.Atom) {
		mol.Atoms = append(mol.Atoms, a)
		idx := len(mol.Atoms) - 1
		if prev >= 0 {
			o := order
			if o == 0 {
				o = 1
			}
			mol.Bonds = append(mol.Bonds, entities.Bond{From: prev, To: idx, Order: o})
		}
		prev = idx
		order = 0
	}

	closeRing := func(num, pos int) error {
		if prev < 0 {
			return offsetErr(pos, "ring bond digit before any atom")
		}
		if open, ok := rings[num]; ok {
			o := order
			if o == 0 {
				o = open.order
			}
			if o == 0 {
				o = 1
			}
			if open.atom == prev {
				return offsetErr(pos, "ring bond %d closes on its own atom", num)
			}
			mol.Bonds = append(mol.Bonds, entities.Bond{From: open.atom, To: prev, Order: o})
			delete(rings, num)
		} else {
			rings[num] = ringBond{atom: prev, order: order}
		}
		order = 0
		return nil
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, offsetErr(i, "branch opens before any atom")
			}
			stack = append(stack, prev)
			i++
		case c == ')':
			if len(stack) == 0 {
				return nil, offsetErr(i, "unmatched closing branch")
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case c == '.':
			prev = -1
			order = 0
			i++
		case bondOrders[c] != 0:
			order = bondOrders[c]
			i++
		case c >= '0' && c <= '9':
			if err := closeRing(int(c-'0'), i); err != nil {
				return nil, err
			}
			i++
		case c == '%':
			if i+2 >= len(s) {
				return nil, offsetErr(i, "%% ring bond needs two digits")
			}
			num, err := strconv.Atoi(s[i+1 : i+3])
			if err != nil {
				return nil, offsetErr(i, "invalid %% ring bond %q", s[i+1:i+3])
			}
			if err := closeRing(num, i); err != nil {
				return nil, err
			}
			i += 3
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end == -1 {
				return nil, offsetErr(i, "unclosed bracket atom")
			}
			atom, err := parseBracketAtom(s[i+1:i+end], i)
			if err != nil {
				return nil, err
			}
			addAtom(atom)
			i += end + 1
		case c == '*':
			addAtom(entities.Atom{Element: "*"})
			i++
		default:
			sym, ok := matchOrganic(s[i:])
			if !ok {
				return nil, offsetErr(i, "unexpected character %q", string(c))
			}
			addAtom(entities.Atom{Element: capitalize(sym)})
			i += len(sym)
		}
	}

	if len(stack) > 0 {
		return nil, offsetErr(len(s), "%d unclosed branch(es)", len(stack))
	}
	if len(rings) > 0 {
		return nil, offsetErr(len(s), "%d unclosed ring bond(s)", len(rings))
	}
	if len(mol.Atoms) == 0 {
		return nil, parseErrf("smiles", 0, "no atoms")
	}

	return mol, nil
}

// parseBracketAtom parses the inside of [...]: isotope, symbol, chirality,
// explicit hydrogen count, charge. The atom class suffix is accepted and
// ignored.
func parseBracketAtom(body string, pos int) (entities.Atom, error) {
	var atom entities.Atom
	i := 0

	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	switch {
	case i >= len(body):
		return atom, offsetErr(pos, "bracket atom %q has no element symbol", body)
	case body[i] == '*':
		atom.Element = "*"
		i++
	case body[i] >= 'A' && body[i] <= 'Z':
		j := i + 1
		if j < len(body) && body[j] >= 'a' && body[j] <= 'z' {
			j++
		}
		atom.Element = body[i:j]
		i = j
	case aromaticSymbols[body[i]] != "" || body[i] == 'a':
		if sym, ok := aromaticSymbols[body[i]]; ok {
			atom.Element = sym
		} else {
			return atom, offsetErr(pos, "invalid aromatic symbol in bracket atom %q", body)
		}
		i++
	default:
		return atom, offsetErr(pos, "invalid element symbol in bracket atom %q", body)
	}

	for i < len(body) && body[i] == '@' {
		i++
	}

	if i < len(body) && body[i] == 'H' {
		atom.HCount = 1
		i++
		if i < len(body) && body[i] >= '0' && body[i] <= '9' {
			atom.HCount = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		charge := 0
		for i < len(body) && (body[i] == '+' || body[i] == '-') {
			charge++
			i++
		}
		if i < len(body) && body[i] >= '0' && body[i] <= '9' {
			charge = int(body[i] - '0')
			i++
		}
		atom.Charge = sign * charge
	}

	if i < len(body) && body[i] == ':' {
		i = len(body) // atom class, ignored
	}

	if i != len(body) {
		return atom, offsetErr(pos, "trailing characters in bracket atom %q", body)
	}

	return atom, nil
}

func matchOrganic(s string) (string, bool) {
	for _, sym := range organicSymbols {
		if strings.HasPrefix(s, sym) {
			return sym, true
		}
	}
	if _, ok := aromaticSymbols[s[0]]; ok {
		return s[0:1], true
	}
	return "", false
}

func capitalize(sym string) string {
	if elem, ok := aromaticSymbols[sym[0]]; ok && len(sym) == 1 {
		return elem
	}
	return sym
}

func offsetErr(pos int, msg string, args ...any) *ParseError {
	e := parseErrf("smiles", 0, msg, args...)
	e.Offset = pos + 1
	return e
}
