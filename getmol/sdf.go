package getmol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/logging"
)

// ReadMolFromSDF reads every molecule from an SD file on disk. Records that
// fail to parse are skipped and counted, matching how a partially damaged
// SD file is normally consumed.
func ReadMolFromSDF(path string) ([]*entities.Molecule, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SDF %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close SDF file", "path", path, "error", err)
		}
	}()

	return ParseSDF(f)
}

// ParseSDF parses a multi-record SD stream. Each record is a V2000
// connection table followed by optional "> <NAME>" data fields and a
// $$$$ terminator.
func ParseSDF(r io.Reader) ([]*entities.Molecule, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 4*1024*1024)

	var molecules []*entities.Molecule
	var record []string
	recordCount := 0
	skippedRecords := 0

	flush := func() {
		// Trailing blank lines between records are not a record
		if len(record) == 0 || isBlank(record) {
			record = record[:0]
			return
		}
		recordCount++
		mol, err := parseSDRecord(record)
		if err != nil {
			skippedRecords++
			logging.Warn("Skipping unparseable SD record", "record", recordCount, "error", err)
		} else {
			molecules = append(molecules, mol)
		}
		record = record[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "$$$$") {
			flush()
			continue
		}
		record = append(record, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error reading SDF: %w", err)
	}
	// A final record without $$$$ is still a record
	flush()

	if skippedRecords > 0 {
		logging.Info("SDF skip statistics",
			"total_records", recordCount,
			"skipped_records", skippedRecords,
			"records_parsed", len(molecules))
	}

	if recordCount == 0 {
		return nil, parseErrf("sdf", 0, "no records found")
	}
	if len(molecules) == 0 {
		return nil, parseErrf("sdf", 0, "all %d records unparseable", recordCount)
	}

	return molecules, nil
}

// parseSDRecord splits one record into its connection table and data
// fields, then parses the table.
func parseSDRecord(lines []string) (*entities.Molecule, error) {
	blockEnd := len(lines)
	for i, line := range lines {
		if strings.HasPrefix(line, "M  END") {
			blockEnd = i + 1
			break
		}
		if strings.HasPrefix(line, ">") {
			blockEnd = i
			break
		}
	}

	mol, err := ParseMolBlock(strings.Join(lines[:blockEnd], "\n"))
	if err != nil {
		return nil, err
	}

	props := parseDataFields(lines[blockEnd:])
	if len(props) > 0 {
		mol.Properties = props
	}

	return mol, nil
}

// parseDataFields collects "> <NAME>" items. A field value runs until the
// next blank line; multi-line values are joined with newlines.
func parseDataFields(lines []string) map[string]string {
	props := make(map[string]string)
	var name string
	var value []string

	store := func() {
		if name != "" {
			props[name] = strings.Join(value, "\n")
		}
		name = ""
		value = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, ">") {
			store()
			name = dataFieldName(line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			store()
			continue
		}
		if name != "" {
			value = append(value, strings.TrimSpace(line))
		}
	}
	store()

	return props
}

// dataFieldName extracts NAME from a '>  <NAME>' header line.
func dataFieldName(line string) string {
	start := strings.Index(line, "<")
	end := strings.LastIndex(line, ">")
	if start == -1 || end <= start {
		return ""
	}
	return strings.TrimSpace(line[start+1 : end])
}

func isBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
