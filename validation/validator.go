// Package validation validates database accession identifiers and user
// input before they reach the fetch layer.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/LenkaChandini/PyBioMed/interfaces"
)

// Pre-compiled patterns, compiled once at package initialization
var (
	casRegex      = regexp.MustCompile(`^(\d{2,7})-(\d{2})-(\d)$`)
	cidRegex      = regexp.MustCompile(`^\d{1,9}$`)
	drugbankRegex = regexp.MustCompile(`^DB\d{5}$`)
	keggRegex     = regexp.MustCompile(`^[CD]\d{5}$`)

	// Request-level screening before anything touches an upstream URL.
	// strings.Contains is faster than regex for plain substrings.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		"' or ", "\" or ", "union select", "drop table", "--", "/*", "*/",
		"; ", "| ", "& ", "`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
	}
)

// AccessionValidatorImpl implements interfaces.AccessionValidator.
type AccessionValidatorImpl struct{}

// Compile-time check
var _ interfaces.AccessionValidator = (*AccessionValidatorImpl)(nil)

// NewAccessionValidator creates a new accession validator.
func NewAccessionValidator() interfaces.AccessionValidator {
	return &AccessionValidatorImpl{}
}

// ValidateCAS checks the CAS registry number format and its check digit.
// The check digit is the weighted digit sum mod 10, weights counted from
// the digit left of the hyphenated check digit.
func (v *AccessionValidatorImpl) ValidateCAS(input string) (string, error) {
	input = strings.TrimSpace(input)
	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	m := casRegex.FindStringSubmatch(input)
	if m == nil {
		return "", fmt.Errorf("invalid CAS registry number format: %q", input)
	}

	digits := m[1] + m[2]
	sum := 0
	for i := 0; i < len(digits); i++ {
		weight := len(digits) - i
		sum += weight * int(digits[i]-'0')
	}

	check, _ := strconv.Atoi(m[3])
	if sum%10 != check {
		return "", fmt.Errorf("CAS registry number %q fails check digit (expected %d)", input, sum%10)
	}

	return input, nil
}

// ValidateCID checks a PubChem compound ID: a positive integer.
func (v *AccessionValidatorImpl) ValidateCID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	if !cidRegex.MatchString(input) {
		return "", fmt.Errorf("invalid PubChem CID: %q", input)
	}

	cid, err := strconv.Atoi(input)
	if err != nil || cid < 1 {
		return "", fmt.Errorf("invalid PubChem CID: %q", input)
	}

	return strconv.Itoa(cid), nil
}

// ValidateDrugBankID checks a DrugBank accession (DB followed by 5 digits).
func (v *AccessionValidatorImpl) ValidateDrugBankID(input string) (string, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	if !drugbankRegex.MatchString(input) {
		return "", fmt.Errorf("invalid DrugBank ID: %q (expected DB00000 form)", input)
	}

	return input, nil
}

// ValidateKEGGID checks a KEGG compound or drug accession (C or D followed
// by 5 digits).
func (v *AccessionValidatorImpl) ValidateKEGGID(input string) (string, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	if !keggRegex.MatchString(input) {
		return "", fmt.Errorf("invalid KEGG ID: %q (expected C00000 or D00000 form)", input)
	}

	return input, nil
}

// ValidateInput screens a user-supplied string for injection patterns.
func (v *AccessionValidatorImpl) ValidateInput(input string) error {
	if input == "" {
		return fmt.Errorf("input cannot be empty")
	}
	if len(input) > 100 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed pattern")
		}
	}

	return nil
}
