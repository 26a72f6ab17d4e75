package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// spreadsheetIDRegex matches Google spreadsheet IDs as they appear in sheet URLs.
var spreadsheetIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{10,128}$`)

// ValidateSpreadsheetID validates a Google Sheets spreadsheet ID.
func ValidateSpreadsheetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSource, "spreadsheet ID cannot be empty")
	}
	if !spreadsheetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidSource, "invalid spreadsheet ID: %q", id)
	}
	return nil
}

// a1CellRegex matches a single A1-notation cell or column reference (A, A2, $B$7).
var a1CellRegex = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?[0-9]*$`)

// ValidateRange validates an A1-notation range such as "Data_Template!A2:F".
// A sheet name alone is also accepted.
//
// Validation rules:
//   - Range cannot be empty
//   - No control characters
//   - At most one '!' separating the sheet name from the cells
//   - Cell references must look like A1 notation
func ValidateRange(rng string) error {
	if strings.TrimSpace(rng) == "" {
		return New(ErrCodeInvalidRange, "range cannot be empty")
	}
	for _, r := range rng {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRange, "range contains invalid control characters")
		}
	}

	sheet, cells, hasCells := strings.Cut(rng, "!")
	if strings.Contains(cells, "!") {
		return New(ErrCodeInvalidRange, "range has more than one sheet separator: %q", rng)
	}
	if !hasCells {
		return nil
	}
	if strings.Trim(sheet, "'") == "" {
		return New(ErrCodeInvalidRange, "range is missing a sheet name: %q", rng)
	}

	from, to, isSpan := strings.Cut(cells, ":")
	if !a1CellRegex.MatchString(from) || (isSpan && !a1CellRegex.MatchString(to)) {
		return New(ErrCodeInvalidRange, "invalid cell reference in range: %q", rng)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateCollectionName validates a MongoDB database or collection name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 120 characters
//   - No null bytes, '$' or control characters
//   - Not a reserved "system." collection
func ValidateCollectionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "collection name cannot be empty")
	}
	if len(name) > 120 {
		return New(ErrCodeInvalidSource, "collection name too long (max 120 characters)")
	}
	for _, r := range name {
		if r == '$' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "collection name contains invalid characters")
		}
	}
	if strings.HasPrefix(name, "system.") {
		return New(ErrCodeInvalidSource, "collection name cannot use the reserved system. prefix")
	}
	return nil
}
