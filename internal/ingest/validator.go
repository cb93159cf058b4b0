package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// ValidateFile confirms that the seed file exists, is readable, and that
// its header row contains every required column. The returned error message
// is user-facing and ends up verbatim in the ingestion report.
func ValidateFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("CSV file not found: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Error reading CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("Error reading CSV file: %v", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
