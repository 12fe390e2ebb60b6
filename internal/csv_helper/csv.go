package csv_helper

import (
	"encoding/csv"
	"fmt"

	"github.com/spf13/afero"
)

// WriteCSV creates filename, truncating it if present, and writes headers
// followed by records.
func WriteCSV(fs afero.Fs, filename string, headers []string, records [][]string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("writing CSV records: %w", err)
	}
	return file.Close()
}
