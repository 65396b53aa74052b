package export

import (
	"io"
	"strings"
)

// CSV renders records as CSV text. The header is the key list of the first
// record; every value is quoted with inner quotes doubled. Empty input
// returns ErrNothingToExport and no text.
func CSV(records []Record) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteCSV streams the CSV rendering of records to w.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	header := records[0].Keys()
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, rec := range records {
		b.WriteByte('\n')
		for i, key := range header {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(Format(rec.valueAt(i, key)), `"`, `""`))
			b.WriteByte('"')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
