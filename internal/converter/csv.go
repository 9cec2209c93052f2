package converter

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CSVConverter is the built-in Converter. It reads the three input tables as
// delimited text (comma, semicolon or tab, sniffed from the header line),
// checks headers against the embedded ABCD column schema, cross-references
// unit identifiers between tables, verifies multimedia files exist under
// FileDirectory, and assembles an ABCD-style XML result document.
type CSVConverter struct{}

// NewCSV creates the built-in CSV converter.
func NewCSV() *CSVConverter {
	return &CSVConverter{}
}

// table holds one parsed input table.
type table struct {
	name string
	// headers are the normalized (lowercased, trimmed) column names.
	headers []string
	// raw are the header cells as written in the file.
	raw []string
	// rows map normalized column name to cell value, one map per data row.
	rows []map[string]string
}

// Convert implements the Converter contract.
func (c *CSVConverter) Convert(ctx context.Context, specimenPath, measurementPath, multimediaPath string, io *IOHandler) error {
	io.fillDefaults()

	schema, err := loadColumnSchema()
	if err != nil {
		return err
	}

	logf := func(format string, args ...any) {
		if io.Verbose {
			io.Log(fmt.Sprintf(format, args...), nil)
		}
	}

	inputs := []struct {
		name string
		path string
	}{
		{TableSpecimen, specimenPath},
		{TableMeasurement, measurementPath},
		{TableMultimedia, multimediaPath},
	}

	tables := make(map[string]*table, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		logf("reading %s table from %s", in.name, in.path)
		tbl, err := readTable(in.name, in.path, io)
		if err != nil {
			return fmt.Errorf("read %s table: %w", in.name, err)
		}
		checkHeaders(tbl, schema.Tables[in.name], io)
		tables[in.name] = tbl
	}

	units := collectUnits(tables[TableSpecimen], io)
	crossReference(units, tables[TableMeasurement], io)
	crossReference(units, tables[TableMultimedia], io)
	checkMultimediaFiles(tables[TableMultimedia], io)

	if err := ctx.Err(); err != nil {
		return err
	}

	doc := buildDocument(units, tables[TableMeasurement], tables[TableMultimedia], io)
	payload, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result document: %w", err)
	}
	io.ResultFile(io.OutFile, map[string]string{"content": xml.Header + string(payload)})
	logf("assembled result document %s with %d units", io.OutFile, len(doc.Units))

	return nil
}

// readTable parses one delimited file. Structural problems that leave the
// table usable (ragged rows) are reported as diagnostics; a missing header
// row is an error diagnostic that leaves the table empty.
func readTable(name, path string, io *IOHandler) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tbl := &table{name: name}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		io.Error("Table has no header row", map[string]string{"file": name})
		return tbl, nil
	}

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = sniffDelimiter(content)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		io.Error("Table has no header row", map[string]string{"file": name})
		return tbl, nil
	}

	tbl.raw = records[0]
	for _, h := range records[0] {
		tbl.headers = append(tbl.headers, normalizeHeader(h))
	}

	for i, record := range records[1:] {
		if len(record) != len(tbl.headers) {
			io.Warning(
				fmt.Sprintf("Row %d has %d fields, expected %d", i+2, len(record), len(tbl.headers)),
				map[string]string{"file": name},
			)
		}
		row := make(map[string]string, len(tbl.headers))
		for j, h := range tbl.headers {
			if j < len(record) {
				row[h] = strings.TrimSpace(record[j])
			}
		}
		tbl.rows = append(tbl.rows, row)
	}

	return tbl, nil
}

// sniffDelimiter picks the delimiter that occurs most often in the header line.
func sniffDelimiter(content string) rune {
	header := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		header = content[:i]
	}

	best, count := ',', strings.Count(header, ",")
	if n := strings.Count(header, ";"); n > count {
		best, count = ';', n
	}
	if n := strings.Count(header, "\t"); n > count {
		best = '\t'
	}
	return best
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// checkHeaders reports duplicate, missing-required, and unrecognized columns.
func checkHeaders(tbl *table, schema tableSchema, io *IOHandler) {
	if len(tbl.headers) == 0 {
		return
	}

	seen := make(map[string]bool, len(tbl.headers))
	for i, h := range tbl.headers {
		if seen[h] {
			io.Error(
				fmt.Sprintf("Duplicate column '%s'", tbl.raw[i]),
				map[string]string{"file": tbl.name},
			)
			continue
		}
		seen[h] = true
	}

	for _, required := range schema.Required {
		if !seen[required] {
			io.Error(
				fmt.Sprintf("Missing required column '%s'", required),
				map[string]string{"file": tbl.name},
			)
		}
	}

	for i, h := range tbl.headers {
		if !schema.recognizes(h) {
			io.Warning(
				fmt.Sprintf("Unrecognized column '%s'", tbl.raw[i]),
				map[string]string{
					"file":    tbl.name,
					"message": "column does not match any ABCD term and will be ignored",
				},
			)
		}
	}
}

// collectUnits builds the unit identifier index from the specimen table.
func collectUnits(specimen *table, io *IOHandler) map[string]string {
	units := make(map[string]string, len(specimen.rows))
	for i, row := range specimen.rows {
		id := row["unitid"]
		if id == "" {
			io.Error(
				fmt.Sprintf("Row %d has no unit identifier", i+2),
				map[string]string{"file": specimen.name},
			)
			continue
		}
		if _, ok := units[id]; ok {
			io.Error(
				fmt.Sprintf("Duplicate unit identifier '%s'", id),
				map[string]string{"file": specimen.name},
			)
			continue
		}
		units[id] = row["fullscientificname"]
	}
	return units
}

// crossReference reports rows referring to units absent from the specimen table.
func crossReference(units map[string]string, tbl *table, io *IOHandler) {
	for i, row := range tbl.rows {
		id := row["unitid"]
		if id == "" {
			continue
		}
		if _, ok := units[id]; !ok {
			io.Error(
				fmt.Sprintf("Unknown unit identifier '%s'", id),
				map[string]string{
					"file":    tbl.name,
					"message": fmt.Sprintf("row %d refers to a unit missing from the specimen table", i+2),
				},
			)
		}
	}
}

// checkMultimediaFiles verifies every referenced file exists under FileDirectory.
func checkMultimediaFiles(multimedia *table, io *IOHandler) {
	for i, row := range multimedia.rows {
		name := row["filename"]
		if name == "" {
			io.Warning(
				fmt.Sprintf("Row %d has no filename", i+2),
				map[string]string{"file": multimedia.name},
			)
			continue
		}
		path := filepath.Join(io.FileDirectory, name)
		if _, err := os.Stat(path); err != nil {
			io.Error(
				fmt.Sprintf("Multimedia file not found: '%s'", name),
				map[string]string{"file": multimedia.name},
			)
		}
	}
}

// resultDocument is the simplified ABCD-style document written to the result sink.
type resultDocument struct {
	XMLName xml.Name     `xml:"DataSets"`
	Units   []resultUnit `xml:"DataSet>Units>Unit"`
}

type resultUnit struct {
	ID             string   `xml:"UnitID"`
	ScientificName string   `xml:"Identification>FullScientificName,omitempty"`
	Measurements   int      `xml:"MeasurementCount"`
	Multimedia     []string `xml:"MultimediaObjects>FileName"`
}

// buildDocument assembles the result document, reporting schema-validation
// stage problems with the "result" file context.
func buildDocument(units map[string]string, measurement, multimedia *table, io *IOHandler) *resultDocument {
	if len(units) == 0 {
		io.Error("Document contains no units", map[string]string{"file": "result"})
	}

	measurements := make(map[string]int)
	for _, row := range measurement.rows {
		measurements[row["unitid"]]++
	}
	files := make(map[string][]string)
	for _, row := range multimedia.rows {
		if row["filename"] != "" {
			files[row["unitid"]] = append(files[row["unitid"]], row["filename"])
		}
	}

	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	doc := &resultDocument{}
	for _, id := range ids {
		name := units[id]
		if name == "" {
			io.Error(
				fmt.Sprintf("Unit '%s' is missing a scientific name", id),
				map[string]string{"file": "result"},
			)
		}
		doc.Units = append(doc.Units, resultUnit{
			ID:             id,
			ScientificName: name,
			Measurements:   measurements[id],
			Multimedia:     files[id],
		})
	}
	return doc
}
