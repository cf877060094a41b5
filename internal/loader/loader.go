// Package loader reads provider datasets from disk: a YAML manifest naming
// the entity type and the per-provider CSV files, and the CSV files
// themselves. Empty CSV cells become null values, so the engine's
// null-awareness carries straight through from the files.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// Manifest describes one synchronization job: the entity type and an
// ordered list of provider datasets. Dataset order matters — it is the
// pairwise agglomeration order and the dedup tie-break order.
type Manifest struct {
	EntityType string    `yaml:"entity_type"`
	Datasets   []Dataset `yaml:"datasets"`
}

// Dataset names one provider's CSV file. Path is resolved relative to the
// manifest's directory when not absolute.
type Dataset struct {
	Provider string `yaml:"provider"`
	Path     string `yaml:"path"`
}

// LoadManifest parses a manifest YAML file and validates it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling manifest %s: %w", path, err)
	}

	switch content.EntityType(m.EntityType) {
	case content.EntityTypeMatch, content.EntityTypePlayer, content.EntityTypeTeam:
	default:
		return nil, errors.NewValidationError("entity_type", m.EntityType,
			"must be one of match, player, team")
	}
	if len(m.Datasets) == 0 {
		return nil, errors.NewValidationError("datasets", m.Datasets,
			"manifest must name at least one dataset")
	}
	for i, d := range m.Datasets {
		if d.Provider == "" {
			return nil, errors.NewValidationError("provider", d,
				fmt.Sprintf("dataset %d has no provider", i))
		}
		if d.Path == "" {
			return nil, errors.NewValidationError("path", d,
				fmt.Sprintf("dataset %d has no path", i))
		}
	}
	return &m, nil
}

// Load reads a manifest and all datasets it names, returning the content
// wrappers in manifest order.
func Load(manifestPath string) ([]*content.Content, content.EntityType, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, "", err
	}
	entityType := content.EntityType(m.EntityType)
	baseDir := filepath.Dir(manifestPath)

	cs := make([]*content.Content, 0, len(m.Datasets))
	for _, d := range m.Datasets {
		path := d.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		table, err := LoadCSV(path)
		if err != nil {
			return nil, "", fmt.Errorf("loading dataset for provider %s: %w", d.Provider, err)
		}
		c, err := content.New(entityType, d.Provider, table)
		if err != nil {
			return nil, "", err
		}
		cs = append(cs, c)
	}
	return cs, entityType, nil
}

// LoadCSV reads a CSV file into a table. The first record is the header;
// empty cells become nulls.
func LoadCSV(path string) (*tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV reads CSV data into a table. The first record is the header;
// empty cells become nulls.
func ReadCSV(r io.Reader) (*tabular.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return tabular.FromStringRows(header, rows), nil
}

// WriteCSV writes a table to a CSV file, rendering null cells as empty
// strings.
func WriteCSV(path string, t *tabular.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSVTo(f, t); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSVTo writes a table as CSV to a writer, rendering null cells as
// empty strings.
func WriteCSVTo(w io.Writer, t *tabular.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			v := t.Value(i, c)
			if v.IsNull() {
				record[j] = ""
			} else {
				record[j] = v.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
