// Package sink persists the gold table as a delimited-text artifact.
package sink

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/model"
)

// WriteCSV writes every gold row and column to a CSV file at path, creating
// parent directories as needed. Dates are rendered YYYY-MM-DD; amounts keep
// their full decimal precision so the handoff is lossless.
func WriteCSV(path string, gold model.GoldTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "sink: create output dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "sink: create %s", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&gold, f); err != nil {
		return eris.Wrapf(err, "sink: write %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "sink: close %s", path)
	}

	zap.L().Info("wrote gold artifact", zap.String("path", path), zap.Int("rows", len(gold)))
	return nil
}
