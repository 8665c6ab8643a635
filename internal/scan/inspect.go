package scan

import (
	"errors"
	"fmt"

	"github.com/joe/file-inventory/internal/inventory"
	pkgerrors "github.com/joe/file-inventory/pkg/errors"
	"github.com/joe/file-inventory/pkg/filesystem"
)

// Inspector turns a path into a Record.
type Inspector interface {
	Inspect(path, host string) (inventory.Record, error)
}

// InspectError is returned for any path whose metadata could not be read.
type InspectError struct {
	Path     string
	Reason   string
	Category pkgerrors.ErrorCategory
	Err      error
}

// Error implements the error interface.
func (e *InspectError) Error() string {
	return fmt.Sprintf("inspect %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying error.
func (e *InspectError) Unwrap() error {
	return e.Err
}

// Failure converts the error into an inventory failure entry.
func (e *InspectError) Failure() inventory.Failure {
	return inventory.Failure{Path: e.Path, Reason: e.Reason, Category: e.Category.String()}
}

// MetadataInspector reads metadata with Stat, following symlinks.
type MetadataInspector struct {
	fs       filesystem.FileSystem
	enricher pkgerrors.Enricher
}

// NewMetadataInspector creates an inspector over fsys.
func NewMetadataInspector(fsys filesystem.FileSystem) *MetadataInspector {
	return &MetadataInspector{fs: fsys, enricher: pkgerrors.NewEnricher()}
}

// Inspect returns the record for path. Files on a UNC share are attributed to the
// share's server; everything else to host.
func (p *MetadataInspector) Inspect(path, host string) (inventory.Record, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return inventory.Record{}, newInspectError(p.enricher, path, err)
	}

	if info.IsDir() {
		return inventory.Record{}, newInspectError(p.enricher, path, ErrIsDirectory)
	}

	if server := filesystem.UNCHost(path); server != "" {
		host = server
	}

	return inventory.NewRecord(path, info.Name(), info.Size(), info.ModTime(), host), nil
}

// newInspectError collapses err into one InspectError with an enriched category.
func newInspectError(enricher pkgerrors.Enricher, path string, err error) *InspectError {
	var inspectErr *InspectError
	if errors.As(err, &inspectErr) {
		return inspectErr
	}

	enriched := enricher.Enrich(err, path)

	return &InspectError{
		Path:     path,
		Reason:   err.Error(),
		Category: pkgerrors.CategoryOf(enriched),
		Err:      err,
	}
}
