package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/besteats/internal/cloudwriter"
	"github.com/chrisdamba/besteats/internal/models"
)

// parquetMenuItem is the exported row. Prices stay exact as decimal strings.
type parquetMenuItem struct {
	ID          int64  `parquet:"name=id, type=INT64"`
	Name        string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Description string `parquet:"name=description, type=BYTE_ARRAY, convertedtype=UTF8"`
	Price       string `parquet:"name=price, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category    string `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Popular     bool   `parquet:"name=popular, type=BOOLEAN"`
	New         bool   `parquet:"name=is_new, type=BOOLEAN"`
	Image       string `parquet:"name=image, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ExportTarget says where an export goes: a local path, or an object in Bucket
// when Factory is set.
type ExportTarget struct {
	Path    string
	Bucket  string
	Factory cloudwriter.CloudWriterFactory
}

// ExportParquet writes items as a single parquet file.
func ExportParquet(ctx context.Context, items []models.CatalogItem, target ExportTarget, progress io.Writer) error {
	var fw source.ParquetFile
	var err error
	if target.Factory != nil {
		cw, err := target.Factory.NewWriter(ctx, target.Bucket, target.Path)
		if err != nil {
			return fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = cloudwriter.NewParquetFile(cw)
	} else {
		fw, err = local.NewLocalFileWriter(target.Path)
		if err != nil {
			return fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetMenuItem), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	bar := newBar(len(items), "Exporting menu items", progress)
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			fw.Close()
			return err
		}
		row := parquetMenuItem{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price.StringFixed(2),
			Category:    it.Category,
			Popular:     it.Popular,
			New:         it.New,
			Image:       it.Image,
		}
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write menu item %d: %w", it.ID, err)
		}
		_ = bar.Add(1)
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return bar.Finish()
}
