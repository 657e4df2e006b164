// Package cloudwriter buffers data in memory and uploads it as one object on Close.
package cloudwriter

import (
	"context"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go/source"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(ctx context.Context, bucket, objectPath string) (CloudWriter, error)
}

// ParquetFile lets a parquet writer stream into a CloudWriter. Objects are write-only,
// so reads and seeks from the end are refused.
type ParquetFile struct {
	cloudWriter CloudWriter
	offset      int64
}

var _ source.ParquetFile = (*ParquetFile)(nil)

func NewParquetFile(cloudWriter CloudWriter) *ParquetFile {
	return &ParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver; the object appears when the writer is closed.
func (c *ParquetFile) Open(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *ParquetFile) Create(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *ParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *ParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *ParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *ParquetFile) Close() error {
	return c.cloudWriter.Close()
}
