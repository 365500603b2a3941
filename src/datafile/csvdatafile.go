package datafile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/transform"

	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

type CsvRowReader struct {
	file     *os.File
	reader   *csv.Reader
	header   []string
	Encoding string
}

// OpenCsvRowReader opens a CSV file as a header-keyed row stream.
// encodingName selects the input decoder; EncodingAuto sniffs the file
// first. Rows with a field count different from the header are a fatal
// reader error - the run aborts rather than silently skipping rows.
func OpenCsvRowReader(filePath string, encodingName string) (*CsvRowReader, error) {
	if !utils.FileOrFolderExists(filePath) {
		return nil, fmt.Errorf("source file not found: %s", filePath)
	}

	if encodingName == "" || encodingName == EncodingAuto {
		detected, err := DetectEncoding(filePath)
		if err != nil {
			return nil, fmt.Errorf("detect encoding of %q: %w", filePath, err)
		}
		log.Infof("detected encoding %q for file %q", detected, filePath)
		encodingName = detected
	}
	enc, err := encodingByName(encodingName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	reader := csv.NewReader(transform.NewReader(file, enc.NewDecoder()))
	header, err := reader.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file %q appears to be empty or invalid", filePath)
		}
		return nil, fmt.Errorf("read csv header of %q: %w", filePath, err)
	}

	log.Infof("created csv row reader for file %q (%d columns)", filePath, len(header))
	return &CsvRowReader{
		file:     file,
		reader:   reader,
		header:   header,
		Encoding: encodingName,
	}, nil
}

func (r *CsvRowReader) Header() []string {
	return r.header
}

func (r *CsvRowReader) ReadRow() (map[string]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read csv row: %w", err)
	}

	row := make(map[string]string, len(r.header))
	for i, col := range r.header {
		row[col] = record[i]
	}
	return row, nil
}

func (r *CsvRowReader) Close() error {
	return r.file.Close()
}

type CsvRowWriter struct {
	file   *os.File
	writer *csv.Writer
	header []string
}

// CreateCsvRowWriter creates the destination file (always UTF-8) and
// writes the header row immediately.
func CreateCsvRowWriter(filePath string, header []string) (*CsvRowWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return &CsvRowWriter{
		file:   file,
		writer: writer,
		header: header,
	}, nil
}

// WriteRow emits the row in header order. Columns absent from the row
// are written empty.
func (w *CsvRowWriter) WriteRow(row map[string]string) error {
	record := lo.Map(w.header, func(col string, _ int) string {
		return row[col]
	})
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (w *CsvRowWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return w.file.Close()
}
