package datafile

// RowReader is a decoded stream of rows from a delimited table. Each
// row maps column name to string value; the column order is fixed by
// the header row read at open time.
type RowReader interface {
	Header() []string
	// ReadRow returns the next row, or io.EOF after the last one.
	ReadRow() (map[string]string, error)
	Close() error
}

// RowWriter accepts rows of the same shape as RowReader produces and
// writes them in header order.
type RowWriter interface {
	WriteRow(row map[string]string) error
	Close() error
}
