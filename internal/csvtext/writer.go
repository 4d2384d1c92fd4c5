package csvtext

import (
	"bufio"
	"io"
)

// Writer writes records with JoinFields. It satisfies gocsv.CSVWriter, so
// struct-tagged rows can be marshalled through it.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(row []string) error {
	if w.err != nil {
		return w.err
	}

	if _, err := w.w.WriteString(JoinFields(row)); err != nil {
		w.err = err
		return err
	}

	if err := w.w.WriteByte('\n'); err != nil {
		w.err = err
		return err
	}

	return nil
}

func (w *Writer) Flush() {
	if w.err != nil {
		return
	}

	w.err = w.w.Flush()
}

func (w *Writer) Error() error {
	return w.err
}
