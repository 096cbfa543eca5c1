// Package export renders reports as CSV and XLSX files and builds the
// third-party URLs used by the form actions.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVContentType is the content type of every CSV this package writes.
const CSVContentType = "text/csv;charset=utf-8"

const csvBufferSize = 16 * 1024

// csvStreamer writes rows with every cell wrapped in double quotes, rows
// separated by "\n", and a UTF-8 byte order mark at the start of the stream.
type csvStreamer struct {
	out io.WriteCloser
	buf *bufio.Writer
	sb  strings.Builder
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	out := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	return &csvStreamer{out: out, buf: bufio.NewWriterSize(out, csvBufferSize)}
}

// writeRow writes one row. An empty row produces an empty line.
func (s *csvStreamer) writeRow(cells ...string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.sb.Reset()
	for i, c := range cells {
		if i > 0 {
			s.sb.WriteByte(',')
		}
		s.sb.WriteByte('"')
		s.sb.WriteString(strings.ReplaceAll(c, `"`, `""`))
		s.sb.WriteByte('"')
	}
	s.sb.WriteByte('\n')
	_, err := s.buf.WriteString(s.sb.String())
	return err
}

func (s *csvStreamer) Close() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	return s.out.Close()
}
