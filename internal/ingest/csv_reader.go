package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	custom_error "leltar/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type record struct {
	fields []string
	line   int
}

// readRecords loads a whole CSV file. A zero delimiter means it is sniffed
// from the first line. Rows whose cells are all blank are left out.
func readRecords(file string, r io.Reader, delimiter rune) ([]record, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	if delimiter == 0 {
		var err error
		if delimiter, err = sniffDelimiter(br); err != nil {
			return nil, &custom_error.ParseError{File: file, Message: "unable to read file", Err: err}
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var records []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &custom_error.ParseError{File: file, Message: "invalid CSV", Err: err}
		}
		if blankRecord(fields) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{fields: fields, line: line})
	}
	return records, nil
}

// sniffDelimiter picks ';' or ',' by counting them on the first line.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, err
	}
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte{','}) > bytes.Count(line, []byte{';'}) {
		return ',', nil
	}
	return ';', nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
