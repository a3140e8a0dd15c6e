package instance

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

var (
	ErrTruncated       = errors.New("instance file shorter than its declared counts")
	ErrMalformedLine   = errors.New("malformed instance line")
	ErrInvalidInstance = errors.New("invalid instance")
)

// Cursor is a forward-only record reader over the instance grammar.
// a record is one non-blank line; sections pull exactly the number of records their header declares.
type Cursor struct {
	br   *bufio.Reader
	line int
	eof  bool
}

func NewCursor(r io.Reader) *Cursor {
	return &Cursor{br: bufio.NewReader(r)}
}

// Line returns the 1-based number of the last line handed out by Next.
func (c *Cursor) Line() int {
	return c.line
}

// Next returns the whitespace separated fields of the next record.
// section names the grammar section in the error when the input ends early.
func (c *Cursor) Next(section string) ([]string, error) {
	for !c.eof {
		line, err := util.ReadLine(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.eof = true
				break
			}
			return nil, err
		}
		c.line++
		if strings.TrimSpace(line) == "" {
			continue
		}
		return util.Fields(line), nil
	}
	return nil, util.WrapErrorf(nil, ErrTruncated, "%s: unexpected end of file after line %d", section, c.line)
}

// NextN is Next plus a check that the record has exactly n fields.
func (c *Cursor) NextN(section string, n int) ([]string, error) {
	tokens, err := c.Next(section)
	if err != nil {
		return nil, err
	}
	if len(tokens) != n {
		return nil, util.WrapErrorf(nil, ErrMalformedLine, "%s: line %d: expected %d fields, got %d",
			section, c.line, n, len(tokens))
	}
	return tokens, nil
}

// Remaining drains the reader and counts the records that were never consumed.
func (c *Cursor) Remaining() (int, error) {
	count := 0
	for !c.eof {
		line, err := util.ReadLine(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.eof = true
				break
			}
			return count, err
		}
		c.line++
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count, nil
}
