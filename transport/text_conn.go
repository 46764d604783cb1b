// Package transport frames a raw network connection into discrete text lines.
package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"unicode/utf8"

	"relay-lab/errors"
)

// TextConn implements contract.LineChannel over a net.Conn with
// newline-delimited UTF-8 framing, symmetric in both directions.
// ReadLine and WriteLine may be called from two different goroutines,
// one reader and one writer, but neither side supports concurrent calls.
type TextConn struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

func NewTextConn(conn net.Conn) *TextConn {
	return &TextConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

// ReadLine blocks until the next newline-terminated line arrives and returns
// it without the terminator (CRLF tolerated). A line that is not valid UTF-8
// is reported with ErrMalformedLine and the stream remains readable.
// Peer disconnection is reported with ErrChannelClosed; a trailing partial
// line before EOF is still delivered.
func (c *TextConn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trim(line), nil
		}
		return "", fmt.Errorf("%w: %v", errors.ErrChannelClosed, err)
	}
	line = trim(line)
	if !utf8.ValidString(line) {
		return "", errors.ErrMalformedLine
	}
	return line, nil
}

// WriteLine sends one line, appending the newline terminator.
func (c *TextConn) WriteLine(line string) error {
	if _, err := c.writer.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("flush line: %w", err)
	}
	return nil
}

func (c *TextConn) Close() error {
	return c.conn.Close()
}

func trim(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
