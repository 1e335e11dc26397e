package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
)

// Client speaks the line protocol to a running server. It is not safe for
// concurrent use.
type Client struct {
	conn net.Conn
	dec  *json.Decoder
}

// Dial connects to a server at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn, dec: json.NewDecoder(bufio.NewReader(conn))}, nil
}

// Exec sends one statement and waits for its response. A statement-level
// failure comes back as a Response with OK false, not as an error; the
// error return is for transport problems.
func (c *Client) Exec(stmt string) (*Response, error) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil, fmt.Errorf("empty statement")
	}
	if strings.ContainsAny(stmt, "\r\n") {
		return nil, fmt.Errorf("statement must be a single line")
	}
	if _, err := c.conn.Write([]byte(stmt + "\n")); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	return &resp, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
