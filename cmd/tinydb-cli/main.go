package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tinyDB/internal/server"
)

const banner = `tinyDB client
Type statements terminated by ';'. Type 'exit' or 'quit' to close.
`

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server address")
	timeout := flag.Duration("timeout", 5*time.Second, "connect timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	c, err := server.Dial(ctx, *addr)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinydb-cli:", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := repl(c, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tinydb-cli:", err)
		os.Exit(1)
	}
}

func repl(c *server.Client, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, banner)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), server.MaxLineBytes)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		resp, err := c.Exec(input)
		if err != nil {
			return err
		}
		printResponse(out, resp)
	}
}

func printResponse(out io.Writer, resp *server.Response) {
	switch {
	case !resp.OK && resp.Error != nil:
		fmt.Fprintf(out, "error: %s\n", resp.Error)
	case !resp.OK:
		fmt.Fprintln(out, "error: unknown failure")
	case resp.Kind == "select":
		for _, row := range resp.Rows {
			fmt.Fprintln(out, strings.Join(row, " "))
		}
		fmt.Fprintf(out, "total: %d\n", resp.Total)
	default:
		fmt.Fprintln(out, resp.Message)
	}
}
