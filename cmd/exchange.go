/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/frame"
	"github.com/allbin/go-uart/internal/bytefmt"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/spf13/cobra"
)

// exchangeCmd represents the exchange command
var exchangeCmd = &cobra.Command{
	Use:   "exchange <data> <port>",
	Short: "Send a request and print the response",
	Long: `Send data, then keep reading until a response arrives or --wait expires.

There is no fixed delay between the write and the read; each read window is
--timeout long and the command returns as soon as data shows up.

Framing:
  none    print the first chunk that arrives (default)
  line    send data + "\n" and wait for a complete "\n"-terminated line
  length  2-byte big-endian length prefix in both directions

Example usage:
  uartctl exchange "Hello UART" /dev/ttyS0
  uartctl exchange "AT" /dev/ttyUSB0 --frame line --wait 5s
  uartctl exchange "0206000300000099" /dev/ttyUSB0 --hex`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		hexMode, _ := cmd.Flags().GetBool("hex")
		wait, _ := cmd.Flags().GetDuration("wait")
		framing, _ := cmd.Flags().GetString("frame")

		data, err := bytefmt.Payload(args[0], hexMode, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		resp, err := runExchange(args[1], data, framing, wait)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorMark, err)
			os.Exit(1)
		}

		fmt.Printf("%s Received %d bytes\n", styles.SuccessMark, len(resp))
		fmt.Printf("  HEX:   %s\n", bytefmt.Hex(resp))
		fmt.Printf("  ASCII: %s\n", bytefmt.Printable(resp, 0))
	},
}

func init() {
	rootCmd.AddCommand(exchangeCmd)

	exchangeCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal")
	exchangeCmd.Flags().DurationP("wait", "w", 2*time.Second, "How long to wait for a response")
	exchangeCmd.Flags().StringP("frame", "f", "none", "Framing: none, line, length")
}

func newCodec(framing string) (frame.Codec, error) {
	switch strings.ToLower(framing) {
	case "", "none":
		return nil, nil
	case "line":
		return frame.NewLines(), nil
	case "length":
		return frame.NewLengthPrefixed(), nil
	default:
		return nil, fmt.Errorf("unknown framing %q", framing)
	}
}

func runExchange(portPath string, data []byte, framing string, wait time.Duration) ([]byte, error) {
	codec, err := newCodec(framing)
	if err != nil {
		return nil, err
	}

	var resp []byte
	err = withSession(portPath, func(s *uart.Session) error {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()

		var err error
		if codec == nil {
			resp, err = s.Exchange(ctx, data)
		} else {
			resp, err = frame.NewConn(s, codec).Request(ctx, data)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no response from %s within %v", portPath, wait)
		}
		return err
	})
	return resp, err
}
