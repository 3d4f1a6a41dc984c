/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/bytefmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// receiveCmd represents the receive command
var receiveCmd = &cobra.Command{
	Use:   "receive <port> [output-file]",
	Short: "Receive serial data to stdout or a file",
	Long: `Receive raw bytes from the port until interrupted (Ctrl+C), until
--count bytes have arrived, or until --duration has elapsed.

With an output file, data is appended to it; --console also echoes to stdout.

Example usage:
  uartctl receive /dev/ttyUSB0
  uartctl receive /dev/ttyUSB0 capture.log --console
  uartctl receive /dev/ttyUSB0 --count 16 --hex
  uartctl receive /dev/ttyUSB0 --duration 5s --timeout 200ms`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]
		outputPath := ""
		if len(args) == 2 {
			outputPath = args[1]
		}

		opts := receiveOptions{}
		opts.count, _ = cmd.Flags().GetInt("count")
		opts.duration, _ = cmd.Flags().GetDuration("duration")
		opts.hex, _ = cmd.Flags().GetBool("hex")
		opts.console, _ = cmd.Flags().GetBool("console")

		if err := runReceive(portPath, outputPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(receiveCmd)

	receiveCmd.Flags().Int("count", 0, "Stop after this many bytes (0 = unlimited)")
	receiveCmd.Flags().Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	receiveCmd.Flags().BoolP("hex", "x", false, "Print received bytes as hex")
	receiveCmd.Flags().BoolP("console", "c", false, "Also print to stdout when writing to a file")
}

type receiveOptions struct {
	count    int
	duration time.Duration
	hex      bool
	console  bool
}

func runReceive(portPath, outputPath string, opts receiveOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	var sinks []io.Writer
	if outputPath != "" {
		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()
		sinks = append(sinks, file)
	}
	if outputPath == "" || opts.console {
		sinks = append(sinks, os.Stdout)
	}

	return withSession(portPath, func(s *uart.Session) error {
		fmt.Fprintf(os.Stderr, "Receiving from %s, press Ctrl+C to stop\n", portPath)
		total, err := receiveLoop(ctx, s, sinks, opts)
		fmt.Fprintf(os.Stderr, "\nReceived %d bytes\n", total)
		return err
	})
}

// receiveLoop copies receive windows to sinks until ctx is done or count
// bytes have been received
func receiveLoop(ctx context.Context, s interface{ Receive() ([]byte, error) }, sinks []io.Writer, opts receiveOptions) (int, error) {
	total := 0
	for ctx.Err() == nil {
		data, err := s.Receive()
		if err != nil {
			return total, fmt.Errorf("read error: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		if opts.count > 0 && total+len(data) > opts.count {
			data = data[:opts.count-total]
		}
		total += len(data)

		out := data
		if opts.hex {
			out = []byte(bytefmt.Hex(data) + "\n")
		}
		for _, w := range sinks {
			if _, err := w.Write(out); err != nil {
				return total, fmt.Errorf("write error: %w", err)
			}
		}
		logger.Debug("received", zap.Int("bytes", len(data)), zap.Int("total", total))

		if opts.count > 0 && total >= opts.count {
			break
		}
	}
	return total, nil
}
