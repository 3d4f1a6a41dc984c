/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/bytefmt"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port in a single write.

Data can be provided as:
- Command line argument: uartctl send "Hello World" /dev/ttyUSB0
- From stdin (pipe): echo "test data" | uartctl send /dev/ttyUSB0
- Interactive mode: uartctl send /dev/ttyUSB0 (prompts for input)

A write the device does not accept in full is reported as a failure.

Example usage:
  uartctl send "AT+GMR" /dev/ttyUSB0 --newline
  uartctl send "48656c6c6f" /dev/ttyUSB0 --hex`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var input, portPath string

		if len(args) == 1 {
			portPath = args[0]
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				input = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
					os.Exit(1)
				}
				input = strings.TrimRight(string(stdinData), "\r\n")
			}
		} else {
			input = args[0]
			portPath = args[1]
		}

		hexMode, _ := cmd.Flags().GetBool("hex")
		addNewline, _ := cmd.Flags().GetBool("newline")

		data, err := bytefmt.Payload(input, hexMode, addNewline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := sendData(portPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorMark, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

func promptForData() string {
	fmt.Print(styles.PromptStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

func sendData(portPath string, data []byte) error {
	fmt.Printf("%s Opening %s...\n", styles.InfoMark, portPath)

	return withSession(portPath, func(s *uart.Session) error {
		fmt.Printf("%s Connected at %d baud\n", styles.SuccessMark, s.BaudRate())
		fmt.Printf("%s Sending %d bytes...\n", styles.InfoMark, len(data))

		n, err := s.Send(data)
		if err != nil {
			return fmt.Errorf("failed to send data: %w", err)
		}

		fmt.Printf("%s Successfully sent %d bytes\n", styles.SuccessMark, n)
		fmt.Printf("%s Data: %s\n", styles.InfoMark, bytefmt.Printable(data, 50))
		return nil
	})
}
