/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <port>",
	Short: "Open a port and check the line settings the OS retained",
	Long: `Open the port, apply raw 8-N-1 settings at --baud, then read the settings
back and report any field the device did not keep.

Open itself only warns when the device rejects settings (unless --strict);
use this command when the exact configuration matters.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newSession(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ok, err := runVerify(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorMark, err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// runVerify reports false when the settings differ from the request
func runVerify(s *uart.Session) (bool, error) {
	if err := s.Open(); err != nil {
		return false, err
	}
	defer s.Close()

	attrs, err := s.Attributes()
	if err != nil {
		return false, err
	}

	fmt.Printf("Line settings on %s:\n", s.Device())
	fmt.Printf("  Baud:      %d\n", attrs.BaudRate)
	fmt.Printf("  Framing:   %d-%s-%d\n", attrs.DataBits, parityLetter(attrs.Parity), attrs.StopBits)
	fmt.Printf("  Canonical: %v\n", attrs.Canonical)
	fmt.Printf("  Echo:      %v\n", attrs.Echo)
	fmt.Printf("  OPOST:     %v\n", attrs.OutputProcessing)
	fmt.Printf("  BRKINT:    %v\n", attrs.BreakInterrupt)
	fmt.Printf("  VMIN/VTIME: %d/%d\n", attrs.VMin, attrs.VTime)

	var cfgErr *uart.ConfigError
	switch err := s.VerifyConfig(); {
	case err == nil:
		fmt.Printf("%s Settings match\n", styles.SuccessMark)
		return true, nil
	case errors.As(err, &cfgErr) && len(cfgErr.Fields) > 0:
		fmt.Printf("%s %v\n", styles.ErrorMark, err)
		return false, nil
	default:
		return false, err
	}
}

func parityLetter(parity bool) string {
	if parity {
		return "P"
	}
	return "N"
}
