/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/go-uart"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display information about a serial port, including USB metadata read
from sysfs when the port is a USB adapter.

Examples:
  uartctl info /dev/ttyUSB0
  uartctl info /dev/ttyACM0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		info, err := uart.GetPortInfo(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Port Information: %s\n\n", info.Path)
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if !info.IsUSB() {
			return
		}
		fmt.Println("\nUSB Device Information:")
		printField("Vendor ID", info.VendorID)
		printField("Product ID", info.ProductID)
		printField("Serial", info.SerialNumber)
		printField("Interface", info.InterfaceNumber)
		printField("Bus", info.BusNumber)
		printField("Device", info.DeviceNumber)
		printField("Manufacturer", info.Manufacturer)
		printField("Product", info.Product)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printField(label, value string) {
	if value != "" {
		fmt.Printf("  %-13s %s\n", label+":", value)
	}
}
