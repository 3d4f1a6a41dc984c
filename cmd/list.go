/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List serial ports found under /dev.

Matches USB adapters (ttyUSB*), CDC/ACM devices (ttyACM*), standard ports
(ttyS*) and common SoC UARTs. Virtual and pseudo-terminals are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := uart.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		infos := filterPorts(ports, filterType)
		if len(infos) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n", len(infos))
			fmt.Println(renderPortTable(infos))
			return
		}
		for _, info := range infos {
			fmt.Println(info.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().Bool("table", false, "Display output as a table")
}

// filterPorts resolves port info and keeps the ports matching filterType
func filterPorts(ports []string, filterType string) []*uart.PortInfo {
	var infos []*uart.PortInfo
	for _, port := range ports {
		info, err := uart.GetPortInfo(port)
		if err != nil {
			logger.Debug("skipping port", zap.String("port", port), zap.Error(err))
			continue
		}
		if matchesFilter(info.Name, filterType) {
			infos = append(infos, info)
		}
	}
	return infos
}

func matchesFilter(name, filterType string) bool {
	name = strings.ToLower(name)
	switch strings.ToLower(filterType) {
	case "", "all":
		return true
	case "usb":
		return strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
	case "standard":
		return strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac")
	case "arm":
		return strings.HasPrefix(name, "ttyama")
	default:
		return false
	}
}

func renderPortTable(infos []*uart.PortInfo) string {
	columns := []table.Column{
		table.NewColumn("port", "Port", 14),
		table.NewColumn("type", "Type", 22),
		table.NewColumn("usb", "VID:PID", 11),
		table.NewColumn("serial", "Serial", 14),
		table.NewColumn("product", "Product", 28),
	}

	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		usbID := ""
		if info.IsUSB() {
			usbID = info.VendorID + ":" + info.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			"port":    info.Name,
			"type":    info.Description,
			"usb":     usbID,
			"serial":  info.SerialNumber,
			"product": info.Product,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		View()
}
