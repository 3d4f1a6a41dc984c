package uart

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Discovery is a convenience for tools; a Session never enumerates devices.

var (
	devDir    = "/dev"
	sysfsRoot = "/sys"

	serialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
		regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
		regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
		regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
		regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
		regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
		regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
		regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
	}
)

// PortInfo describes a serial device node
type PortInfo struct {
	Name        string
	Path        string
	Description string

	// USB metadata, empty for non-USB ports
	VendorID        string
	ProductID       string
	SerialNumber    string
	Manufacturer    string
	Product         string
	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
}

// IsUSB reports whether USB metadata was found
func (p *PortInfo) IsUSB() bool {
	return p.VendorID != "" || p.ProductID != ""
}

// ListPorts returns the serial character devices under /dev, sorted.
// Virtual terminals and pseudo-terminals are not included.
func ListPorts() ([]string, error) {
	return scanPorts(devDir)
}

func scanPorts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if !isSerialName(entry.Name()) {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

// isSerialName matches device names of real serial ports
func isSerialName(name string) bool {
	for _, pattern := range serialPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(sysfsRoot, info)
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo fills USB metadata from sysfs. class/tty/<name>/device points
// at the USB interface directory (or a child of it for ttyUSB); the USB device
// directory holding idVendor and friends is its parent.
func enrichUSBInfo(root string, info *PortInfo) {
	link := filepath.Join(root, "class", "tty", info.Name, "device")
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return
	}

	iface := resolved
	if readSysfsFile(filepath.Join(iface, "bInterfaceNumber")) == "" {
		iface = filepath.Dir(resolved)
	}
	info.InterfaceNumber = readSysfsFile(filepath.Join(iface, "bInterfaceNumber"))

	usbDevice := filepath.Dir(iface)
	info.VendorID = readSysfsFile(filepath.Join(usbDevice, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(usbDevice, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(usbDevice, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(usbDevice, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(usbDevice, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(usbDevice, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(usbDevice, "devnum"))
}

// readSysfsFile returns the trimmed file content, or "" if unreadable
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
