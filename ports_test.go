package uart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListPorts(t *testing.T) {
	ports, err := ListPorts()
	if err != nil {
		t.Errorf("ListPorts failed: %v", err)
	}

	for _, port := range ports {
		if !strings.HasPrefix(port, "/dev/") {
			t.Errorf("Port path doesn't start with /dev/: %s", port)
		}
		if !isCharacterDevice(port) {
			t.Errorf("Port is not a character device: %s", port)
		}
	}

	for i := 1; i < len(ports); i++ {
		if ports[i-1] > ports[i] {
			t.Errorf("Ports are not sorted: %s > %s", ports[i-1], ports[i])
		}
	}
}

func TestScanPortsSkipsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ttyUSB0", "ttyS1", "tty1"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	ports, err := scanPorts(dir)
	if err != nil {
		t.Fatalf("scanPorts failed: %v", err)
	}
	if len(ports) != 0 {
		t.Errorf("Expected no ports from regular files, got %v", ports)
	}

	if _, err := scanPorts(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},
		{"/dev/zero", true},
		{os.TempDir(), false},
		{"/nonexistent", false},
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestIsSerialName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"ttyUSB0", true},
		{"ttyUSB12", true},
		{"ttyACM0", true},
		{"ttyS0", true},
		{"ttyAMA0", true},
		{"ttymxc3", true},
		{"ttyO2", true},
		{"ttySAC1", true},
		{"ttyTHS0", true},
		{"tty1", false},
		{"console", false},
		{"ptmx", false},
		{"ptyp0", false},
		{"ttyUSB", false},
		{"random", false},
	}

	for _, test := range tests {
		if got := isSerialName(test.name); got != test.expected {
			t.Errorf("isSerialName(%s) = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc0", "i.MX Serial Port"},
		{"ttyO0", "OMAP Serial Port"},
		{"ttySAC0", "Samsung Serial Port"},
		{"ttyTHS0", "Tegra Serial Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := getPortDescription(test.name)
		if result != test.expected {
			t.Errorf("getPortDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestGetPortInfo(t *testing.T) {
	info, err := GetPortInfo("/dev/null")
	if err != nil {
		t.Fatalf("GetPortInfo failed for /dev/null: %v", err)
	}
	if info.Name != "null" {
		t.Errorf("Expected name 'null', got '%s'", info.Name)
	}
	if info.Path != "/dev/null" {
		t.Errorf("Expected path '/dev/null', got '%s'", info.Path)
	}
	if info.Description == "" {
		t.Error("Description should not be empty")
	}
	if info.IsUSB() {
		t.Error("/dev/null should not carry USB metadata")
	}

	_, err = GetPortInfo("/dev/nonexistent")
	if err != ErrDeviceNotFound {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestReadSysfsFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  *string
		expected string
	}{
		{"normal", strPtr("1234\n"), "1234"},
		{"spaces", strPtr("  test value  \n"), "test value"},
		{"empty", strPtr(""), ""},
		{"missing", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatalf("Setup failed: %v", err)
				}
			}
			if got := readSysfsFile(path); got != tt.expected {
				t.Errorf("readSysfsFile() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

// buildSysfs lays out a fake sysfs tree: ttyName's device link points at
// linkTarget, relative to the USB device directory.
func buildSysfs(t *testing.T, ttyName, linkTarget string) string {
	t.Helper()
	root := t.TempDir()

	usbDevice := filepath.Join(root, "devices", "usb5", "5-2.3.1")
	iface := filepath.Join(usbDevice, "5-2.3.1:1.0")
	target := filepath.Join(usbDevice, linkTarget)
	classTty := filepath.Join(root, "class", "tty", ttyName)

	for _, dir := range []string{target, classTty} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	files := map[string]string{
		"idVendor":     "0403",
		"idProduct":    "6010",
		"serial":       "FT123456",
		"manufacturer": "FTDI",
		"product":      "FT2232C Dual USB-UART",
		"busnum":       "5",
		"devnum":       "7",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(usbDevice, name), []byte(content+"\n"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(iface, "bInterfaceNumber"), []byte("00\n"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(classTty, "device")); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return root
}

func TestEnrichUSBInfo(t *testing.T) {
	tests := []struct {
		tty    string
		target string
	}{
		{"ttyUSB0", filepath.Join("5-2.3.1:1.0", "ttyUSB0")}, // usb-serial: link to child of interface
		{"ttyACM0", "5-2.3.1:1.0"},                           // cdc-acm: link to interface
	}

	for _, tt := range tests {
		t.Run(tt.tty, func(t *testing.T) {
			root := buildSysfs(t, tt.tty, tt.target)
			info := &PortInfo{Name: tt.tty, Path: "/dev/" + tt.tty}
			enrichUSBInfo(root, info)

			checks := []struct {
				field    string
				got      string
				expected string
			}{
				{"VendorID", info.VendorID, "0403"},
				{"ProductID", info.ProductID, "6010"},
				{"SerialNumber", info.SerialNumber, "FT123456"},
				{"InterfaceNumber", info.InterfaceNumber, "00"},
				{"BusNumber", info.BusNumber, "5"},
				{"DeviceNumber", info.DeviceNumber, "7"},
				{"Manufacturer", info.Manufacturer, "FTDI"},
				{"Product", info.Product, "FT2232C Dual USB-UART"},
			}
			for _, c := range checks {
				if c.got != c.expected {
					t.Errorf("%s = %q, expected %q", c.field, c.got, c.expected)
				}
			}
			if !info.IsUSB() {
				t.Error("Expected IsUSB to be true")
			}
		})
	}
}

func TestEnrichUSBInfoGracefulFailure(t *testing.T) {
	info := &PortInfo{Name: "ttyUSB999", Path: "/dev/ttyUSB999"}
	enrichUSBInfo(t.TempDir(), info)

	if info.VendorID != "" || info.ProductID != "" || info.SerialNumber != "" {
		t.Errorf("Expected empty USB fields, got %+v", info)
	}
}
