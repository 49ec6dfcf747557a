package document

import "strconv"

// Device is a preview frame preset.
type Device string

// Preview devices.
const (
	DeviceResponsive Device = "responsive"
	DeviceDesktop    Device = "desktop"
	DeviceTablet     Device = "tablet"
	DeviceMobile     Device = "mobile"
)

// Devices lists the preview devices in picker order.
var Devices = []Device{DeviceResponsive, DeviceDesktop, DeviceTablet, DeviceMobile}

var deviceWidths = map[Device]int{
	DeviceDesktop: 1280,
	DeviceTablet:  834,
	DeviceMobile:  375,
}

// ParseDevice returns the device named s, falling back to responsive for
// anything unrecognised.
func ParseDevice(s string) Device {
	d := Device(s)
	if d == DeviceResponsive {
		return d
	}
	if _, ok := deviceWidths[d]; ok {
		return d
	}
	return DeviceResponsive
}

// Width returns the CSS width of the preview frame.
func (d Device) Width() string {
	if w, ok := deviceWidths[d]; ok {
		return strconv.Itoa(w) + "px"
	}
	return "100%"
}

// PreviewKey identifies a preview render. Structural mutations change it,
// which tells the client to replace the whole frame instead of patching.
func PreviewKey(slug string, version uint64) string {
	return slug + "@" + strconv.FormatUint(version, 10)
}
