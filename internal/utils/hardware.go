package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"net"
	"strings"
)

const unknownDevice = "UNKNOWN-DEVICE"

func macAddress() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, i := range interfaces {
		// first active physical interface
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			return i.HardwareAddr.String()
		}
	}
	return ""
}

// GetDeviceID hashes the machine's MAC address into a short till id like
// "POS-A1B2C3D4".
func GetDeviceID() string {
	mac := macAddress()
	if mac == "" {
		return unknownDevice
	}
	hash := sha256.Sum256([]byte(mac + "POS-LITE-SALT"))
	return "POS-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}

// NodeID maps the device id onto the 10-bit snowflake node range, so two
// tills sharing a database get different invoice id streams.
func NodeID() int64 {
	id := GetDeviceID()
	if id == unknownDevice {
		return 0
	}
	hash := sha256.Sum256([]byte(id))
	return int64(binary.BigEndian.Uint16(hash[:2]) & 0x3ff)
}
