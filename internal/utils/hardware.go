package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

const unknownTerminal = "POS-UNKNOWN"

// TerminalID names this till by hashing the MAC of the first interface that
// is up, e.g. "POS-A1B2C3D4". It is stable across restarts of the same box.
func TerminalID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return unknownTerminal
	}
	return terminalIDFrom(interfaces)
}

func terminalIDFrom(interfaces []net.Interface) string {
	var mac string
	for _, i := range interfaces {
		if i.Flags&net.FlagUp != 0 && i.Flags&net.FlagLoopback == 0 && len(i.HardwareAddr) > 0 {
			mac = i.HardwareAddr.String()
			break
		}
	}
	if mac == "" {
		return unknownTerminal
	}

	sum := sha256.Sum256([]byte(mac + "|pos-terminal"))
	return "POS-" + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}
