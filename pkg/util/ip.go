package util

import (
	"fmt"
	"net"
	"strings"
)

// IsValidIP checks if a string is a valid IPv4 or IPv6 address
func IsValidIP(ipStr string) bool {
	return net.ParseIP(ipStr) != nil
}

// IsValidIPv4 checks if a string is a valid IPv4 address
func IsValidIPv4(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	return ip != nil && ip.To4() != nil
}

// IsValidHost accepts an IP address or a DNS hostname.
func IsValidHost(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	if IsValidIP(host) {
		return true
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-') {
				return false
			}
		}
	}
	return true
}

const maxASN = 4294967295 // max uint32, 4-byte ASN range

// ValidateASN checks if an AS number is valid (1 to 4294967295).
func ValidateASN(asn int) error {
	if asn < 1 || asn > maxASN {
		return fmt.Errorf("AS number must be between 1 and %d, got %d", maxASN, asn)
	}
	return nil
}

// ValidatePrefixLength checks an IPv4 prefix length
func ValidatePrefixLength(length int) error {
	if length < 0 || length > 32 {
		return fmt.Errorf("prefix length must be between 0 and 32, got %d", length)
	}
	return nil
}
