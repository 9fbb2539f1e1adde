package commands

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/afc-network/afcctl/pkg/util"
)

func vlanRange(v interface{}) error {
	_, err := util.ExpandVLANRange(v.(string))
	return err
}

func vlanID(v interface{}) error {
	return util.ValidateVLANID(v.(int))
}

func ipAddress(v interface{}) error {
	if !util.IsValidIP(v.(string)) {
		return fmt.Errorf("'%s' is not a valid IP address", v)
	}
	return nil
}

// ipAddressOrRange accepts one address or an inclusive "first-last" range
// of the same family.
func ipAddressOrRange(v interface{}) error {
	s := v.(string)
	first, last, isRange := strings.Cut(s, "-")
	if !isRange {
		return ipAddress(s)
	}
	lo, err1 := netip.ParseAddr(strings.TrimSpace(first))
	hi, err2 := netip.ParseAddr(strings.TrimSpace(last))
	if err1 != nil || err2 != nil || lo.Is4() != hi.Is4() {
		return fmt.Errorf("'%s' is not a valid IP address range", s)
	}
	if hi.Less(lo) {
		return fmt.Errorf("'%s' ends before it starts", s)
	}
	return nil
}

func ipv4Address(v interface{}) error {
	if !util.IsValidIPv4(v.(string)) {
		return fmt.Errorf("'%s' is not a valid IPv4 address", v)
	}
	return nil
}

func ipAddresses(v interface{}) error {
	for _, item := range v.([]interface{}) {
		s, ok := item.(string)
		if !ok || !util.IsValidIP(s) {
			return fmt.Errorf("'%v' is not a valid IP address", item)
		}
	}
	return nil
}

func host(v interface{}) error {
	if !util.IsValidHost(v.(string)) {
		return fmt.Errorf("'%s' is not a valid host name or address", v)
	}
	return nil
}

func asNumber(v interface{}) error {
	n, err := strconv.Atoi(v.(string))
	if err != nil {
		return fmt.Errorf("'%s' is not an AS number", v)
	}
	return util.ValidateASN(n)
}

func prefixLength(v interface{}) error {
	return util.ValidatePrefixLength(v.(int))
}

func port(v interface{}) error {
	n := v.(int)
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", n)
	}
	return nil
}

func nonEmpty(v interface{}) error {
	if len(v.([]interface{})) == 0 {
		return fmt.Errorf("must not be empty")
	}
	return nil
}
