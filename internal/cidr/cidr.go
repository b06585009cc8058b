package cidr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eleven-am/routeshift/internal/domain"
)

// Addr is an IPv4 address in host byte order.
type Addr uint32

func (a Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

type Prefix struct {
	Network Addr
	Bits    int
}

func (p Prefix) String() string {
	return fmt.Sprintf("%s/%d", p.Network, p.Bits)
}

func (p Prefix) Mask() uint32 {
	if p.Bits == 0 {
		return 0
	}
	return 0xFFFFFFFF << (32 - p.Bits)
}

// HostBitsSet reports whether the network address carries bits below the
// prefix length, e.g. 10.0.0.5/16.
func (p Prefix) HostBitsSet() bool {
	return uint32(p.Network)&^p.Mask() != 0
}

// Masked returns the prefix with host bits cleared.
func (p Prefix) Masked() Prefix {
	return Prefix{Network: Addr(uint32(p.Network) & p.Mask()), Bits: p.Bits}
}

func (p Prefix) Contains(a Addr) bool {
	mask := p.Mask()
	return uint32(a)&mask == uint32(p.Network)&mask
}

// ParseAddr accepts exactly four dot-separated decimal octets.
func ParseAddr(s string) (Addr, error) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	var addr uint32
	for _, octet := range octets {
		if octet == "" || len(octet) > 3 || !isDigits(octet) {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
		}
		v, err := strconv.Atoi(octet)
		if err != nil || v > 255 {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
		}
		addr = addr<<8 | uint32(v)
	}
	return Addr(addr), nil
}

func ParsePrefix(s string) (Prefix, error) {
	if strings.Count(s, "/") != 1 {
		return Prefix{}, fmt.Errorf("%w: %q: expected network/prefix", domain.ErrInvalidCIDR, s)
	}
	network, bits, _ := strings.Cut(s, "/")

	if bits == "" || !isDigits(bits) {
		return Prefix{}, fmt.Errorf("%w: %q: prefix length is not a number", domain.ErrInvalidCIDR, s)
	}
	n, err := strconv.Atoi(bits)
	if err != nil || n < 0 || n > 32 {
		return Prefix{}, fmt.Errorf("%w: %q: prefix length out of range [0,32]", domain.ErrInvalidCIDR, s)
	}

	addr, err := ParseAddr(network)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidCIDR, s, err)
	}
	return Prefix{Network: addr, Bits: n}, nil
}

// Matches reports whether address falls inside cidr. Both the candidate and
// the network are masked before comparison, so 10.0.0.5/0 still matches
// everything.
func Matches(address, cidr string) (bool, error) {
	prefix, err := ParsePrefix(cidr)
	if err != nil {
		return false, err
	}
	addr, err := ParseAddr(address)
	if err != nil {
		return false, err
	}
	return prefix.Contains(addr), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
