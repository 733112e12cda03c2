// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sock

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Family identifies which of the three address kinds an Address holds.
type Family int

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
	FamilyUnix
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	case FamilyUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// maxUnixPathLen matches sizeof(sockaddr_un.sun_path)-1 on Linux; listen_ud/
// connect_ud in the C socket library this is modeled on reject anything
// longer with an ESize-equivalent error.
const maxUnixPathLen = 107

// Address is a tagged union over IPv4, IPv6 and Unix-domain socket
// addresses, mirroring SocketAddressIp/SocketAddressUnix's shared base.
type Address struct {
	family Family
	ip     net.IP
	zone   string
	port   uint16
	path   string
}

// Family returns the address kind.
func (a Address) Family() Family { return a.family }

// IP returns the parsed IP for IPv4/IPv6 addresses; nil for Unix.
func (a Address) IP() net.IP { return a.ip }

// Zone returns the IPv6 zone identifier, if any.
func (a Address) Zone() string { return a.zone }

// Port returns the port number for IPv4/IPv6 addresses.
func (a Address) Port() uint16 { return a.port }

// Path returns the filesystem path for Unix-domain addresses.
func (a Address) Path() string { return a.path }

// NewIPv4 builds an IPv4 Address from an IP and a port.
func NewIPv4(ip net.IP, port uint16) Address {
	return Address{family: FamilyIPv4, ip: ip.To4(), port: port}
}

// NewIPv6 builds an IPv6 Address from an IP, an optional zone and a port.
func NewIPv6(ip net.IP, zone string, port uint16) Address {
	return Address{family: FamilyIPv6, ip: ip.To16(), zone: zone, port: port}
}

// NewUnix builds a Unix-domain Address from a filesystem path.
func NewUnix(path string) (Address, error) {
	if len(path) == 0 || len(path) > maxUnixPathLen {
		return Address{}, &Error{Kind: KindSize, Op: "sock.NewUnix", Err: fmt.Errorf("path length %d exceeds limit %d", len(path), maxUnixPathLen)}
	}
	return Address{family: FamilyUnix, path: path}, nil
}

// ParseAddress parses the textual forms from the external-interfaces grammar:
// IPv4 dotted-quad with optional ":PORT", RFC 4291 IPv6 (including "::"
// compression, "%zone" and an IPv4-mapped tail) optionally bracketed with a
// port, or a filesystem path beginning with "/", "./" or "../" taken as a
// Unix-domain address. An IPv4-mapped address ("::ffff:A.B.C.D") parses
// as an IPv4 Address.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("empty address")}
	}

	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") {
		return NewUnix(s)
	}

	if strings.HasPrefix(s, "[") {
		return parseBracketedIPv6(s)
	}

	// Try "host:port" first; net.SplitHostPort correctly distinguishes a
	// trailing ":port" from embedded IPv6 colons because the host here is
	// never bracketed and never itself contains multiple unbracketed colons
	// unless it's bare IPv6 (no port), which we handle as the fallback.
	if host, portStr, err := net.SplitHostPort(s); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return addressFromIP(ip, "", portStr)
		}
	}

	zone := ""
	host := s
	if idx := strings.IndexByte(s, '%'); idx >= 0 {
		host, zone = s[:idx], s[idx+1:]
	}
	if ip := net.ParseIP(host); ip != nil {
		return addressFromIP(ip, zone, "")
	}

	return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("unrecognized address %q", s)}
}

// ResolveAddress turns host (a numeric literal or a hostname) and port
// into an Address. A numeric literal always resolves locally, regardless
// of resolveEnable. A hostname only resolves via DNS when resolveEnable
// is true -- mirroring listen_ip/connect_ip's resolve()-vs-convert()
// split, where disabling resolution means addresses are "assumed to be
// numeric, so simply need conversion". With resolution disabled, a
// non-numeric host fails with a not-found error instead of ever reaching
// the resolver.
func ResolveAddress(host string, port uint16, resolveEnable bool) (Address, error) {
	if ip := net.ParseIP(host); ip != nil {
		return addressFromIP(ip, "", strconv.Itoa(int(port)))
	}
	if !resolveEnable {
		return Address{}, &Error{Kind: KindNotFound, Op: "sock.ResolveAddress", Err: fmt.Errorf("%q is not numeric and resolution is disabled", host)}
	}
	ips, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
	if err != nil {
		return Address{}, &Error{Kind: KindNotFound, Op: "sock.ResolveAddress", Err: err}
	}
	if len(ips) == 0 {
		return Address{}, &Error{Kind: KindNotFound, Op: "sock.ResolveAddress", Err: fmt.Errorf("no addresses found for %q", host)}
	}
	return addressFromIP(ips[0].IP, ips[0].Zone, strconv.Itoa(int(port)))
}

func parseBracketedIPv6(s string) (Address, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("missing closing ']' in %q", s)}
	}
	inner := s[1:end]
	rest := s[end+1:]

	zone := ""
	if idx := strings.IndexByte(inner, '%'); idx >= 0 {
		inner, zone = inner[:idx], inner[idx+1:]
	}
	ip := net.ParseIP(inner)
	if ip == nil || !strings.Contains(inner, ":") {
		return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("invalid IPv6 address %q", inner)}
	}

	portStr := ""
	if strings.HasPrefix(rest, ":") {
		portStr = rest[1:]
	} else if rest != "" {
		return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("unexpected trailer %q", rest)}
	}
	return addressFromIP(ip, zone, portStr)
}

func addressFromIP(ip net.IP, zone, portStr string) (Address, error) {
	var port uint16
	if portStr != "" {
		p, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return Address{}, &Error{Kind: KindInval, Op: "sock.ParseAddress", Err: fmt.Errorf("bad port %q: %w", portStr, err)}
		}
		port = uint16(p)
	}
	if v4 := ip.To4(); v4 != nil && zone == "" && ip.To16() != nil && !strings.Contains(ip.String(), ":") {
		return NewIPv4(v4, port), nil
	}
	return NewIPv6(ip.To16(), zone, port), nil
}

// String formats the Address back to its canonical textual form: dotted-quad
// with optional ":port" for IPv4; bracketed "[addr%zone]:port" for IPv6 when
// a port is present (unbracketed otherwise); the raw path for Unix.
func (a Address) String() string {
	switch a.family {
	case FamilyIPv4:
		if a.port == 0 {
			return a.ip.String()
		}
		return net.JoinHostPort(a.ip.String(), strconv.Itoa(int(a.port)))
	case FamilyIPv6:
		host := a.ip.String()
		if a.zone != "" {
			host += "%" + a.zone
		}
		if a.port == 0 {
			return host
		}
		return "[" + host + "]:" + strconv.Itoa(int(a.port))
	case FamilyUnix:
		return a.path
	default:
		return ""
	}
}
