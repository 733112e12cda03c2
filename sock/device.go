// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sock

import (
	"errors"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Direction selects which half of a full-duplex connection Shutdown closes.
type Direction int

const (
	DirBoth Direction = iota
	DirRead
	DirWrite
)

const BacklogDefault = 5

// Device is a non-blocking-capable façade over a TCP, UDP or Unix-domain
// socket. The zero value is not usable; construct one with Listen, Accept or
// Connect.
type Device struct {
	mu            sync.Mutex
	conn          net.Conn
	ln            net.Listener
	pc            net.PacketConn
	nonblocking   bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
	resolveEnable bool
	lastErr       error
}

// SetNonblocking toggles non-blocking mode: every Read/Write/Accept call
// returns ErrWouldBlock immediately instead of waiting for readiness.
func (d *Device) SetNonblocking(on bool) {
	d.mu.Lock()
	d.nonblocking = on
	d.mu.Unlock()
}

// SetReadTimeout sets the blocking-mode read deadline; 0 means indefinite.
func (d *Device) SetReadTimeout(timeout time.Duration) { d.readTimeout = timeout }

// SetWriteTimeout sets the blocking-mode write deadline; 0 means indefinite.
func (d *Device) SetWriteTimeout(timeout time.Duration) { d.writeTimeout = timeout }

// SetResolveEnable records the resolve setting that ResolveEnable
// reports. It does not change how anything resolves: ListenHost/
// ConnectHost take resolveEnable as a parameter, and Listen/Connect/
// ListenPacket take an already-resolved Address.
func (d *Device) SetResolveEnable(enable bool) { d.resolveEnable = enable }

// ResolveEnable reports the resolve setting recorded for this Device, set
// by ListenHost/ConnectHost or SetResolveEnable.
func (d *Device) ResolveEnable() bool { return d.resolveEnable }

// LastError returns the sticky error set by the most recent failing
// operation; cleared by ClearError or Close.
func (d *Device) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// ClearError clears the sticky error state.
func (d *Device) ClearError() {
	d.mu.Lock()
	d.lastErr = nil
	d.mu.Unlock()
}

func (d *Device) setErr(err error) error {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
	return err
}

// Listen creates a listening TCP or Unix-domain Device bound to addr.
// backlog is accepted but not passed to the OS: net.Listen always uses the
// system's default listen queue length.
func Listen(addr Address, backlog int) (*Device, error) {
	if backlog <= 0 {
		backlog = BacklogDefault
	}
	network, laddr := netAndAddr(addr)
	ln, err := net.Listen(network, laddr)
	if err != nil {
		return nil, &Error{Kind: classifyListenErr(err), Op: "sock.Listen", Err: err}
	}
	return &Device{ln: ln, resolveEnable: true}, nil
}

// ListenPacket creates a UDP or Unix-domain datagram Device bound to addr.
func ListenPacket(addr Address) (*Device, error) {
	network, laddr := netAndAddr(addr)
	if network == "tcp" {
		network = "udp"
	} else if network == "unix" {
		network = "unixgram"
	}
	pc, err := net.ListenPacket(network, laddr)
	if err != nil {
		return nil, &Error{Kind: classifyListenErr(err), Op: "sock.ListenPacket", Err: err}
	}
	return &Device{pc: pc, resolveEnable: true}, nil
}

// Connect dials a TCP or Unix-domain connection to addr.
func Connect(addr Address) (*Device, error) {
	network, raddr := netAndAddr(addr)
	conn, err := net.Dial(network, raddr)
	if err != nil {
		return nil, &Error{Kind: classifyDialErr(err), Op: "sock.Connect", Err: err}
	}
	return &Device{conn: conn, resolveEnable: true}, nil
}

// ListenHost resolves host (honoring resolveEnable) and listens on the
// result, the host-string counterpart of Listen.
func ListenHost(host string, port uint16, resolveEnable bool, backlog int) (*Device, error) {
	addr, err := ResolveAddress(host, port, resolveEnable)
	if err != nil {
		return nil, err
	}
	d, err := Listen(addr, backlog)
	if err != nil {
		return nil, err
	}
	d.resolveEnable = resolveEnable
	return d, nil
}

// ConnectHost resolves host (honoring resolveEnable) and connects to the
// result, the host-string counterpart of Connect.
func ConnectHost(host string, port uint16, resolveEnable bool) (*Device, error) {
	addr, err := ResolveAddress(host, port, resolveEnable)
	if err != nil {
		return nil, err
	}
	d, err := Connect(addr)
	if err != nil {
		return nil, err
	}
	d.resolveEnable = resolveEnable
	return d, nil
}

func netAndAddr(addr Address) (network, s string) {
	switch addr.Family() {
	case FamilyUnix:
		return "unix", addr.Path()
	default:
		return "tcp", addr.String()
	}
}

// Accept waits for and returns the next connection on a listening Device.
// In non-blocking mode it returns ErrWouldBlock immediately if none is
// pending.
func (d *Device) Accept() (*Device, Address, error) {
	if d.ln == nil {
		return nil, Address{}, d.setErr(&Error{Kind: KindInvalOp, Op: "sock.Accept", Err: errors.New("device is not listening")})
	}
	if d.nonblocking {
		type deadliner interface{ SetDeadline(time.Time) error }
		if dl, ok := d.ln.(deadliner); ok {
			_ = dl.SetDeadline(time.Now())
		}
	}
	conn, err := d.ln.Accept()
	if err != nil {
		if d.nonblocking && isTimeout(err) {
			return nil, Address{}, wrapWouldBlock("sock.Accept")
		}
		return nil, Address{}, d.setErr(&Error{Kind: classifyAcceptErr(err), Op: "sock.Accept", Err: err})
	}
	peer := addressFromNetAddr(conn.RemoteAddr())
	return &Device{conn: conn, resolveEnable: true}, peer, nil
}

// Read reads into buf, honoring non-blocking mode and the configured
// read timeout.
func (d *Device) Read(buf []byte) (int, error) {
	if d.conn == nil {
		return 0, d.setErr(&Error{Kind: KindClosed, Op: "sock.Read", Err: errors.New("device not connected")})
	}
	if err := d.armReadDeadline(); err != nil {
		return 0, err
	}
	n, err := d.conn.Read(buf)
	return n, d.classifyIOErr("sock.Read", err)
}

// Write writes buf, honoring non-blocking mode and the configured write
// timeout.
func (d *Device) Write(buf []byte) (int, error) {
	if d.conn == nil {
		return 0, d.setErr(&Error{Kind: KindClosed, Op: "sock.Write", Err: errors.New("device not connected")})
	}
	if err := d.armWriteDeadline(); err != nil {
		return 0, err
	}
	n, err := d.conn.Write(buf)
	return n, d.classifyIOErr("sock.Write", err)
}

// ReadFrom reads one datagram and the sender's address from a packet Device.
func (d *Device) ReadFrom(buf []byte) (int, Address, error) {
	if d.pc == nil {
		return 0, Address{}, d.setErr(&Error{Kind: KindInvalOp, Op: "sock.ReadFrom", Err: errors.New("device is not a packet socket")})
	}
	if d.nonblocking {
		_ = d.pc.SetReadDeadline(time.Now())
	} else if d.readTimeout > 0 {
		_ = d.pc.SetReadDeadline(time.Now().Add(d.readTimeout))
	}
	n, raddr, err := d.pc.ReadFrom(buf)
	if err != nil {
		if d.nonblocking && isTimeout(err) {
			return n, Address{}, wrapWouldBlock("sock.ReadFrom")
		}
		return n, Address{}, d.setErr(&Error{Kind: classifyIOKind(err), Op: "sock.ReadFrom", Err: err})
	}
	return n, addressFromNetAddr(raddr), nil
}

// WriteTo writes one datagram to addr via a packet Device.
func (d *Device) WriteTo(buf []byte, addr Address) (int, error) {
	if d.pc == nil {
		return 0, d.setErr(&Error{Kind: KindInvalOp, Op: "sock.WriteTo", Err: errors.New("device is not a packet socket")})
	}
	_, target := netAndAddr(addr)
	raddr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return 0, d.setErr(&Error{Kind: KindNotFound, Op: "sock.WriteTo", Err: err})
	}
	if d.nonblocking {
		_ = d.pc.SetWriteDeadline(time.Now())
	} else if d.writeTimeout > 0 {
		_ = d.pc.SetWriteDeadline(time.Now().Add(d.writeTimeout))
	}
	n, err := d.pc.WriteTo(buf, raddr)
	if err != nil {
		if d.nonblocking && isTimeout(err) {
			return n, wrapWouldBlock("sock.WriteTo")
		}
		return n, d.setErr(&Error{Kind: classifyIOKind(err), Op: "sock.WriteTo", Err: err})
	}
	return n, nil
}

// WaitReadable blocks up to timeout for the Device to become readable,
// returning false on timeout. It polls the raw descriptor and never
// consumes any bytes.
func (d *Device) WaitReadable(timeout time.Duration) bool {
	return d.pollFD(timeout, unix.POLLIN)
}

// WaitWritable blocks up to timeout for the Device to become writable,
// returning false on timeout.
func (d *Device) WaitWritable(timeout time.Duration) bool {
	return d.pollFD(timeout, unix.POLLOUT)
}

func (d *Device) pollFD(timeout time.Duration, events int16) bool {
	sc, ok := d.syscallConn()
	if !ok {
		return false
	}
	var ready bool
	err := sc.Control(func(fd uintptr) {
		pfd := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, perr := unix.Poll(pfd, int(timeout.Milliseconds()))
		ready = perr == nil && n > 0 && pfd[0].Revents&events != 0
	})
	return err == nil && ready
}

func (d *Device) syscallConn() (syscall.RawConn, bool) {
	switch {
	case d.conn != nil:
		sc, ok := d.conn.(syscall.Conn)
		if !ok {
			return nil, false
		}
		rc, err := sc.SyscallConn()
		return rc, err == nil
	case d.ln != nil:
		sc, ok := d.ln.(syscall.Conn)
		if !ok {
			return nil, false
		}
		rc, err := sc.SyscallConn()
		return rc, err == nil
	case d.pc != nil:
		sc, ok := d.pc.(syscall.Conn)
		if !ok {
			return nil, false
		}
		rc, err := sc.SyscallConn()
		return rc, err == nil
	default:
		return nil, false
	}
}

// GetOpt reads an integer socket option via getsockopt(level, name), e.g.
// d.GetOpt(unix.SOL_SOCKET, unix.SO_REUSEADDR).
func (d *Device) GetOpt(level, name int) (int, error) {
	sc, ok := d.syscallConn()
	if !ok {
		return 0, d.setErr(&Error{Kind: KindInvalOp, Op: "sock.GetOpt", Err: errors.New("device has no underlying descriptor")})
	}
	var val int
	var sysErr error
	if err := sc.Control(func(fd uintptr) {
		val, sysErr = unix.GetsockoptInt(int(fd), level, name)
	}); err != nil {
		return 0, d.setErr(&Error{Kind: KindFail, Op: "sock.GetOpt", Err: err})
	}
	if sysErr != nil {
		return 0, d.setErr(&Error{Kind: KindFail, Op: "sock.GetOpt", Err: sysErr})
	}
	return val, nil
}

// SetOpt sets an integer socket option via setsockopt(level, name, value),
// e.g. d.SetOpt(unix.SOL_SOCKET, unix.SO_REUSEADDR, 1).
func (d *Device) SetOpt(level, name, value int) error {
	sc, ok := d.syscallConn()
	if !ok {
		return d.setErr(&Error{Kind: KindInvalOp, Op: "sock.SetOpt", Err: errors.New("device has no underlying descriptor")})
	}
	var sysErr error
	if err := sc.Control(func(fd uintptr) {
		sysErr = unix.SetsockoptInt(int(fd), level, name, value)
	}); err != nil {
		return d.setErr(&Error{Kind: KindFail, Op: "sock.SetOpt", Err: err})
	}
	if sysErr != nil {
		return d.setErr(&Error{Kind: KindFail, Op: "sock.SetOpt", Err: sysErr})
	}
	return nil
}

// Shutdown half-closes the connection per direction.
func (d *Device) Shutdown(dir Direction) error {
	type halfCloser interface {
		CloseRead() error
		CloseWrite() error
	}
	hc, ok := d.conn.(halfCloser)
	if !ok {
		return d.setErr(&Error{Kind: KindInvalOp, Op: "sock.Shutdown", Err: errors.New("device does not support half-close")})
	}
	var err error
	switch dir {
	case DirRead:
		err = hc.CloseRead()
	case DirWrite:
		err = hc.CloseWrite()
	default:
		if e := hc.CloseRead(); e != nil {
			err = e
		}
		if e := hc.CloseWrite(); e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		return d.setErr(&Error{Kind: KindFail, Op: "sock.Shutdown", Err: err})
	}
	return nil
}

// Close closes the underlying connection, listener or packet socket.
func (d *Device) Close() error {
	var err error
	switch {
	case d.conn != nil:
		err = d.conn.Close()
	case d.ln != nil:
		err = d.ln.Close()
	case d.pc != nil:
		err = d.pc.Close()
	}
	d.ClearError()
	return err
}

func (d *Device) armReadDeadline() error {
	if d.nonblocking {
		return d.conn.SetReadDeadline(time.Now())
	}
	if d.readTimeout > 0 {
		return d.conn.SetReadDeadline(time.Now().Add(d.readTimeout))
	}
	return d.conn.SetReadDeadline(time.Time{})
}

func (d *Device) armWriteDeadline() error {
	if d.nonblocking {
		return d.conn.SetWriteDeadline(time.Now())
	}
	if d.writeTimeout > 0 {
		return d.conn.SetWriteDeadline(time.Now().Add(d.writeTimeout))
	}
	return d.conn.SetWriteDeadline(time.Time{})
}

func (d *Device) classifyIOErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if d.nonblocking && isTimeout(err) {
		return wrapWouldBlock(op)
	}
	if isTimeout(err) {
		return d.setErr(&Error{Kind: KindTimeout, Op: op, Err: err})
	}
	return d.setErr(&Error{Kind: classifyIOKind(err), Op: op, Err: err})
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func classifyIOKind(err error) ErrorKind {
	switch {
	case errors.Is(err, os.ErrClosed):
		return KindClosed
	case errors.Is(err, os.ErrPermission):
		return KindAccess
	default:
		return KindFail
	}
}

func classifyListenErr(err error) ErrorKind {
	switch {
	case errors.Is(err, os.ErrExist):
		return KindExists
	case errors.Is(err, os.ErrPermission):
		return KindAccess
	default:
		return KindFail
	}
}

func classifyDialErr(err error) ErrorKind {
	switch {
	case isTimeout(err):
		return KindTimeout
	case errors.Is(err, os.ErrPermission):
		return KindAccess
	default:
		return KindFail
	}
}

func classifyAcceptErr(err error) ErrorKind {
	switch {
	case errors.Is(err, os.ErrClosed):
		return KindClosed
	default:
		return KindFail
	}
}

func addressFromNetAddr(na net.Addr) Address {
	if na == nil {
		return Address{}
	}
	switch v := na.(type) {
	case *net.TCPAddr:
		if ip4 := v.IP.To4(); ip4 != nil {
			return NewIPv4(ip4, uint16(v.Port))
		}
		return NewIPv6(v.IP, v.Zone, uint16(v.Port))
	case *net.UDPAddr:
		if ip4 := v.IP.To4(); ip4 != nil {
			return NewIPv4(ip4, uint16(v.Port))
		}
		return NewIPv6(v.IP, v.Zone, uint16(v.Port))
	case *net.UnixAddr:
		a, _ := NewUnix(v.Name)
		return a
	default:
		a, err := ParseAddress(na.String())
		if err != nil {
			return Address{}
		}
		return a
	}
}
