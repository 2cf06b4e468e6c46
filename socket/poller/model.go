//go:build linux

/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package poller

import (
	"net"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/golib/errors"
	libses "github.com/sabouaram/acceptor/socket/session"
	libstm "github.com/sabouaram/acceptor/socket/stream"
)

const (
	sessionInterest  = unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLRDHUP | unix.EPOLLET
	listenerInterest = unix.EPOLLIN | unix.EPOLLET
	wakerInterest    = unix.EPOLLIN | unix.EPOLLET
)

type pol struct {
	epf int
	lst *net.TCPListener
	lfd int
	wak *Waker
	nxt Token
	ses map[Token]*libses.Session
	buf []unix.EpollEvent
}

func newPoller() (Poller, liberr.Error) {
	epf, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorPollerCreate.Error(err)
	}

	wfd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epf)
		return nil, ErrorWakerCreate.Error(err)
	}

	o := &pol{
		epf: epf,
		lfd: -1,
		wak: newWaker(wfd),
		nxt: firstSessionToken,
		ses: make(map[Token]*libses.Session),
	}

	if err = o.register(unix.EPOLL_CTL_ADD, wfd, wakerInterest, WakerToken); err != nil {
		_ = unix.Close(wfd)
		_ = unix.Close(epf)
		return nil, ErrorWakerCreate.Error(err)
	}

	return o, nil
}

func (o *pol) register(op int, fd int, interest uint32, t Token) error {
	return unix.EpollCtl(o.epf, op, fd, &unix.EpollEvent{
		Events: interest,
		Fd:     int32(t),
	})
}

func (o *pol) Bind(addr string) liberr.Error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return ErrorBind.Error(err)
	}

	var (
		lst = l.(*net.TCPListener)
		raw syscall.RawConn
		lfd = -1
	)

	if raw, err = lst.SyscallConn(); err == nil {
		err = raw.Control(func(fd uintptr) {
			lfd = int(fd)
		})
	}

	if err != nil {
		_ = lst.Close()
		return ErrorBind.Error(err)
	}

	if err = o.register(unix.EPOLL_CTL_ADD, lfd, listenerInterest, ListenerToken); err != nil {
		_ = lst.Close()
		return ErrorRegister.Error(err)
	}

	o.lst = lst
	o.lfd = lfd

	return nil
}

func (o *pol) Addr() net.Addr {
	if o.lst == nil {
		return nil
	}

	return o.lst.Addr()
}

func (o *pol) Waker() *Waker {
	return o.wak
}

func (o *pol) Poll(evs []Event, timeout time.Duration) (int, liberr.Error) {
	if len(evs) == 0 {
		return 0, ErrorParamsEmpty.Error(nil)
	}

	if cap(o.buf) < len(evs) {
		o.buf = make([]unix.EpollEvent, len(evs))
	}

	msec := -1
	if timeout >= 0 {
		msec = int(timeout / time.Millisecond)
	}

	n, err := unix.EpollWait(o.epf, o.buf[:len(evs)], msec)

	if err == unix.EINTR {
		return 0, nil
	} else if err != nil {
		return 0, ErrorPollWait.Error(err)
	}

	for i := 0; i < n; i++ {
		var (
			e = o.buf[i]
			t = Token(uint32(e.Fd))
		)

		if t == WakerToken {
			o.wak.drain()
		}

		evs[i] = Event{
			Token:    t,
			Readable: e.Events&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0,
			Writable: e.Events&unix.EPOLLOUT != 0,
			Error:    e.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		}
	}

	return n, nil
}

func (o *pol) Accept() (*libstm.Stream, net.Addr, liberr.Error) {
	nfd, _, err := unix.Accept4(o.lfd, unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK)

	if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.ECONNABORTED {
		return nil, nil, ErrorAcceptWouldBlock.Error(nil)
	} else if err != nil {
		return nil, nil, ErrorAccept.Error(err)
	}

	f := os.NewFile(uintptr(nfd), "tcp")
	c, e := net.FileConn(f)
	_ = f.Close()

	if e != nil {
		return nil, nil, ErrorAccept.Error(e)
	}

	t, k := c.(*net.TCPConn)
	if !k {
		_ = c.Close()
		return nil, nil, ErrorAccept.Error(nil)
	}

	s, er := libstm.New(t)
	if er != nil {
		_ = t.Close()
		return nil, nil, er
	}

	return s, s.RemoteAddr(), nil
}

func (o *pol) Reregister(t Token) liberr.Error {
	var err error

	switch t {
	case ListenerToken:
		err = o.register(unix.EPOLL_CTL_MOD, o.lfd, listenerInterest, ListenerToken)
	case WakerToken:
		err = o.register(unix.EPOLL_CTL_MOD, int(o.wak.fd.Load()), wakerInterest, WakerToken)
	default:
		s, k := o.ses[t]
		if !k {
			return ErrorSessionUnknown.Error(nil)
		}
		err = o.register(unix.EPOLL_CTL_MOD, s.Stream().FD(), sessionInterest, t)
	}

	if err != nil {
		return ErrorRegister.Error(err)
	}

	return nil
}

func (o *pol) AddSession(s *libses.Session) (Token, liberr.Error) {
	if s == nil || s.Stream() == nil {
		return 0, ErrorParamsEmpty.Error(nil)
	}

	t := o.nxt
	o.nxt++

	if err := o.register(unix.EPOLL_CTL_ADD, s.Stream().FD(), sessionInterest, t); err != nil {
		return 0, ErrorRegister.Error(err)
	}

	o.ses[t] = s

	return t, nil
}

func (o *pol) GetSession(t Token) (*libses.Session, bool) {
	s, k := o.ses[t]
	return s, k
}

func (o *pol) RemoveSession(t Token) (*libses.Session, liberr.Error) {
	s, k := o.ses[t]
	if !k {
		return nil, ErrorSessionUnknown.Error(nil)
	}

	delete(o.ses, t)
	_ = o.register(unix.EPOLL_CTL_DEL, s.Stream().FD(), 0, t)

	return s, nil
}

func (o *pol) Sessions() []Token {
	r := make([]Token, 0, len(o.ses))

	for t := range o.ses {
		r = append(r, t)
	}

	return r
}

func (o *pol) Close() error {
	for t, s := range o.ses {
		_ = s.Close()
		delete(o.ses, t)
	}

	if o.lst != nil {
		_ = o.lst.Close()
		o.lst = nil
		o.lfd = -1
	}

	if o.wak != nil {
		o.wak.close()
	}

	if o.epf >= 0 {
		err := unix.Close(o.epf)
		o.epf = -1
		return err
	}

	return nil
}
