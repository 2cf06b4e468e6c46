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

package listener

import (
	"crypto/tls"
	"net"
	"time"

	"golang.org/x/sys/unix"

	cfgbal "github.com/sabouaram/acceptor/config/balance"
	liblog "github.com/sabouaram/acceptor/logging"
	libmet "github.com/sabouaram/acceptor/metrics"
	libpol "github.com/sabouaram/acceptor/socket/poller"
	libque "github.com/sabouaram/acceptor/socket/queues"
	libses "github.com/sabouaram/acceptor/socket/session"
	libstm "github.com/sabouaram/acceptor/socket/stream"
)

type lstn struct {
	nevent  int
	timeout time.Duration
	workers int
	balance cfgbal.Balance
	prio    int
	bufSize int
	bufMax  int

	tls *tls.Config
	pol libpol.Poller
	sig libque.Signals
	ses libque.Sessions
	nap *napiMap
	log liblog.Logger
}

func (o *lstn) Waker() libque.Waker {
	return o.pol.Waker()
}

func (o *lstn) Addr() net.Addr {
	return o.pol.Addr()
}

func (o *lstn) Run() {
	defer func() {
		_ = o.pol.Close()
	}()

	o.log.WithFields(liblog.Fields{"addr": o.Addr().String()}).Info("running server")

	evs := make([]libpol.Event, o.nevent)

	for {
		libmet.ServerEventLoop.Inc()

		n, err := o.pol.Poll(evs, o.timeout)
		if err != nil {
			o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("error polling server")
		}

		libmet.ServerEventTotal.Add(float64(n))

		for i := 0; i < n; i++ {
			switch evs[i].Token {
			case libpol.ListenerToken:
				o.doAccept()
			case libpol.WakerToken:
				if o.drainSignals() {
					o.log.Info("shutdown signal received, stopping acceptor")
					return
				}
				// a settled handshake may have fired the waker
				o.checkHandshakes()
			default:
				o.handleSessionEvent(evs[i])
			}
		}

		o.ses.Wake()
	}
}

// drainSignals empties the signal queue, reporting whether a Shutdown was
// seen. FlushAll is fanned out to workers upstream and is a no-op here.
func (o *lstn) drainSignals() bool {
	for {
		s, k := o.sig.TryRecv()
		if !k {
			return false
		}

		if s == libque.Shutdown {
			return true
		}
	}
}

// doAccept drains the pending connection backlog, then re-arms the
// edge-triggered listener registration.
func (o *lstn) doAccept() {
	for {
		stm, _, err := o.pol.Accept()

		if libpol.IsWouldBlock(err) {
			break
		} else if err != nil {
			o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("accept failed")
			break
		}

		o.setupStream(stm)
	}

	if err := o.pol.Reregister(libpol.ListenerToken); err != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("cannot rearm listener registration")
	}
}

// setupStream applies the socket tuning to one accepted stream, then routes
// it through TLS negotiation or straight to dispatch.
func (o *lstn) setupStream(stm *libstm.Stream) {
	if err := stm.SetSockOptInt(unix.SOL_SOCKET, unix.SO_PRIORITY, o.prio); err != nil {
		// surfaced loudly: a failure here means the deployment is
		// misconfigured, but one lost connection must not stop the
		// acceptor
		o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Error("error setting socket priority")
		_ = stm.Close()
		libmet.TcpAcceptEx.Inc()
		return
	}

	if o.tls == nil {
		o.addPlainSession(stm)
		return
	}

	hsk := libses.NewTlsHandshake(o.tls, stm, o.wakeSelf)

	switch err := hsk.Handshake(); {
	case err == nil:
		o.addEstablishedTlsSession(hsk.Conn(), stm)
	case libses.IsWouldBlock(err):
		o.addHandshakingTlsSession(hsk, stm)
	default:
		o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("tls accept failed")
		_ = stm.Close()
		libmet.TcpAcceptEx.Inc()
	}
}

// addPlainSession dispatches a cleartext session to a worker.
func (o *lstn) addPlainSession(stm *libstm.Stream) {
	o.dispatch(libses.NewPlain(stm, o.bufSize, o.bufMax), stm)
}

// addEstablishedTlsSession dispatches a synchronously negotiated TLS session
// to a worker.
func (o *lstn) addEstablishedTlsSession(cnn net.Conn, stm *libstm.Stream) {
	o.dispatch(libses.NewTLS(cnn, stm, o.bufSize, o.bufMax), stm)
}

// addHandshakingTlsSession parks a mid-handshake session in the poller slab
// under a fresh token.
func (o *lstn) addHandshakingTlsSession(hsk libses.Handshaker, stm *libstm.Stream) {
	ses := libses.NewHandshake(hsk, stm, o.bufSize, o.bufMax)

	if _, err := o.pol.AddSession(ses); err != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("failed to register handshaking session")
		_ = ses.Close()
		libmet.TcpAcceptEx.Inc()
	}
}

// dispatch places a ready session on a worker queue following the balance
// policy of the snapshot.
func (o *lstn) dispatch(ses *libses.Session, stm *libstm.Stream) {
	if o.balance == cfgbal.Queues {
		if id, k := stm.NapiID(); k {
			o.sendTo(ses, id)
			return
		}
	}

	o.sendAny(ses)
}

// sendAny places the session on a random worker queue.
func (o *lstn) sendAny(ses *libses.Session) {
	if err := o.ses.TrySendAny(ses); err != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: err}).Warn("error sending session to random worker")
		_ = ses.Close()
		libmet.TcpAcceptEx.Inc()
	}
}

// sendTo pins the session to the worker mapped to its NIC receive queue.
func (o *lstn) sendTo(ses *libses.Session, napi uint32) {
	pos, fresh, full := o.nap.position(napi)

	if full {
		o.log.WithFields(liblog.Fields{liblog.FieldNapiID: napi, liblog.FieldCounter: o.nap.size()}).Warn("napi map is full, falling back to random placement")
		o.sendAny(ses)
		return
	}

	if fresh {
		o.log.WithFields(liblog.Fields{liblog.FieldNapiID: napi}).Info("found new napi id")
	}

	worker := pos % o.workers

	if err := o.ses.TrySendTo(worker, ses); err != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: err, liblog.FieldWorker: worker}).Warn("error sending session to worker")
		_ = ses.Close()
		libmet.TcpAcceptEx.Inc()
	}
}

// handleSessionEvent progresses one in-flight handshake session. Error,
// write and read readiness are counted in that order; an error event is
// fatal to the session, any other event polls its handshake.
func (o *lstn) handleSessionEvent(ev libpol.Event) {
	if ev.Error {
		libmet.ServerEventError.Inc()
	}

	if ev.Writable {
		libmet.ServerEventWrite.Inc()
	}

	if ev.Readable {
		libmet.ServerEventRead.Inc()
	}

	ses, k := o.pol.GetSession(ev.Token)
	if !k {
		return
	}

	if ev.Error {
		o.dropSession(ev.Token, ses)
		return
	}

	o.progressHandshake(ev.Token, ses)
}

// progressHandshake polls the TLS state machine of a parked session. On
// completion the session leaves the slab for a random worker queue; a
// would-block leaves it parked; anything else drops it.
func (o *lstn) progressHandshake(tok libpol.Token, ses *libses.Session) {
	err := ses.DoHandshake()

	if libses.IsWouldBlock(err) {
		return
	}

	if err != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: err, liblog.FieldToken: tok}).Warn("tls handshake failed")
		o.dropSession(tok, ses)
		return
	}

	rm, er := o.pol.RemoveSession(tok)
	if er != nil {
		o.log.WithFields(liblog.Fields{liblog.FieldError: er, liblog.FieldToken: tok}).Warn("error removing session from poller")
		libmet.TcpAcceptEx.Inc()
		return
	}

	// completed handshakes always use random placement: the slab does not
	// track NAPI affinity
	o.sendAny(rm)
}

// dropSession removes a failed session from the slab and releases it.
func (o *lstn) dropSession(tok libpol.Token, ses *libses.Session) {
	if _, err := o.pol.RemoveSession(tok); err == nil {
		_ = ses.Close()
	}

	libmet.TcpAcceptEx.Inc()
}

// checkHandshakes sweeps the slab for negotiations settled between socket
// events, such as one finishing right after its last readable event was
// already handled.
func (o *lstn) checkHandshakes() {
	for _, tok := range o.pol.Sessions() {
		if ses, k := o.pol.GetSession(tok); k {
			o.progressHandshake(tok, ses)
		}
	}
}

// wakeSelf nudges the acceptor's own poller.
func (o *lstn) wakeSelf() {
	_ = o.pol.Waker().Wake()
}
