// Package network binds the UDP endpoint WSJT-X talks to and routes
// decoded telegrams: decodes feed the worked-before engine, status
// updates maintain per-sender context, logged contacts land in the
// contact lookup, and highlight replies go back to the sender that
// triggered them.
package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/lookup"
	"github.com/dl2gw/wsjtx-wbf/internal/wbf"
	"github.com/dl2gw/wsjtx-wbf/internal/wire"
)

const (
	// readTimeout bounds a single blocking read so the receive loop
	// can poll its context between datagrams.
	readTimeout = 500 * time.Millisecond

	// maxDatagram is larger than any telegram WSJT-X sends.
	maxDatagram = 4096
)

// packetWriter sends one datagram. Satisfied by *UDPSocket; tests
// substitute a capture.
type packetWriter interface {
	Write(buffer []byte, addr *net.UDPAddr) error
}

// TelegramHandler receives every successfully decoded telegram after
// the dispatcher's own processing, for display or logging outside the
// core.
type TelegramHandler func(tel wire.Telegram, sender *net.UDPAddr)

// peerState is the per-sender context: the last Status telegram, the
// band derived from it and the background color of every highlight
// issued to that sender.
type peerState struct {
	addr          *net.UDPAddr
	status        *wire.Status
	band          string
	dxCall        string
	heartbeatSeen bool
	issued        map[string]wire.QColor
}

// Dispatcher owns the receive loop. All mutable state is the per-peer
// map; one datagram is fully processed before the next is read.
type Dispatcher struct {
	sock     *UDPSocket
	out      packetWriter
	engine   *wbf.Engine
	contacts lookup.ContactLookup
	handler  TelegramHandler
	id       string
	version  string
	log      *log.Logger

	locatorMsg bool
	myCall     string
	myLocator  string

	mu    sync.Mutex
	peers map[string]*peerState
}

// NewDispatcher wires a dispatcher to its socket and engine. handler
// may be nil.
func NewDispatcher(sock *UDPSocket, engine *wbf.Engine, contacts lookup.ContactLookup, id, version string, handler TelegramHandler, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		sock:     sock,
		out:      sock,
		engine:   engine,
		contacts: contacts,
		handler:  handler,
		id:       id,
		version:  version,
		log:      logger,
		peers:    make(map[string]*peerState),
	}
}

// Run receives datagrams until the context is cancelled. An in-flight
// dispatch always completes; cancellation is only observed between
// datagrams. Issued highlights are cleared before the socket closes
// so no stale colors outlive the server.
func (d *Dispatcher) Run(ctx context.Context) error {
	buffer := make([]byte, maxDatagram)

	for {
		select {
		case <-ctx.Done():
			d.decolorAll()
			return d.sock.Close()
		default:
		}

		n, addr, err := d.sock.ReadTimeout(buffer, readTimeout)
		if err != nil {
			// A non-timeout read error does not heal; let the top of
			// the loop run the shutdown path when the context caused
			// it, otherwise surface the error instead of spinning.
			if ctx.Err() != nil {
				continue
			}
			return fmt.Errorf("UDP read: %w", err)
		}
		if n == 0 {
			continue
		}

		data := make([]byte, n)
		copy(data, buffer[:n])
		d.dispatch(data, addr)
	}
}

// dispatch decodes and routes one datagram. Decode failures are
// logged with the sender and diagnostic detail, then dropped; they
// never stop the loop.
func (d *Dispatcher) dispatch(data []byte, sender *net.UDPAddr) {
	tel, err := wire.Decode(data)
	if err != nil {
		d.logDecodeError(err, sender)
		return
	}

	state := d.peer(sender)

	// Answer the first telegram from a peer, and every heartbeat,
	// with our own heartbeat.
	if _, isHB := tel.(*wire.Heartbeat); isHB || !state.heartbeatSeen {
		state.heartbeatSeen = true
		d.sendHeartbeat(state)
	}

	switch t := tel.(type) {
	case *wire.Status:
		d.handleStatus(state, t)
	case *wire.DecodeMsg:
		d.handleDecode(state, t)
	case *wire.WSPRDecode:
		d.handleWSPR(state, t)
	case *wire.LoggedADIF:
		d.handleLogged(state, t)
	case *wire.Close:
		d.forgetPeer(sender)
	}

	if d.handler != nil {
		d.handler(tel, sender)
	}
}

// SetLocatorMessage enables the locator free-text reply: whenever a
// sender's DX call changes, its free-text message is preset to
// "<dx> <callsign> 597373 <locator>" so the nonstandard-call exchange
// is ready to send.
func (d *Dispatcher) SetLocatorMessage(callsign, locator string) {
	d.locatorMsg = true
	d.myCall = callsign
	d.myLocator = locator
}

func (d *Dispatcher) handleStatus(state *peerState, status *wire.Status) {
	band := wbf.BandFor(status.DialFrequencyHz)
	if state.band != band {
		// Highlights are scoped to the band they were graded on;
		// clear them when the radio moves.
		d.decolorPeer(state)
		state.band = band
	}
	if dx := status.DXCall.S(); state.dxCall != dx {
		state.dxCall = dx
		if d.locatorMsg && dx != "" {
			d.sendFreeText(state, fmt.Sprintf("<%s> <%s> 597373 %s", dx, d.myCall, d.myLocator))
		}
	}
	state.status = status
}

// sendFreeText presets the sender's free-text box without transmitting.
func (d *Dispatcher) sendFreeText(state *peerState, text string) {
	ft := &wire.FreeText{Header: wire.NewHeader(d.id), Text: wire.String(text)}
	if err := d.out.Write(wire.Encode(ft), state.addr); err != nil {
		d.log.Printf("free text send to %s failed: %v", state.addr, err)
	}
}

func (d *Dispatcher) handleDecode(state *peerState, dec *wire.DecodeMsg) {
	// Replayed and off-air decodes have been evaluated before.
	if dec.OffAir || !dec.IsNew {
		return
	}
	tel, err := d.engine.Evaluate(dec, state.status)
	d.sendHighlight(state, tel, err)
}

func (d *Dispatcher) handleWSPR(state *peerState, dec *wire.WSPRDecode) {
	if dec.OffAir || !dec.IsNew {
		return
	}
	tel, err := d.engine.EvaluateWSPR(dec)
	d.sendHighlight(state, tel, err)
}

// sendHighlight delivers an engine verdict to the sender, skipping
// telegrams that repeat an already issued color.
func (d *Dispatcher) sendHighlight(state *peerState, tel *wire.HighlightCallsign, err error) {
	if err != nil {
		var lue *lookup.LookupUnavailableError
		if errors.As(err, &lue) {
			d.log.Printf("highlight suppressed for %s: %v", state.addr, err)
		} else {
			d.log.Printf("decode evaluation failed for %s: %v", state.addr, err)
		}
		return
	}
	if tel == nil {
		return
	}

	call := tel.Callsign.S()
	if prev, ok := state.issued[call]; ok && prev == tel.Background {
		return
	}
	if err := d.out.Write(wire.Encode(tel), state.addr); err != nil {
		d.log.Printf("highlight send to %s failed: %v", state.addr, err)
		return
	}
	state.issued[call] = tel.Background
}

// handleLogged folds a freshly logged contact into the lookup so the
// next decode of that call already counts as worked.
func (d *Dispatcher) handleLogged(state *peerState, logged *wire.LoggedADIF) {
	records, err := adif.Parse(strings.NewReader(logged.ADIFText.S()))
	if err != nil {
		d.log.Printf("bad ADIF from %s: %v", state.addr, err)
		return
	}
	for _, rec := range records {
		if !rec.Usable() {
			continue
		}
		if err := d.contacts.AddRecord(rec); err != nil {
			d.log.Printf("logged contact %s not stored: %v", rec.Call, err)
			continue
		}
		// The call may have carried a highlight until now.
		d.clearIssued(state, rec.Call)
	}
}

func (d *Dispatcher) clearIssued(state *peerState, call string) {
	if prev, ok := state.issued[call]; ok && prev.Valid() {
		d.sendDecolor(state, call)
	}
	delete(state.issued, call)
}

// decolorPeer clears every highlight issued to one sender.
func (d *Dispatcher) decolorPeer(state *peerState) {
	for call, color := range state.issued {
		if color.Valid() {
			d.sendDecolor(state, call)
		}
	}
	state.issued = make(map[string]wire.QColor)
}

func (d *Dispatcher) decolorAll() {
	d.mu.Lock()
	states := make([]*peerState, 0, len(d.peers))
	for _, state := range d.peers {
		states = append(states, state)
	}
	d.mu.Unlock()

	for _, state := range states {
		d.decolorPeer(state)
	}
}

func (d *Dispatcher) sendDecolor(state *peerState, call string) {
	if err := d.out.Write(wire.Encode(d.engine.Decolor(call)), state.addr); err != nil {
		d.log.Printf("decolor send to %s failed: %v", state.addr, err)
	}
}

func (d *Dispatcher) sendHeartbeat(state *peerState) {
	version := wire.String(d.version)
	hb := &wire.Heartbeat{
		Header:    wire.NewHeader(d.id),
		MaxSchema: wire.SchemaVersion,
		Version:   &version,
	}
	if err := d.out.Write(wire.Encode(hb), state.addr); err != nil {
		d.log.Printf("heartbeat send to %s failed: %v", state.addr, err)
	}
}

func (d *Dispatcher) peer(sender *net.UDPAddr) *peerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := sender.String()
	state, ok := d.peers[key]
	if !ok {
		state = &peerState{
			addr:   sender,
			issued: make(map[string]wire.QColor),
		}
		d.peers[key] = state
	}
	return state
}

func (d *Dispatcher) forgetPeer(sender *net.UDPAddr) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.peers, sender.String())
}

// logDecodeError records one undecodable datagram with enough context
// to diagnose a protocol mismatch.
func (d *Dispatcher) logDecodeError(err error, sender *net.UDPAddr) {
	var unknownErr *wire.UnknownTypeError
	if errors.As(err, &unknownErr) {
		d.log.Printf("dropping datagram from %s: unknown telegram type %d at offset %d",
			sender, unknownErr.Code, unknownErr.Offset)
		return
	}
	d.log.Printf("dropping datagram from %s: %v", sender, err)
}

// Status returns the cached status for a sender, nil when none was
// seen yet.
func (d *Dispatcher) Status(sender *net.UDPAddr) *wire.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	state, ok := d.peers[sender.String()]
	if !ok {
		return nil
	}
	return state.status
}
