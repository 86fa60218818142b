package network

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"testing"
	"time"

	"github.com/dl2gw/wsjtx-wbf/internal/adif"
	"github.com/dl2gw/wsjtx-wbf/internal/lookup"
	"github.com/dl2gw/wsjtx-wbf/internal/wbf"
	"github.com/dl2gw/wsjtx-wbf/internal/wire"
)

// captureWriter records outbound datagrams instead of sending them.
type captureWriter struct {
	sent []sentDatagram
}

type sentDatagram struct {
	data []byte
	addr *net.UDPAddr
}

func (w *captureWriter) Write(buffer []byte, addr *net.UDPAddr) error {
	data := make([]byte, len(buffer))
	copy(data, buffer)
	w.sent = append(w.sent, sentDatagram{data: data, addr: addr})
	return nil
}

// decoded returns the telegrams behind the captured datagrams.
func (w *captureWriter) decoded(t *testing.T) []wire.Telegram {
	t.Helper()
	tels := make([]wire.Telegram, len(w.sent))
	for i, s := range w.sent {
		tel, err := wire.Decode(s.data)
		if err != nil {
			t.Fatalf("sent datagram %d does not decode: %v", i, err)
		}
		tels[i] = tel
	}
	return tels
}

// highlights filters the captured telegrams down to highlight
// instructions, skipping the heartbeat echoes.
func (w *captureWriter) highlights(t *testing.T) []*wire.HighlightCallsign {
	t.Helper()
	var out []*wire.HighlightCallsign
	for _, tel := range w.decoded(t) {
		if h, ok := tel.(*wire.HighlightCallsign); ok {
			out = append(out, h)
		}
	}
	return out
}

type failingLookup struct{}

func (failingLookup) Lookup(callsign, band, mode string) (lookup.Result, error) {
	return lookup.Result{}, &lookup.LookupUnavailableError{Backend: "test", Err: errors.New("down")}
}

func (failingLookup) EntityCount(entity, band, mode string) (int64, int64, error) {
	return 0, 0, &lookup.LookupUnavailableError{Backend: "test", Err: errors.New("down")}
}

func (failingLookup) AddRecord(rec adif.Record) error {
	return &lookup.LookupUnavailableError{Backend: "test", Err: errors.New("down")}
}

var testSender = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2237}

func newTestDispatcher(contacts lookup.ContactLookup) (*Dispatcher, *captureWriter) {
	logger := log.New(os.Stderr, "[test] ", log.LstdFlags)
	engine := wbf.NewEngine("wbf-server", contacts, nil, logger)
	d := NewDispatcher(nil, engine, contacts, "wbf-server", "1.0.0", nil, logger)
	w := &captureWriter{}
	d.out = w
	return d, w
}

func statusDatagram(dialHz uint64, mode string) []byte {
	return wire.Encode(&wire.Status{
		Header:          wire.NewHeader("WSJT-X"),
		DialFrequencyHz: dialHz,
		Mode:            wire.String(mode),
	})
}

func decodeDatagram(message string) []byte {
	return wire.Encode(&wire.DecodeMsg{
		Header:  wire.NewHeader("WSJT-X"),
		IsNew:   true,
		Mode:    wire.String("~"),
		Message: wire.String(message),
	})
}

func TestDispatch_UnworkedCallGetsHighlight(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)

	hs := w.highlights(t)
	if len(hs) != 1 {
		t.Fatalf("got %d highlights, want 1", len(hs))
	}
	h := hs[0]
	if h.Callsign.S() != "K1ABC" || !h.HighlightLastOnly {
		t.Errorf("highlight = %+v", h)
	}
	if w.sent[len(w.sent)-1].addr != testSender {
		t.Error("highlight not sent to originating sender")
	}
}

func TestDispatch_WorkedCallSilent(t *testing.T) {
	contacts := lookup.NewMemoryLookup([]adif.Record{
		{Call: "K1ABC", Band: "20m", Mode: "FT8", DXCC: "291"},
	}, nil)
	d, w := newTestDispatcher(contacts)

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)

	if hs := w.highlights(t); len(hs) != 0 {
		t.Fatalf("got %d highlights for a worked call, want 0", len(hs))
	}
}

func TestDispatch_DuplicateDecodeSentOnce(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)

	if hs := w.highlights(t); len(hs) != 1 {
		t.Fatalf("got %d highlights for a repeated decode, want 1", len(hs))
	}
}

func TestDispatch_LookupFailureSendsNothing(t *testing.T) {
	d, w := newTestDispatcher(failingLookup{})

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)

	if hs := w.highlights(t); len(hs) != 0 {
		t.Fatalf("got %d highlights despite lookup failure", len(hs))
	}
}

func TestDispatch_HeartbeatEchoed(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(wire.Encode(&wire.Heartbeat{
		Header:    wire.NewHeader("WSJT-X"),
		MaxSchema: 3,
	}), testSender)

	tels := w.decoded(t)
	if len(tels) != 1 {
		t.Fatalf("got %d replies, want 1", len(tels))
	}
	hb, ok := tels[0].(*wire.Heartbeat)
	if !ok {
		t.Fatalf("reply is %T, want Heartbeat", tels[0])
	}
	if hb.ID.S() != "wbf-server" || hb.MaxSchema != wire.SchemaVersion {
		t.Errorf("heartbeat = %+v", hb)
	}
}

func TestDispatch_BandChangeDecolors(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)
	d.dispatch(statusDatagram(7_074_000, "FT8"), testSender)

	var cleared []*wire.HighlightCallsign
	for _, h := range w.highlights(t) {
		if !h.Background.Valid() {
			cleared = append(cleared, h)
		}
	}
	if len(cleared) != 1 || cleared[0].Callsign.S() != "K1ABC" {
		t.Fatalf("band change cleared %+v, want K1ABC decolor", cleared)
	}
}

func TestDispatch_LoggedContactImported(t *testing.T) {
	contacts := lookup.NewMemoryLookup(nil, nil)
	d, w := newTestDispatcher(contacts)

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(wire.Encode(&wire.LoggedADIF{
		Header:   wire.NewHeader("WSJT-X"),
		ADIFText: wire.String("<eoh>\n<call:5>K1ABC<band:3>20m<mode:3>FT8<eor>"),
	}), testSender)

	res, err := contacts.Lookup("K1ABC", "20m", "FT8")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !res.Worked {
		t.Fatal("logged contact not imported into lookup")
	}

	// The next decode of the same call stays silent.
	before := len(w.highlights(t))
	d.dispatch(decodeDatagram("CQ K1ABC FN42"), testSender)
	if after := len(w.highlights(t)); after != before {
		t.Fatalf("worked call highlighted after import (%d -> %d)", before, after)
	}
}

func TestDispatch_BadDatagramsDropped(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	// Wrong magic, truncated payload, unknown type: all logged and
	// dropped without a reply or a panic.
	d.dispatch([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 2}, testSender)

	truncated := statusDatagram(14_074_000, "FT8")
	d.dispatch(truncated[:40], testSender)

	bad := wire.NewWriter()
	bad.WriteU32(wire.Magic)
	bad.WriteU32(wire.SchemaVersion)
	bad.WriteString(wire.String("WSJT-X"))
	bad.WriteU32(99)
	d.dispatch(bad.Bytes(), testSender)

	if len(w.sent) != 0 {
		t.Fatalf("%d replies sent for undecodable datagrams", len(w.sent))
	}
}

func TestDispatch_OffAirDecodeIgnored(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(wire.Encode(&wire.DecodeMsg{
		Header:  wire.NewHeader("WSJT-X"),
		IsNew:   true,
		OffAir:  true,
		Message: wire.String("CQ K1ABC FN42"),
	}), testSender)

	if hs := w.highlights(t); len(hs) != 0 {
		t.Fatalf("off-air decode produced %d highlights", len(hs))
	}
}

func dxStatusDatagram(dxCall string) []byte {
	return wire.Encode(&wire.Status{
		Header:          wire.NewHeader("WSJT-X"),
		DialFrequencyHz: 14_074_000,
		Mode:            wire.String("FT8"),
		DXCall:          wire.String(dxCall),
	})
}

func TestDispatch_DXCallChangeSetsLocatorMessage(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))
	d.SetLocatorMessage("OE3RSU", "JN88dg")

	d.dispatch(dxStatusDatagram("K1ABC"), testSender)
	d.dispatch(dxStatusDatagram("K1ABC"), testSender)
	d.dispatch(dxStatusDatagram("W9XYZ"), testSender)

	var texts []string
	for _, tel := range w.decoded(t) {
		ft, ok := tel.(*wire.FreeText)
		if !ok {
			continue
		}
		if ft.Send {
			t.Error("free text marked for transmission")
		}
		texts = append(texts, ft.Text.S())
	}
	want := []string{
		"<K1ABC> <OE3RSU> 597373 JN88dg",
		"<W9XYZ> <OE3RSU> 597373 JN88dg",
	}
	if len(texts) != len(want) || texts[0] != want[0] || texts[1] != want[1] {
		t.Fatalf("free texts = %q, want %q", texts, want)
	}
}

func TestDispatch_LocatorMessageOffByDefault(t *testing.T) {
	d, w := newTestDispatcher(lookup.NewMemoryLookup(nil, nil))

	d.dispatch(dxStatusDatagram("K1ABC"), testSender)

	for _, tel := range w.decoded(t) {
		if _, ok := tel.(*wire.FreeText); ok {
			t.Fatal("free text sent without locator message enabled")
		}
	}
}

func TestRun_StopsOnSocketError(t *testing.T) {
	sock := NewUDPSocket("127.0.0.1", 0)
	if err := sock.Open(); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	sock.Close()

	contacts := lookup.NewMemoryLookup(nil, nil)
	logger := log.New(os.Stderr, "[test] ", log.LstdFlags)
	engine := wbf.NewEngine("wbf-server", contacts, nil, logger)
	d := NewDispatcher(sock, engine, contacts, "wbf-server", "1.0.0", nil, logger)

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run() returned nil on a broken socket")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() kept looping on a broken socket")
	}
}

func TestDispatch_PassThroughHandler(t *testing.T) {
	var seen []wire.Type
	contacts := lookup.NewMemoryLookup(nil, nil)
	logger := log.New(os.Stderr, "[test] ", log.LstdFlags)
	engine := wbf.NewEngine("wbf-server", contacts, nil, logger)
	d := NewDispatcher(nil, engine, contacts, "wbf-server", "1.0.0", func(tel wire.Telegram, sender *net.UDPAddr) {
		seen = append(seen, tel.TelegramType())
	}, logger)
	d.out = &captureWriter{}

	d.dispatch(statusDatagram(14_074_000, "FT8"), testSender)
	d.dispatch(wire.Encode(&wire.Clear{Header: wire.NewHeader("WSJT-X")}), testSender)

	if len(seen) != 2 || seen[0] != wire.TypeStatus || seen[1] != wire.TypeClear {
		t.Fatalf("handler saw %v", seen)
	}
}
