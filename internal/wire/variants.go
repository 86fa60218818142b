package wire

import "fmt"

// Heartbeat is the liveness and capability announcement (type 0).
type Heartbeat struct {
	Header
	MaxSchema uint32
	Version   *QString
	Revision  *QString
}

func (t *Heartbeat) TelegramType() Type { return TypeHeartbeat }

func (t *Heartbeat) readPayload(b *Buffer) error {
	var err error
	if t.MaxSchema, err = b.ReadU32(); err != nil {
		return err
	}
	if t.Version, err = b.optString(); err != nil {
		return err
	}
	if t.Revision, err = b.optString(); err != nil {
		return err
	}
	return nil
}

func (t *Heartbeat) writePayload(b *Buffer) {
	b.WriteU32(t.MaxSchema)
	if t.Version == nil {
		return
	}
	b.WriteString(*t.Version)
	if t.Revision == nil {
		return
	}
	b.WriteString(*t.Revision)
}

// Status reports the current radio and session state (type 1). The tail
// fields from TxWatchdog on were introduced by later schema versions and
// may be absent.
type Status struct {
	Header
	DialFrequencyHz uint64
	Mode            QString
	DXCall          QString
	Report          QString
	TxMode          QString
	TxEnabled       bool
	Transmitting    bool
	Decoding        bool
	RxDF            uint32
	TxDF            uint32
	DECall          QString
	DEGrid          QString
	DXGrid          QString

	TxWatchdog         *bool
	SubMode            *QString
	FastMode           *bool
	SpecialOpMode      *uint8
	FrequencyTolerance *uint32
	TRPeriod           *uint32
	ConfigurationName  *QString
	TxMessage          *QString
}

func (t *Status) TelegramType() Type { return TypeStatus }

func (t *Status) readPayload(b *Buffer) error {
	var err error
	if t.DialFrequencyHz, err = b.ReadU64(); err != nil {
		return err
	}
	if t.Mode, err = b.ReadString(); err != nil {
		return err
	}
	if t.DXCall, err = b.ReadString(); err != nil {
		return err
	}
	if t.Report, err = b.ReadString(); err != nil {
		return err
	}
	if t.TxMode, err = b.ReadString(); err != nil {
		return err
	}
	if t.TxEnabled, err = b.ReadBool(); err != nil {
		return err
	}
	if t.Transmitting, err = b.ReadBool(); err != nil {
		return err
	}
	if t.Decoding, err = b.ReadBool(); err != nil {
		return err
	}
	if t.RxDF, err = b.ReadU32(); err != nil {
		return err
	}
	if t.TxDF, err = b.ReadU32(); err != nil {
		return err
	}
	if t.DECall, err = b.ReadString(); err != nil {
		return err
	}
	if t.DEGrid, err = b.ReadString(); err != nil {
		return err
	}
	if t.DXGrid, err = b.ReadString(); err != nil {
		return err
	}
	if t.TxWatchdog, err = b.optBool(); err != nil {
		return err
	}
	if t.SubMode, err = b.optString(); err != nil {
		return err
	}
	if t.FastMode, err = b.optBool(); err != nil {
		return err
	}
	if t.SpecialOpMode, err = b.optU8(); err != nil {
		return err
	}
	if t.FrequencyTolerance, err = b.optU32(); err != nil {
		return err
	}
	if t.TRPeriod, err = b.optU32(); err != nil {
		return err
	}
	if t.ConfigurationName, err = b.optString(); err != nil {
		return err
	}
	if t.TxMessage, err = b.optString(); err != nil {
		return err
	}
	return nil
}

func (t *Status) writePayload(b *Buffer) {
	b.WriteU64(t.DialFrequencyHz)
	b.WriteString(t.Mode)
	b.WriteString(t.DXCall)
	b.WriteString(t.Report)
	b.WriteString(t.TxMode)
	b.WriteBool(t.TxEnabled)
	b.WriteBool(t.Transmitting)
	b.WriteBool(t.Decoding)
	b.WriteU32(t.RxDF)
	b.WriteU32(t.TxDF)
	b.WriteString(t.DECall)
	b.WriteString(t.DEGrid)
	b.WriteString(t.DXGrid)
	if t.TxWatchdog == nil {
		return
	}
	b.WriteBool(*t.TxWatchdog)
	if t.SubMode == nil {
		return
	}
	b.WriteString(*t.SubMode)
	if t.FastMode == nil {
		return
	}
	b.WriteBool(*t.FastMode)
	if t.SpecialOpMode == nil {
		return
	}
	b.WriteU8(*t.SpecialOpMode)
	if t.FrequencyTolerance == nil {
		return
	}
	b.WriteU32(*t.FrequencyTolerance)
	if t.TRPeriod == nil {
		return
	}
	b.WriteU32(*t.TRPeriod)
	if t.ConfigurationName == nil {
		return
	}
	b.WriteString(*t.ConfigurationName)
	if t.TxMessage == nil {
		return
	}
	b.WriteString(*t.TxMessage)
}

// DecodeMsg is a single decoded over-the-air message (type 2). The
// free-text Message field carries the exchange the worked-before engine
// extracts callsigns from.
type DecodeMsg struct {
	Header
	IsNew         bool
	TimeMs        uint32
	SNR           int32
	DeltaTimeS    float64
	DeltaFreqHz   uint32
	Mode          QString
	Message       QString
	LowConfidence bool
	OffAir        bool
}

func (t *DecodeMsg) TelegramType() Type { return TypeDecode }

func (t *DecodeMsg) readPayload(b *Buffer) error {
	var err error
	if t.IsNew, err = b.ReadBool(); err != nil {
		return err
	}
	if t.TimeMs, err = b.ReadU32(); err != nil {
		return err
	}
	if t.SNR, err = b.ReadI32(); err != nil {
		return err
	}
	if t.DeltaTimeS, err = b.ReadF64(); err != nil {
		return err
	}
	if t.DeltaFreqHz, err = b.ReadU32(); err != nil {
		return err
	}
	if t.Mode, err = b.ReadString(); err != nil {
		return err
	}
	if t.Message, err = b.ReadString(); err != nil {
		return err
	}
	if t.LowConfidence, err = b.ReadBool(); err != nil {
		return err
	}
	if t.OffAir, err = b.ReadBool(); err != nil {
		return err
	}
	return nil
}

func (t *DecodeMsg) writePayload(b *Buffer) {
	b.WriteBool(t.IsNew)
	b.WriteU32(t.TimeMs)
	b.WriteI32(t.SNR)
	b.WriteF64(t.DeltaTimeS)
	b.WriteU32(t.DeltaFreqHz)
	b.WriteString(t.Mode)
	b.WriteString(t.Message)
	b.WriteBool(t.LowConfidence)
	b.WriteBool(t.OffAir)
}

func (t *DecodeMsg) String() string {
	return fmt.Sprintf("Decode{snr=%d dt=%.1f df=%d mode=%s msg=%q}",
		t.SNR, t.DeltaTimeS, t.DeltaFreqHz, t.Mode, t.Message.S())
}

// Clear instructs the receiver to clear displayed decodes (type 3).
type Clear struct {
	Header
	Window *uint8
}

func (t *Clear) TelegramType() Type { return TypeClear }

func (t *Clear) readPayload(b *Buffer) error {
	var err error
	t.Window, err = b.optU8()
	return err
}

func (t *Clear) writePayload(b *Buffer) {
	if t.Window != nil {
		b.WriteU8(*t.Window)
	}
}

// Reply echoes a decode the operator selected to answer (type 4).
type Reply struct {
	Header
	TimeMs        uint32
	SNR           int32
	DeltaTimeS    float64
	DeltaFreqHz   uint32
	Mode          QString
	Message       QString
	LowConfidence bool
	Modifiers     uint8
}

func (t *Reply) TelegramType() Type { return TypeReply }

func (t *Reply) readPayload(b *Buffer) error {
	var err error
	if t.TimeMs, err = b.ReadU32(); err != nil {
		return err
	}
	if t.SNR, err = b.ReadI32(); err != nil {
		return err
	}
	if t.DeltaTimeS, err = b.ReadF64(); err != nil {
		return err
	}
	if t.DeltaFreqHz, err = b.ReadU32(); err != nil {
		return err
	}
	if t.Mode, err = b.ReadString(); err != nil {
		return err
	}
	if t.Message, err = b.ReadString(); err != nil {
		return err
	}
	if t.LowConfidence, err = b.ReadBool(); err != nil {
		return err
	}
	if t.Modifiers, err = b.ReadU8(); err != nil {
		return err
	}
	return nil
}

func (t *Reply) writePayload(b *Buffer) {
	b.WriteU32(t.TimeMs)
	b.WriteI32(t.SNR)
	b.WriteF64(t.DeltaTimeS)
	b.WriteU32(t.DeltaFreqHz)
	b.WriteString(t.Mode)
	b.WriteString(t.Message)
	b.WriteBool(t.LowConfidence)
	b.WriteU8(t.Modifiers)
}

// QSOLogged reports a completed, logged contact (type 5).
type QSOLogged struct {
	Header
	DateTimeOff    QDateTime
	DXCall         QString
	DXGrid         QString
	TxFrequencyHz  uint64
	Mode           QString
	ReportSent     QString
	ReportReceived QString
	TxPower        QString
	Comments       QString
	Name           QString
	DateTimeOn     QDateTime

	OperatorCall        *QString
	MyCall              *QString
	MyGrid              *QString
	ExchangeSent        *QString
	ExchangeReceived    *QString
	ADIFPropagationMode *QString
}

func (t *QSOLogged) TelegramType() Type { return TypeQSOLogged }

func (t *QSOLogged) readPayload(b *Buffer) error {
	var err error
	if t.DateTimeOff, err = b.ReadDateTime(); err != nil {
		return err
	}
	if t.DXCall, err = b.ReadString(); err != nil {
		return err
	}
	if t.DXGrid, err = b.ReadString(); err != nil {
		return err
	}
	if t.TxFrequencyHz, err = b.ReadU64(); err != nil {
		return err
	}
	if t.Mode, err = b.ReadString(); err != nil {
		return err
	}
	if t.ReportSent, err = b.ReadString(); err != nil {
		return err
	}
	if t.ReportReceived, err = b.ReadString(); err != nil {
		return err
	}
	if t.TxPower, err = b.ReadString(); err != nil {
		return err
	}
	if t.Comments, err = b.ReadString(); err != nil {
		return err
	}
	if t.Name, err = b.ReadString(); err != nil {
		return err
	}
	if t.DateTimeOn, err = b.ReadDateTime(); err != nil {
		return err
	}
	if t.OperatorCall, err = b.optString(); err != nil {
		return err
	}
	if t.MyCall, err = b.optString(); err != nil {
		return err
	}
	if t.MyGrid, err = b.optString(); err != nil {
		return err
	}
	if t.ExchangeSent, err = b.optString(); err != nil {
		return err
	}
	if t.ExchangeReceived, err = b.optString(); err != nil {
		return err
	}
	if t.ADIFPropagationMode, err = b.optString(); err != nil {
		return err
	}
	return nil
}

func (t *QSOLogged) writePayload(b *Buffer) {
	b.WriteDateTime(t.DateTimeOff)
	b.WriteString(t.DXCall)
	b.WriteString(t.DXGrid)
	b.WriteU64(t.TxFrequencyHz)
	b.WriteString(t.Mode)
	b.WriteString(t.ReportSent)
	b.WriteString(t.ReportReceived)
	b.WriteString(t.TxPower)
	b.WriteString(t.Comments)
	b.WriteString(t.Name)
	b.WriteDateTime(t.DateTimeOn)
	if t.OperatorCall == nil {
		return
	}
	b.WriteString(*t.OperatorCall)
	if t.MyCall == nil {
		return
	}
	b.WriteString(*t.MyCall)
	if t.MyGrid == nil {
		return
	}
	b.WriteString(*t.MyGrid)
	if t.ExchangeSent == nil {
		return
	}
	b.WriteString(*t.ExchangeSent)
	if t.ExchangeReceived == nil {
		return
	}
	b.WriteString(*t.ExchangeReceived)
	if t.ADIFPropagationMode == nil {
		return
	}
	b.WriteString(*t.ADIFPropagationMode)
}

// Close announces the companion application shutting down (type 6).
type Close struct {
	Header
}

func (t *Close) TelegramType() Type        { return TypeClose }
func (t *Close) readPayload(*Buffer) error { return nil }
func (t *Close) writePayload(*Buffer)      {}

// Replay requests a replay of the current decode window (type 7).
type Replay struct {
	Header
}

func (t *Replay) TelegramType() Type        { return TypeReplay }
func (t *Replay) readPayload(*Buffer) error { return nil }
func (t *Replay) writePayload(*Buffer)      {}

// HaltTx stops transmission (type 8).
type HaltTx struct {
	Header
	AutoTxOnly bool
}

func (t *HaltTx) TelegramType() Type { return TypeHaltTx }

func (t *HaltTx) readPayload(b *Buffer) error {
	var err error
	t.AutoTxOnly, err = b.ReadBool()
	return err
}

func (t *HaltTx) writePayload(b *Buffer) {
	b.WriteBool(t.AutoTxOnly)
}

// FreeText sets the free-text message, optionally sending it (type 9).
type FreeText struct {
	Header
	Text QString
	Send bool
}

func (t *FreeText) TelegramType() Type { return TypeFreeText }

func (t *FreeText) readPayload(b *Buffer) error {
	var err error
	if t.Text, err = b.ReadString(); err != nil {
		return err
	}
	if t.Send, err = b.ReadBool(); err != nil {
		return err
	}
	return nil
}

func (t *FreeText) writePayload(b *Buffer) {
	b.WriteString(t.Text)
	b.WriteBool(t.Send)
}

// WSPRDecode is a single WSPR spot (type 10). Unlike Decode, the sender
// callsign arrives already parsed.
type WSPRDecode struct {
	Header
	IsNew       bool
	TimeMs      uint32
	SNR         int32
	DeltaTimeS  float64
	FrequencyHz uint64
	Drift       int32
	Callsign    QString
	Grid        QString
	PowerDBm    int32
	OffAir      bool
}

func (t *WSPRDecode) TelegramType() Type { return TypeWSPRDecode }

func (t *WSPRDecode) readPayload(b *Buffer) error {
	var err error
	if t.IsNew, err = b.ReadBool(); err != nil {
		return err
	}
	if t.TimeMs, err = b.ReadU32(); err != nil {
		return err
	}
	if t.SNR, err = b.ReadI32(); err != nil {
		return err
	}
	if t.DeltaTimeS, err = b.ReadF64(); err != nil {
		return err
	}
	if t.FrequencyHz, err = b.ReadU64(); err != nil {
		return err
	}
	if t.Drift, err = b.ReadI32(); err != nil {
		return err
	}
	if t.Callsign, err = b.ReadString(); err != nil {
		return err
	}
	if t.Grid, err = b.ReadString(); err != nil {
		return err
	}
	if t.PowerDBm, err = b.ReadI32(); err != nil {
		return err
	}
	if t.OffAir, err = b.ReadBool(); err != nil {
		return err
	}
	return nil
}

func (t *WSPRDecode) writePayload(b *Buffer) {
	b.WriteBool(t.IsNew)
	b.WriteU32(t.TimeMs)
	b.WriteI32(t.SNR)
	b.WriteF64(t.DeltaTimeS)
	b.WriteU64(t.FrequencyHz)
	b.WriteI32(t.Drift)
	b.WriteString(t.Callsign)
	b.WriteString(t.Grid)
	b.WriteI32(t.PowerDBm)
	b.WriteBool(t.OffAir)
}

// Location updates the Maidenhead grid of the station (type 11).
type Location struct {
	Header
	Location QString
}

func (t *Location) TelegramType() Type { return TypeLocation }

func (t *Location) readPayload(b *Buffer) error {
	var err error
	t.Location, err = b.ReadString()
	return err
}

func (t *Location) writePayload(b *Buffer) {
	b.WriteString(t.Location)
}

// LoggedADIF carries one logged contact as raw ADIF text (type 12).
type LoggedADIF struct {
	Header
	ADIFText QString
}

func (t *LoggedADIF) TelegramType() Type { return TypeLoggedADIF }

func (t *LoggedADIF) readPayload(b *Buffer) error {
	var err error
	t.ADIFText, err = b.ReadString()
	return err
}

func (t *LoggedADIF) writePayload(b *Buffer) {
	b.WriteString(t.ADIFText)
}

// HighlightCallsign recolors a callsign in the decode window (type 13).
// Invalid colors clear any previous highlight.
type HighlightCallsign struct {
	Header
	Callsign          QString
	Background        QColor
	Foreground        QColor
	HighlightLastOnly bool
}

func (t *HighlightCallsign) TelegramType() Type { return TypeHighlightCallsign }

func (t *HighlightCallsign) readPayload(b *Buffer) error {
	var err error
	if t.Callsign, err = b.ReadString(); err != nil {
		return err
	}
	if t.Background, err = b.ReadColor(); err != nil {
		return err
	}
	if t.Foreground, err = b.ReadColor(); err != nil {
		return err
	}
	if t.HighlightLastOnly, err = b.ReadBool(); err != nil {
		return err
	}
	return nil
}

func (t *HighlightCallsign) writePayload(b *Buffer) {
	b.WriteString(t.Callsign)
	b.WriteColor(t.Background)
	b.WriteColor(t.Foreground)
	b.WriteBool(t.HighlightLastOnly)
}

// SwitchConfiguration selects a named configuration (type 14).
type SwitchConfiguration struct {
	Header
	ConfigurationName QString
}

func (t *SwitchConfiguration) TelegramType() Type { return TypeSwitchConfiguration }

func (t *SwitchConfiguration) readPayload(b *Buffer) error {
	var err error
	t.ConfigurationName, err = b.ReadString()
	return err
}

func (t *SwitchConfiguration) writePayload(b *Buffer) {
	b.WriteString(t.ConfigurationName)
}

// Configure adjusts operating parameters of the running instance (type 15).
type Configure struct {
	Header
	Mode               QString
	FrequencyTolerance uint32
	SubMode            QString
	FastMode           bool
	TRPeriod           uint32
	RxDF               uint32
	DXCall             QString
	DXGrid             QString
	GenerateMessages   bool
}

func (t *Configure) TelegramType() Type { return TypeConfigure }

func (t *Configure) readPayload(b *Buffer) error {
	var err error
	if t.Mode, err = b.ReadString(); err != nil {
		return err
	}
	if t.FrequencyTolerance, err = b.ReadU32(); err != nil {
		return err
	}
	if t.SubMode, err = b.ReadString(); err != nil {
		return err
	}
	if t.FastMode, err = b.ReadBool(); err != nil {
		return err
	}
	if t.TRPeriod, err = b.ReadU32(); err != nil {
		return err
	}
	if t.RxDF, err = b.ReadU32(); err != nil {
		return err
	}
	if t.DXCall, err = b.ReadString(); err != nil {
		return err
	}
	if t.DXGrid, err = b.ReadString(); err != nil {
		return err
	}
	if t.GenerateMessages, err = b.ReadBool(); err != nil {
		return err
	}
	return nil
}

func (t *Configure) writePayload(b *Buffer) {
	b.WriteString(t.Mode)
	b.WriteU32(t.FrequencyTolerance)
	b.WriteString(t.SubMode)
	b.WriteBool(t.FastMode)
	b.WriteU32(t.TRPeriod)
	b.WriteU32(t.RxDF)
	b.WriteString(t.DXCall)
	b.WriteString(t.DXGrid)
	b.WriteBool(t.GenerateMessages)
}
