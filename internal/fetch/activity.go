package fetch

import (
	"time"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/session"
)

// Vendor field mnemonics used by the collection pipeline.
const (
	FieldBid           = "BID"
	FieldAsk           = "ASK"
	FieldLastPrice     = "LAST_PRICE"
	FieldBidSize       = "BID_SIZE"
	FieldAskSize       = "ASK_SIZE"
	FieldVolume        = "VOLUME"
	FieldTradingDate   = "TRADING_DT_REALTIME"
	FieldLastUpdate    = "LAST_UPDATE_DT"
	FieldOpenInterest  = "OPEN_INT"
	FieldSpreadBP      = "RT_SPREAD_BP"
	FieldContractValue = "CONTRACT_VALUE"
)

// DefaultFields returns the field set requested for every tick snapshot.
func DefaultFields() []string {
	return []string{
		FieldBid, FieldAsk, FieldLastPrice,
		FieldBidSize, FieldAskSize,
		FieldVolume, FieldTradingDate, FieldLastUpdate,
		FieldOpenInterest, FieldSpreadBP, FieldContractValue,
	}
}

// Active reports whether a snapshot shows a live market: a standing bid or
// ask, or a traded price backed by open interest.
func Active(fm session.FieldMap) bool {
	if fm.Has(FieldBid) || fm.Has(FieldAsk) {
		return true
	}
	if fm.Has(FieldLastPrice) {
		if oi, ok := fm.Int(FieldOpenInterest); ok && oi > 0 {
			return true
		}
	}
	return false
}

// SessionVolume returns the vendor volume when the snapshot was updated
// today, and 0 when the volume figure is carried over from a prior session.
func SessionVolume(fm session.FieldMap, today time.Time) int64 {
	vol, ok := fm.Int(FieldVolume)
	if !ok || vol <= 0 {
		return 0
	}
	upd, ok := fm.Date(FieldLastUpdate)
	if !ok || !calendar.Date(upd).Equal(calendar.Date(today)) {
		return 0
	}
	return vol
}

// BuildTick assembles a tick snapshot from a field map. Absent optional
// fields stay nil; the session date falls back to today when the vendor
// omits its trading date.
func BuildTick(spreadID int64, fm session.FieldMap, now, today time.Time) model.Tick {
	tick := model.Tick{
		SpreadID:      spreadID,
		Timestamp:     now,
		SessionDate:   calendar.Date(today),
		SessionVolume: SessionVolume(fm, today),
	}

	if v, ok := fm.Float(FieldBid); ok {
		tick.Bid = &v
	}
	if v, ok := fm.Float(FieldAsk); ok {
		tick.Ask = &v
	}
	if v, ok := fm.Float(FieldLastPrice); ok {
		tick.LastPrice = &v
	}
	if v, ok := fm.Int(FieldBidSize); ok {
		tick.BidSize = &v
	}
	if v, ok := fm.Int(FieldAskSize); ok {
		tick.AskSize = &v
	}
	if v, ok := fm.Int(FieldVolume); ok {
		tick.Volume = v
	}
	if v, ok := fm.Int(FieldOpenInterest); ok {
		tick.OpenInterest = v
	}
	if v, ok := fm.Date(FieldTradingDate); ok {
		tick.SessionDate = v
	}
	if v, ok := fm.Date(FieldLastUpdate); ok {
		tick.LastUpdate = &v
	}
	if v, ok := fm.Float(FieldSpreadBP); ok {
		tick.SpreadBP = &v
	}
	if v, ok := fm.Float(FieldContractValue); ok {
		tick.ContractValue = &v
	}
	return tick
}
