package model

// SignalKind identifies which indicator a signal was derived from.
type SignalKind string

const (
	SignalRSI      SignalKind = "RSI"
	SignalTrend    SignalKind = "TREND"
	SignalPosition SignalKind = "POSITION"
)

// Signal is a readable interpretation of one indicator.
type Signal struct {
	Kind       SignalKind `json:"kind"`
	Label      string     `json:"label"`
	Commentary string     `json:"commentary"`
}
