package movingaveragev1

// Tracker holds one window per configured symbol.
type Tracker interface {
	AddDataPoint(symbol string, mean float64) error
	Snapshot(symbol string) (Snapshot, error)
	WindowSize() int
}
