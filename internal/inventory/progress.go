package inventory

// Progress stages reported through ProgressFunc.
const (
	StageCopy     = "copy"
	StageDiscover = "discover"
)

// Progress describes how far a long-running step has come.
type Progress struct {
	Stage   string
	Item    string
	Current int
	Total   int
}

// ProgressFunc receives progress updates. It is called synchronously.
type ProgressFunc func(Progress)

func (f ProgressFunc) report(p Progress) {
	if f != nil {
		f(p)
	}
}
