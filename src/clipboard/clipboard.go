package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"

	"region-clicker/src/region"
)

var ErrUnavailable = errors.New("clipboard unavailable")

var (
	writeMu  sync.Mutex
	initOnce sync.Once
	initErr  error
)

func Init() error {
	initOnce.Do(func() { initErr = clipboard.Init() })
	return initErr
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	if err := Init(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WriteRegion copies r as "x1,y1,x2,y2", the form the CLI --region flag accepts.
func WriteRegion(r region.Region) error {
	return Write(r.String())
}
