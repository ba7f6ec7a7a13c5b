package eventloop

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"region-clicker/src/clicker"
	"region-clicker/src/region"
	"region-clicker/src/session"
	"region-clicker/src/singleinstance"
)

type fakeController struct {
	running atomic.Bool
	stops   atomic.Int32
}

func (f *fakeController) StopClicking() {
	f.stops.Add(1)
	f.running.Store(false)
}

func (f *fakeController) Running() bool { return f.running.Load() }

func (f *fakeController) Snapshot() session.Snapshot {
	return session.Snapshot{Running: f.running.Load(), FrequencyHz: 10}
}

func TestFormatStatus(t *testing.T) {
	got := FormatStatus(session.Snapshot{
		Running:     true,
		HasRegion:   true,
		Region:      region.Region{X1: 100, Y1: 100, X2: 200, Y2: 200},
		Mode:        "random in region",
		FrequencyHz: 10,
		Button:      clicker.ButtonLeft,
		Clicks:      7,
		LastStatus:  "Running",
	})
	want := "running | region 100,100,200,200 | random in region | 10 Hz | left button | 7 clicks | last: Running"
	if got != want {
		t.Fatalf("FormatStatus() =\n%q\nwant\n%q", got, want)
	}
	if idle := FormatStatus(session.Snapshot{FrequencyHz: 5}); !strings.HasPrefix(idle, "idle | no region") {
		t.Fatalf("idle status = %q", idle)
	}
}

func TestLoopServesCommands(t *testing.T) {
	t.Setenv("SINGLEINSTANCE_PORT_START", strconv.Itoa(49650))
	t.Setenv("SINGLEINSTANCE_PORT_END", strconv.Itoa(49651))

	ctl := &fakeController{}
	ctl.running.Store(true)
	var shown atomic.Bool
	loop := New(ctl, func() { shown.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())
	var runErr error
	stopped := make(chan struct{})
	go func() {
		runErr = loop.Run(ctx)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer reqCancel()
	client := singleinstance.NewClient()

	var delegated bool
	var text string
	var err error
	for i := 0; i < 50; i++ {
		delegated, text, err = client.Send(reqCtx, singleinstance.CmdStatus)
		if delegated {
			break
		}
		select {
		case <-stopped:
			t.Skipf("loopback port unavailable in this environment: %v", runErr)
		case <-time.After(10 * time.Millisecond):
		}
	}
	if !delegated || err != nil || !strings.HasPrefix(text, "running") {
		t.Fatalf("STATUS = %v, %q, %v", delegated, text, err)
	}

	if _, text, err := client.Send(reqCtx, singleinstance.CmdStop); err != nil || text != "stop requested" {
		t.Fatalf("STOP = %q, %v", text, err)
	}
	if ctl.stops.Load() != 1 {
		t.Fatalf("StopClicking called %d times", ctl.stops.Load())
	}
	if _, _, err := client.Send(reqCtx, singleinstance.CmdStop); err == nil || err.Error() != "not running" {
		t.Fatalf("second STOP error = %v", err)
	}
	if _, _, err := client.Send(reqCtx, singleinstance.CmdShow); err != nil || !shown.Load() {
		t.Fatalf("SHOW error = %v shown = %v", err, shown.Load())
	}
}
