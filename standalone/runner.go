package standalone

import (
	"fmt"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	vmcore "github.com/user-none/ravenui/api"
)

// runner implements ebiten.Game. Each Update is one host tick: input is
// delivered, the machine is serviced, and its output is presented.
type runner struct {
	machine    vmcore.Machine
	aggregator *InputAggregator
	poller     *hostPoller
	input      HostInput
	console    Console

	presenter    *FramePresenter
	notification *Notification
	screenshots  *ScreenshotManager
	paster       *ClipboardPaster

	stdout, stderr io.Writer

	cursorHidden    bool
	cursorApplied   bool
	setCursorHidden func(hidden bool)

	lastMismatch [4]uint16
	frameW       uint16
	frameH       uint16
}

func newRunner(m vmcore.Machine, keys KeyTable, console Console, screenshots *ScreenshotManager, stdout, stderr io.Writer) *runner {
	return &runner{
		machine:         m,
		aggregator:      NewInputAggregator(keys, NewFramePacer(RedrawQuantum)),
		poller:          newHostPoller(),
		console:         console,
		presenter:       NewFramePresenter(),
		notification:    NewNotification(),
		screenshots:     screenshots,
		paster:          NewClipboardPaster(),
		stdout:          stdout,
		stderr:          stderr,
		setCursorHidden: setEbitenCursorHidden,
	}
}

func setEbitenCursorHidden(hidden bool) {
	if hidden {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

// Update implements ebiten.Game. A non-nil error (including
// *vmcore.ExitError) ends the run loop.
func (r *runner) Update() error {
	r.poller.poll(&r.input, r.presenter.ToDevice)
	r.handleHotkeys()
	return r.tick(&r.input)
}

// tick runs one host tick against a sampled input snapshot.
func (r *runner) tick(in *HostInput) error {
	r.aggregator.Tick(r.machine, in)

	if b, ok := r.console.Poll(); ok {
		r.machine.Console(b)
	}

	r.machine.Audio()

	probeW, probeH := r.machine.ScreenSize()
	out := r.machine.Output()

	r.applyCursor(out.HideMouse)
	r.checkSize(probeW, probeH, out.Width, out.Height)
	r.presenter.Present(out)

	return out.Effects.Check(r.stdout, r.stderr)
}

// applyCursor forwards the machine's pointer visibility when it changes.
func (r *runner) applyCursor(hidden bool) {
	if r.cursorApplied && r.cursorHidden == hidden {
		return
	}
	r.cursorHidden = hidden
	r.cursorApplied = true
	r.setCursorHidden(hidden)
}

// checkSize warns when the frame size changes between ticks, or when the
// machine's reported screen size disagrees with the frame it produced.
// The window is left alone; the frame is scaled to fit. Each distinct
// probe mismatch is reported once.
func (r *runner) checkSize(probeW, probeH, outW, outH uint16) {
	if r.frameW != 0 && (outW != r.frameW || outH != r.frameH) {
		r.warnSize(fmt.Sprintf("screen resized from %dx%d to %dx%d, window size unchanged", r.frameW, r.frameH, outW, outH))
	}
	r.frameW, r.frameH = outW, outH

	if probeW == outW && probeH == outH {
		return
	}
	key := [4]uint16{probeW, probeH, outW, outH}
	if key == r.lastMismatch {
		return
	}
	r.lastMismatch = key
	r.warnSize(fmt.Sprintf("screen size %dx%d does not match frame %dx%d", probeW, probeH, outW, outH))
}

func (r *runner) warnSize(msg string) {
	log.Printf("Warning: %s", msg)
	r.notification.ShowDefault(msg)
}

// handleHotkeys processes the function keys reserved for the frontend.
func (r *runner) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		r.paste()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		r.screenshot()
	}
}

func (r *runner) paste() {
	relay, ok := r.console.(*ConsoleRelay)
	if !ok {
		r.notification.ShowDefault("Console input disabled")
		return
	}
	n, err := r.paster.Paste(relay)
	if err != nil {
		log.Printf("Warning: paste failed: %v", err)
		r.notification.ShowDefault("Clipboard not available")
		return
	}
	r.notification.ShowDefault(fmt.Sprintf("Pasted %d bytes", n))
}

func (r *runner) screenshot() {
	if r.screenshots == nil {
		return
	}
	w, h := r.presenter.Size()
	path, err := r.screenshots.TakeScreenshot(r.presenter.Pixels(), w, h)
	if err != nil {
		log.Printf("Warning: screenshot failed: %v", err)
		r.notification.ShowDefault("Screenshot failed")
		return
	}
	log.Printf("Screenshot saved to %s", path)
	r.notification.ShowDefault("Screenshot saved")
}

// Draw implements ebiten.Game.
func (r *runner) Draw(screen *ebiten.Image) {
	r.presenter.Draw(screen)
	r.notification.Draw(screen)
}

// Layout implements ebiten.Game.
func (r *runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}
