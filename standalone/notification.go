package standalone

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	notificationDuration = 3 * time.Second
	notificationFontSize = 14
	notificationPadding  = 8
	notificationMargin   = 12
)

var (
	notificationBackground = color.RGBA{0x10, 0x10, 0x10, 153} // 60% opacity
	notificationText       = color.White
)

var (
	notificationFaceOnce sync.Once
	notificationFace     *text.GoTextFace
)

// loadNotificationFace parses the bundled Go regular font. Nil means text
// overlays are unavailable.
func loadNotificationFace() *text.GoTextFace {
	notificationFaceOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("Warning: notification font not available: %v", err)
			return
		}
		notificationFace = &text.GoTextFace{Source: src, Size: notificationFontSize}
	})
	return notificationFace
}

// Notification displays a temporary message in the bottom-right corner
type Notification struct {
	mu        sync.Mutex
	message   string
	startTime time.Time
	duration  time.Duration
	now       func() time.Time

	bg *ebiten.Image
}

// NewNotification creates a new notification overlay
func NewNotification() *Notification {
	return &Notification{now: time.Now}
}

// Show displays a message for duration. Safe to call from any goroutine.
func (n *Notification) Show(message string, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
	n.startTime = n.now()
	n.duration = duration
}

// ShowDefault displays a message with the default duration
func (n *Notification) ShowDefault(message string) {
	n.Show(message, notificationDuration)
}

// Current returns the visible message, or "" when nothing is showing.
func (n *Notification) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" || n.now().Sub(n.startTime) >= n.duration {
		return ""
	}
	return n.message
}

// Draw renders the message over screen
func (n *Notification) Draw(screen *ebiten.Image) {
	message := n.Current()
	if message == "" {
		return
	}
	face := loadNotificationFace()
	if face == nil {
		return
	}

	bounds := screen.Bounds()
	textWidth, textHeight := text.Measure(message, face, 0)
	bgWidth := int(textWidth) + notificationPadding*2
	bgHeight := int(textHeight) + notificationPadding*2
	bgX := bounds.Dx() - bgWidth - notificationMargin
	bgY := bounds.Dy() - bgHeight - notificationMargin

	if n.bg == nil || n.bg.Bounds().Dx() < bgWidth || n.bg.Bounds().Dy() < bgHeight {
		if n.bg != nil {
			n.bg.Deallocate()
		}
		n.bg = ebiten.NewImage(bgWidth, bgHeight)
		n.bg.Fill(notificationBackground)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(bgX), float64(bgY))
	screen.DrawImage(n.bg.SubImage(image.Rect(0, 0, bgWidth, bgHeight)).(*ebiten.Image), opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(bgX+notificationPadding), float64(bgY+notificationPadding))
	textOpts.ColorScale.ScaleWithColor(notificationText)
	text.Draw(screen, message, face, textOpts)
}
