package photoheart

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the overlay text is redrawn, in seconds.
const fpsRefresh = 0.5

// fpsWidget displays the current FPS and TPS. It redraws its own small image
// every fpsRefresh seconds with ebitenutil.DebugPrint.
type fpsWidget struct {
	img       *ebiten.Image
	sinceDraw float64
	text      string
}

func (w *fpsWidget) update(dt float64) {
	w.sinceDraw += dt
	if w.text != "" && w.sinceDraw < fpsRefresh {
		return
	}
	w.sinceDraw = 0
	w.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if w.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		w.img = ebiten.NewImage(100, 32)
	}
	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, w.text)
}

func (w *fpsWidget) draw(dst *ebiten.Image) {
	if w.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	dst.DrawImage(w.img, &op)
}
