package photoheart

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

const (
	buttonPressScale = 0.92
	buttonTweenTime  = 0.12 // seconds
)

// buttonView draws the hold control with a short press/release tween.
type buttonView struct {
	cfg   ButtonConfig
	font  *TTFFont
	scale float64
	color Color

	scaleTween *TweenGroup
	colorTween *TweenGroup
}

func newButtonView(cfg ButtonConfig) *buttonView {
	return &buttonView{
		cfg:   cfg,
		font:  labelFont(cfg.Height * 0.4),
		scale: 1,
		color: cfg.Color,
	}
}

// buttonBounds centers the button horizontally, Margin above the bottom edge.
func buttonBounds(cfg ButtonConfig, w, h int) Rect {
	return Rect{
		X:      (float64(w) - cfg.Width) / 2,
		Y:      float64(h) - cfg.Margin - cfg.Height,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
}

// setPressed starts the tween toward the pressed or released look.
func (v *buttonView) setPressed(pressed bool) {
	scale, clr := 1.0, v.cfg.Color
	if pressed {
		scale, clr = buttonPressScale, v.cfg.PressedColor
	}
	v.scaleTween = TweenValue(&v.scale, scale, buttonTweenTime, ease.OutQuad)
	v.colorTween = TweenColor(&v.color, clr, buttonTweenTime, ease.OutQuad)
}

func (v *buttonView) update(dt float32) {
	v.scaleTween.Update(dt)
	v.colorTween.Update(dt)
}

// draw renders the button as a rounded pill scaled around its center.
func (v *buttonView) draw(dst *ebiten.Image, bounds Rect) {
	cx, cy := bounds.Center()
	w, h := bounds.Width*v.scale, bounds.Height*v.scale
	x, y := cx-w/2, cy-h/2
	r := h / 2
	clr := v.color.toRGBA()

	vector.DrawFilledRect(dst, float32(x+r), float32(y), float32(w-2*r), float32(h), clr, true)
	vector.DrawFilledCircle(dst, float32(x+r), float32(cy), float32(r), clr, true)
	vector.DrawFilledCircle(dst, float32(x+w-r), float32(cy), float32(r), clr, true)

	if v.cfg.Label != "" {
		v.font.DrawCentered(dst, v.cfg.Label, cx, cy, ColorWhite)
	}
}
