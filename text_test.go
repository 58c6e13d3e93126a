package photoheart

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadTTFFont(t *testing.T) {
	f, err := LoadTTFFont(goregular.TTF, 20)
	if err != nil {
		t.Fatalf("LoadTTFFont: %v", err)
	}
	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v, want positive", f.LineHeight())
	}
	if f.Face() == nil {
		t.Error("Face() = nil")
	}
	w1, h1 := f.MeasureString("HOLD")
	w2, _ := f.MeasureString("HOLD HOLD")
	if w1 <= 0 || h1 <= 0 {
		t.Errorf("MeasureString = (%v, %v), want positive", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("longer string measured %v <= %v", w2, w1)
	}
}

func TestLoadTTFFontInvalid(t *testing.T) {
	_, err := LoadTTFFont([]byte("not a font"), 12)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "TTF") {
		t.Errorf("error %q should mention TTF", err)
	}
}

func TestLabelFontDraws(t *testing.T) {
	f := labelFont(18)
	dst := ebiten.NewImage(100, 40)
	f.DrawCentered(dst, "HOLD", 50, 20, ColorWhite)
}
