package main

import (
	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Scale is the size of a CHIP-8 pixel in the window.
	///
	Scale = 10

	// bytes per pixel of the streaming texture
	screenDepth = 4
)

var (
	/// Background and foreground colors of the CHIP-8 display.
	///
	Background = sdl.Color{R: 143, G: 145, B: 133, A: 255}
	Foreground = sdl.Color{R: 17, G: 29, B: 43, A: 255}
)

/// Screen is an SDL texture the CHIP-8 display is presented on.
///
type Screen struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture

	// ABGR pixels uploaded to the texture on Flush
	pixels []byte
}

/// NewScreen creates the streaming texture for the CHIP-8 video memory.
///
func NewScreen(renderer *sdl.Renderer) (*Screen, error) {
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), chip8.Width, chip8.Height)
	if err != nil {
		return nil, err
	}

	return &Screen{
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, chip8.Width*chip8.Height*screenDepth),
	}, nil
}

/// SetPixel sets the color of a single pixel.
///
func (scr *Screen) SetPixel(x, y int, on bool) {
	c := Background
	if on {
		c = Foreground
	}

	i := (y*chip8.Width + x) * screenDepth

	scr.pixels[i] = c.R
	scr.pixels[i+1] = c.G
	scr.pixels[i+2] = c.B
	scr.pixels[i+3] = c.A
}

/// Flush uploads the pixels to the texture.
///
func (scr *Screen) Flush() error {
	return scr.texture.Update(nil, scr.pixels, chip8.Width*screenDepth)
}

/// Copy the screen to the renderer, stretched to fill w x h at x, y.
///
func (scr *Screen) Copy(x, y, w, h int32) error {
	return scr.renderer.Copy(scr.texture, nil, &sdl.Rect{X: x, Y: y, W: w, H: h})
}

/// Destroy the texture.
///
func (scr *Screen) Destroy() {
	scr.texture.Destroy()
}
