// Package front is the SDL presentation layer: a scaled window for
// the frame buffer, the host keyboard mapped onto the hex keypad, and
// a square-wave beeper for the sound timer.
package front

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/alkuzin/chip8/cpu"
)

// KEYMAP maps the left side of a QWERTY keyboard onto the 4x4 hex
// keypad.
var KEYMAP = map[sdl.Keycode]uint8{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

// Screen drives the SDL window, input events and the beeper. It
// implements emulator.Frontend.
type Screen struct {
	win   *sdl.Window
	ren   *sdl.Renderer
	audio sdl.AudioDeviceID
	scale int32
	tone  []byte
}

// NewScreen initializes SDL and opens the window and audio device.
func NewScreen(title string, scale int) (s *Screen, err error) {
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return
	}

	s = &Screen{scale: int32(scale)}

	s.win, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		cpu.DISPLAY_W*s.scale, cpu.DISPLAY_H*s.scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return
	}

	s.ren, err = sdl.CreateRenderer(s.win, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return
	}

	err = s.openAudio()

	return
}

// Destroy releases all SDL resources.
func (s *Screen) Destroy() {
	if s.audio != 0 {
		sdl.CloseAudioDevice(s.audio)
	}
	if s.ren != nil {
		s.ren.Destroy()
	}
	if s.win != nil {
		s.win.Destroy()
	}
	sdl.Quit()
}

// Poll processes pending SDL events, updating the keypad state. It
// reports false when the window is closed or ESC is pressed.
func (s *Screen) Poll(keys *cpu.Keypad) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
			if key, ok := KEYMAP[e.Keysym.Sym]; ok {
				keys.Set(key, e.Type == sdl.KEYDOWN)
			}
		}
	}

	return true
}

// Render draws the frame buffer, one filled rectangle per lit pixel.
func (s *Screen) Render(display *cpu.Display) {
	pixels := display.Snapshot()

	s.ren.SetDrawColor(0x00, 0x00, 0x00, 0xFF)
	s.ren.Clear()
	s.ren.SetDrawColor(0xFF, 0xFF, 0xFF, 0xFF)

	for y := range pixels {
		for x, px := range pixels[y] {
			if px == 0 {
				continue
			}
			s.ren.FillRect(&sdl.Rect{
				X: int32(x) * s.scale, Y: int32(y) * s.scale,
				W: s.scale, H: s.scale,
			})
		}
	}

	s.ren.Present()
}
