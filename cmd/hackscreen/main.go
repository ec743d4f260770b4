package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/hack/emulator"
	hackio "github.com/ezrec/hack/io"
)

var specialKeys = map[ebiten.Key]uint16{
	ebiten.KeyEnter:      hackio.KEY_NEWLINE,
	ebiten.KeyBackspace:  hackio.KEY_BACKSPACE,
	ebiten.KeyArrowLeft:  hackio.KEY_LEFT,
	ebiten.KeyArrowUp:    hackio.KEY_UP,
	ebiten.KeyArrowRight: hackio.KEY_RIGHT,
	ebiten.KeyArrowDown:  hackio.KEY_DOWN,
	ebiten.KeyHome:       hackio.KEY_HOME,
	ebiten.KeyEnd:        hackio.KEY_END,
	ebiten.KeyPageUp:     hackio.KEY_PAGE_UP,
	ebiten.KeyPageDown:   hackio.KEY_PAGE_DOWN,
	ebiten.KeyInsert:     hackio.KEY_INSERT,
	ebiten.KeyDelete:     hackio.KEY_DELETE,
	ebiten.KeyEscape:     hackio.KEY_ESC,
	ebiten.KeyF1:         hackio.KEY_F1,
	ebiten.KeyF2:         hackio.KEY_F1 + 1,
	ebiten.KeyF3:         hackio.KEY_F1 + 2,
	ebiten.KeyF4:         hackio.KEY_F1 + 3,
	ebiten.KeyF5:         hackio.KEY_F1 + 4,
	ebiten.KeyF6:         hackio.KEY_F1 + 5,
	ebiten.KeyF7:         hackio.KEY_F1 + 6,
	ebiten.KeyF8:         hackio.KEY_F1 + 7,
	ebiten.KeyF9:         hackio.KEY_F1 + 8,
	ebiten.KeyF10:        hackio.KEY_F1 + 9,
	ebiten.KeyF11:        hackio.KEY_F1 + 10,
	ebiten.KeyF12:        hackio.KEY_F1 + 11,
}

type Game struct {
	emu      *emulator.Emulator
	cycles   int           // Cycles per frame.
	canvas   *ebiten.Image // reused screen bitmap
	pixels   []byte
	lastChar uint16
	halted   bool
}

// key returns the key code held down this frame.
func (g *Game) key() uint16 {
	for key, code := range specialKeys {
		if ebiten.IsKeyPressed(key) {
			return code
		}
	}

	if chars := ebiten.AppendInputChars(nil); len(chars) != 0 && chars[0] < 0x80 {
		g.lastChar = uint16(chars[0])
	}

	if len(inpututil.AppendPressedKeys(nil)) == 0 {
		g.lastChar = hackio.KEY_NONE
	}

	return g.lastChar
}

func (g *Game) Update() error {
	if key := g.key(); key == hackio.KEY_NONE {
		g.emu.Keyboard.Release()
	} else {
		g.emu.Keyboard.Press(key)
	}

	if g.halted || g.emu.Done() {
		return nil
	}

	err := g.emu.Run(g.cycles)
	if err != nil {
		log.Printf("%v: %v", os.Args[0], err)
		log.Print(g.emu.String())
		g.halted = true
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(hackio.SCREEN_WIDTH, hackio.SCREEN_HEIGHT)
		g.pixels = make([]byte, hackio.SCREEN_WIDTH*hackio.SCREEN_HEIGHT*4)
	}

	img := g.emu.ScreenImage()
	for n, index := range img.Pix {
		shade := byte(0xff)
		if index != 0 {
			shade = 0
		}
		g.pixels[n*4+0] = shade
		g.pixels[n*4+1] = shade
		g.pixels[n*4+2] = shade
		g.pixels[n*4+3] = 0xff
	}

	g.canvas.WritePixels(g.pixels)
	screen.DrawImage(g.canvas, &ebiten.DrawImageOptions{})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return hackio.SCREEN_WIDTH, hackio.SCREEN_HEIGHT
}

func main() {
	var config string
	var cycles int
	var verbose bool

	flag.StringVar(&config, "config", "", ".toml configuration file")
	flag.IntVar(&cycles, "f", 0, "Cycles per frame (default: the configured cycles)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: expected .vm files, or one .asm or .hack file", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if len(config) != 0 {
		cfg, err := emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
		err = emu.Configure(cfg)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	prog, _, err := emu.Build(flag.Args()...)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	err = emu.Load(prog)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if cycles <= 0 {
		cycles = emu.Config.Cycles
	}

	// Keys held in the window reach memory on every cycle.
	emu.Config.KeyboardPoll = 1

	scale := emu.Config.Screen.Scale
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(hackio.SCREEN_WIDTH*scale, hackio.SCREEN_HEIGHT*scale)
	ebiten.SetWindowTitle("Hack")

	game := &Game{emu: emu, cycles: cycles}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
