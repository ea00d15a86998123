// Package main is a graphical arena viewer. It loads two or more
// warriors, runs a battle and paints each cell with its owner's color.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"go.creack.net/melee/asm"
	"go.creack.net/melee/assets"
	"go.creack.net/melee/op"
	"go.creack.net/melee/vm"
)

const (
	gridWidth = 64
	cellPx    = 10
)

var palette = []color.RGBA{
	colornames.Crimson,
	colornames.Dodgerblue,
	colornames.Mediumseagreen,
	colornames.Gold,
	colornames.Orchid,
	colornames.Darkorange,
}

type Game struct {
	battle *vm.Battle

	stepEvery int
	tick      int
	paused    bool
	done      bool
	result    vm.Result
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.done || g.paused {
		return nil
	}
	g.tick++
	if g.tick%g.stepEvery != 0 {
		return nil
	}
	if !g.battle.Step() {
		g.done = true
		g.result = g.battle.Run()
		ebiten.SetWindowTitle(fmt.Sprintf("melee - %s after %d rounds", g.result.Outcome, g.result.Rounds))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	a := g.battle.Arena()
	for i, c := range a {
		if c.Owner == vm.NoOwner {
			continue
		}
		x := float32(i%gridWidth) * cellPx
		y := float32(i/gridWidth) * cellPx
		vector.DrawFilledRect(screen, x+1, y+1, cellPx-2, cellPx-2, palette[c.Owner%len(palette)], false)
	}
	for _, p := range g.battle.Processes() {
		x := float32(p.PC%gridWidth) * cellPx
		y := float32(p.PC/gridWidth) * cellPx
		vector.StrokeRect(screen, x, y, cellPx, cellPx, 1, colornames.White, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := len(g.battle.Arena())
	rows := (size + gridWidth - 1) / gridWidth
	return gridWidth * cellPx, rows * cellPx
}

func loadWarrior(path string) (*vm.Warrior, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	prog, err := asm.Assemble(string(buf))
	if err != nil {
		return nil, fmt.Errorf("assemble %q: %w", path, err)
	}
	return vm.NewWarrior(prog.Name, prog.Code)
}

func embeddedWarrior(name string) (*vm.Warrior, error) {
	src, ok := assets.Warriors()[name]
	if !ok {
		return nil, fmt.Errorf("no embedded warrior %q", name)
	}
	prog, err := asm.Assemble(src)
	if err != nil {
		return nil, err
	}
	return vm.NewWarrior(prog.Name, prog.Code)
}

func main() {
	arenaSize := flag.Int("size", 4096, "arena size in cells")
	maxCycles := flag.Int("cycles", op.MaxCycles, "round cap")
	stepEvery := flag.Int("step", 2, "ticks between rounds")
	flag.Parse()

	var warriors []*vm.Warrior
	if args := flag.Args(); len(args) >= 2 {
		for _, path := range args {
			w, err := loadWarrior(path)
			if err != nil {
				log.Fatal(err)
			}
			warriors = append(warriors, w)
		}
	} else {
		for _, name := range []string{"imp", "dwarf"} {
			w, err := embeddedWarrior(name)
			if err != nil {
				log.Fatal(err)
			}
			warriors = append(warriors, w)
		}
	}

	placements := make([]vm.Placement, len(warriors))
	for i, w := range warriors {
		placements[i] = vm.Placement{Warrior: w, Offset: i * (*arenaSize / len(warriors))}
	}
	battle, err := vm.NewBattle(vm.Config{
		ArenaSize:     *arenaSize,
		MaxCycles:     *maxCycles,
		MinSeparation: op.MinSeparation,
	}, placements)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("melee")
	ebiten.SetWindowSize(gridWidth*cellPx, (*arenaSize/gridWidth)*cellPx)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGameWithOptions(&Game{battle: battle, stepEvery: *stepEvery}, &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil {
		log.Fatal(err)
	}
}
