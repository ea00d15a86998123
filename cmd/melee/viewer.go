package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/melee/op"
	"go.creack.net/melee/vm"
)

const minWatchDelay = 5

// warriorColors cycles over the slot index; legible on a dark terminal.
var warriorColors = []string{"red", "green", "yellow", "blue", "fuchsia", "aqua"}

func slotColor(owner int) string {
	if owner < 0 {
		return "white"
	}
	return warriorColors[owner%len(warriorColors)]
}

// cellRune picks a glyph per opcode so the arena dump shows what kind
// of code is spreading.
func cellRune(c vm.Cell) rune {
	switch c.Ins.Op {
	case op.Dat:
		return 'x'
	case op.Mov:
		return 'm'
	case op.Spl:
		return 's'
	case op.Jmp, op.Jmz, op.Jmn, op.Djn:
		return 'j'
	default:
		return 'o'
	}
}

type viewer struct {
	app    *tview.Application
	arena  *tview.TextView
	status *tview.TextView
	events *tview.TextView

	battle  *vm.Battle
	done    bool
	paused  bool
	lastLog []string
}

// watchBattle drives the battle one round per tick and renders the
// arena until it is decided or the user quits.
func watchBattle(battle *vm.Battle, delayMs int) error {
	if delayMs < minWatchDelay {
		delayMs = minWatchDelay
	}
	v := &viewer{
		app:    tview.NewApplication(),
		arena:  tview.NewTextView().SetDynamicColors(true),
		status: tview.NewTextView().SetDynamicColors(true),
		events: tview.NewTextView().SetDynamicColors(true),
		battle: battle,
	}
	v.arena.SetBorder(true).SetTitle(" arena ")
	v.events.SetBorder(true).SetTitle(" events ")

	battle.Trace = func(e vm.Event) {
		line := fmt.Sprintf("[%s]%6d %-10s %s[-]", slotColorByName(battle, e.Warrior), e.Round, e.Type, e.Message)
		v.lastLog = append(v.lastLog, line)
		if len(v.lastLog) > 8 {
			v.lastLog = v.lastLog[len(v.lastLog)-8:]
		}
	}

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.status, 1, 0, false).
		AddItem(v.arena, 0, 1, true).
		AddItem(v.events, 10, 0, false)

	quit := make(chan struct{})
	v.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
			select {
			case <-quit:
			default:
				close(quit)
			}
			v.app.Stop()
			return nil
		case ev.Rune() == ' ':
			v.paused = !v.paused
			return nil
		}
		return ev
	})

	go func() {
		ticker := time.NewTicker(time.Duration(delayMs) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
			}
			v.app.QueueUpdateDraw(func() {
				if v.paused || v.done {
					return
				}
				if !v.battle.Step() {
					v.done = true
				}
				v.redraw()
			})
			if v.done {
				return
			}
		}
	}()

	v.redraw()
	return v.app.SetRoot(layout, true).Run()
}

func slotColorByName(b *vm.Battle, name string) string {
	for i, w := range b.Warriors() {
		if w.Name == name {
			return slotColor(i)
		}
	}
	return "white"
}

func (v *viewer) redraw() {
	const width = 64

	arena := v.battle.Arena()
	pcs := map[int]bool{}
	liveByName := map[string]int{}
	for _, pv := range v.battle.Processes() {
		pcs[pv.PC] = true
		liveByName[pv.Warrior]++
	}

	out := &strings.Builder{}
	for i, c := range arena {
		if i > 0 && i%width == 0 {
			out.WriteByte('\n')
		}
		switch {
		case pcs[i]:
			fmt.Fprintf(out, "[%s::r]%c[-::-]", slotColor(c.Owner), cellRune(c))
		case c.Owner == vm.NoOwner:
			out.WriteString("[gray]·[-]")
		default:
			fmt.Fprintf(out, "[%s]%c[-]", slotColor(c.Owner), cellRune(c))
		}
	}
	v.arena.SetText(out.String())

	status := &strings.Builder{}
	fmt.Fprintf(status, " round %d", v.battle.Round())
	for i, w := range v.battle.Warriors() {
		fmt.Fprintf(status, "  [%s]%s[-]:%d", slotColor(i), w.Name, liveByName[w.Name])
	}
	if v.paused {
		status.WriteString("  [yellow](paused)[-]")
	}
	if v.done {
		status.WriteString("  [yellow]finished, q to quit[-]")
	}
	v.status.SetText(status.String())

	v.events.SetText(strings.Join(v.lastLog, "\n"))
}
