package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/haroruhomer/cfi"
	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/htmldom"
)

var pickCmd = &cobra.Command{
	Use:   "pick <doc.html>",
	Short: "Interactively pick a point and print its pointer",
	Long: `pick renders the document with a one-cell-per-character layout, so
terminal cells map directly onto layout coordinates. Move the cursor
with the arrow keys or click; Enter prints the pointer for the current
cell and exits. Esc or q quits without printing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := htmldom.Parse(string(data))
		if err != nil {
			return err
		}

		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
		s.EnableMouse()

		ptr, err := runPicker(s, doc)
		s.Fini()
		if err != nil {
			return err
		}
		if ptr != "" {
			fmt.Println(ptr)
		}
		return nil
	},
}

func runPicker(s tcell.Screen, doc *htmldom.Document) (string, error) {
	w, _ := s.Size()
	doc.Layout(htmldom.LayoutOptions{CharWidth: 1, CharHeight: 1, PageWidth: float64(w)})

	curX, curY := 0, 0
	status := "arrows/click move, Enter picks, q quits"

	pointerAt := func(x, y int) string {
		// probe the cell center so edge-inclusive containment is
		// unambiguous
		ptr, err := cfi.PointerForPoint(doc, float64(x)+0.5, float64(y)+0.5)
		if err != nil {
			return ""
		}
		return ptr
	}

	for {
		draw(s, doc, curX, curY, status)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
			w, _ = s.Size()
			doc.Layout(htmldom.LayoutOptions{CharWidth: 1, CharHeight: 1, PageWidth: float64(w)})
		case *tcell.EventMouse:
			x, y := ev.Position()
			curX, curY = x, y
			if ev.Buttons()&tcell.Button1 != 0 {
				if ptr := pointerAt(curX, curY); ptr != "" {
					return ptr, nil
				}
				status = "nothing addressable here"
			}
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
				return "", nil
			case ev.Key() == tcell.KeyEnter:
				if ptr := pointerAt(curX, curY); ptr != "" {
					return ptr, nil
				}
				status = "nothing addressable here"
			case ev.Key() == tcell.KeyUp:
				if curY > 0 {
					curY--
				}
			case ev.Key() == tcell.KeyDown:
				curY++
			case ev.Key() == tcell.KeyLeft:
				if curX > 0 {
					curX--
				}
			case ev.Key() == tcell.KeyRight:
				curX++
			}
			if ptr := pointerAt(curX, curY); ptr != "" {
				status = ptr
			} else {
				status = "nothing addressable here"
			}
		}
	}
}

// draw paints every laid-out text segment at its cell position, the
// cursor, and a status line with the pointer under the cursor.
func draw(s tcell.Screen, doc *htmldom.Document, curX, curY int, status string) {
	s.Clear()
	w, h := s.Size()

	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if t, ok := n.(*htmldom.Text); ok {
			runes := []rune(t.Text())
			for i := range runes {
				rects := t.RangeRects(i, i+1)
				if len(rects) == 0 {
					continue
				}
				x, y := int(rects[0].X), int(rects[0].Y)
				if y >= h-1 {
					continue
				}
				s.SetContent(x, y, runes[i], nil, tcell.StyleDefault)
			}
		}
		if f, ok := n.(*htmldom.FrameElement); ok && f.ContentDocument() != nil {
			walk(f.ContentDocument())
		}
		for _, k := range n.Children() {
			walk(k)
		}
	}
	walk(doc)

	style := tcell.StyleDefault.Reverse(true)
	mainc, _, _, _ := s.GetContent(curX, curY)
	if mainc == 0 {
		mainc = ' '
	}
	s.SetContent(curX, curY, mainc, nil, style)

	for i := 0; i < w; i++ {
		s.SetContent(i, h-1, ' ', nil, style)
	}
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		s.SetContent(i, h-1, r, nil, style)
	}
	s.Show()
}
