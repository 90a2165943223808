package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haroruhomer/cfi"
	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
	"github.com/haroruhomer/cfi/htmldom"
	"github.com/haroruhomer/cfi/internal/config"
	"github.com/haroruhomer/cfi/internal/logger"
)

type rootOpts struct {
	cfgFile string
	debug   bool
}

var (
	rootOpt rootOpts
	cfg     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cfitool",
	Short: "Inspect positional pointers in HTML documents",
	Long: `cfitool encodes, decodes, sorts, and probes positional pointers
against HTML documents laid out with a monospace flow layout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if rootOpt.debug {
			if err := logger.Init(true); err != nil {
				return err
			}
		}
		var err error
		if rootOpt.cfgFile != "" {
			cfg, err = config.LoadFile(rootOpt.cfgFile)
		} else {
			cfg, err = config.Load()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cfitool:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpt.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/cfitool/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&rootOpt.debug, "debug", "d", false, "write a debug log")
	rootCmd.AddCommand(decodeCmd, atCmd, viewCmd, scanCmd, sortCmd, escapeCmd, unescapeCmd, pickCmd)

	scanCmd.Flags().StringVar(&scanViewport, "viewport", "", "viewport rect as x,y,w,h (default the whole page)")
}

// loadDoc parses and lays out an HTML file with the configured metrics.
func loadDoc(path string) (*htmldom.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := htmldom.Parse(string(data))
	if err != nil {
		return nil, err
	}
	doc.Layout(htmldom.LayoutOptions{
		CharWidth:  cfg.Layout.CharWidth,
		CharHeight: cfg.Layout.CharHeight,
		PageWidth:  cfg.Layout.PageWidth,
	})
	return doc, nil
}

var decodeCmd = &cobra.Command{
	Use:   "decode <doc.html> <pointer>",
	Short: "Resolve a pointer against a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDoc(args[0])
		if err != nil {
			return err
		}
		loc, err := cfi.Decode(args[1], doc)
		if err != nil {
			return err
		}
		fmt.Println("node:", nodePath(loc.Node))
		if loc.HasOffset {
			fmt.Println("offset:", loc.Offset, "forward:", loc.Forward)
		}
		if loc.HasTemporal {
			fmt.Println("temporal:", loc.Temporal)
		}
		if loc.HasSpatial {
			fmt.Printf("spatial: %g:%g\n", loc.SpatialX, loc.SpatialY)
		}
		for _, w := range loc.Warnings {
			fmt.Println("warning:", w)
		}
		return nil
	},
}

var atCmd = &cobra.Command{
	Use:   "at <doc.html> <x> <y>",
	Short: "Build the pointer for a screen point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDoc(args[0])
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad x %q: %w", args[1], err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("bad y %q: %w", args[2], err)
		}
		ptr, err := cfi.PointerForPoint(doc, x, y)
		if err != nil {
			return err
		}
		fmt.Println(ptr)
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <doc.html> <pointer>",
	Short: "Resolve a pointer back to screen geometry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDoc(args[0])
		if err != nil {
			return err
		}
		tgt, err := cfi.PointForPointer(args[1], doc)
		if err != nil {
			return err
		}
		fmt.Printf("point: %g,%g\n", tgt.Point.X, tgt.Point.Y)
		fmt.Printf("rect: %g,%g %gx%g\n", tgt.Rect.X, tgt.Rect.Y, tgt.Rect.W, tgt.Rect.H)
		return nil
	},
}

var scanViewport string

var scanCmd = &cobra.Command{
	Use:   "scan <doc.html>",
	Short: "Find the best pointer inside a viewport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDoc(args[0])
		if err != nil {
			return err
		}
		w, h := doc.Extent()
		vp := geom.Rect{X: 0, Y: 0, W: w, H: h}
		if scanViewport != "" {
			vp, err = parseRect(scanViewport)
			if err != nil {
				return err
			}
		}
		ptr := cfi.BestPointerInViewport(doc, vp, cfi.ScanOptions{
			VerticalSteps:   cfg.Scanner.VerticalSteps,
			HorizontalSteps: cfg.Scanner.HorizontalSteps,
			PixelTolerance:  cfg.Resolver.PixelTolerance,
		})
		fmt.Println(ptr)
		return nil
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort pointers into document order (stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		var pointers []string
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				pointers = append(pointers, line)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
		for _, p := range cfi.SortPointers(pointers) {
			fmt.Println(p)
		}
		return nil
	},
}

var escapeCmd = &cobra.Command{
	Use:   "escape <text>",
	Short: "Escape reserved characters for assertions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cfi.Escape(args[0]))
	},
}

var unescapeCmd = &cobra.Command{
	Use:   "unescape <text>",
	Short: "Undo assertion escaping",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cfi.Unescape(args[0]))
	},
}

// nodePath renders a readable element path for diagnostics output.
func nodePath(n dom.Node) string {
	var parts []string
	for n != nil {
		switch w := n.(type) {
		case interface{ TagName() string }:
			part := w.TagName()
			if id := n.ID(); id != "" {
				part += "#" + id
			}
			parts = append(parts, part)
		case *htmldom.Document:
			parts = append(parts, "#document")
		default:
			if n.Kind() == dom.TextKind {
				parts = append(parts, "#text")
			} else {
				parts = append(parts, fmt.Sprintf("(kind %d)", n.Kind()))
			}
		}
		n = n.Parent()
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func parseRect(s string) (geom.Rect, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return geom.Rect{}, fmt.Errorf("bad rect %q, want x,y,w,h", s)
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("bad rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return geom.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}
