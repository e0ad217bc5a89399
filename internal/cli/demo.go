package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/notify"
	"github.com/interomap/interomap/pkg/render"
	"github.com/interomap/interomap/pkg/session"
)

// demoOpts holds the command-line flags for the demo command.
type demoOpts struct {
	persona  string // persona hint; unrecognized values open the picker
	variable string // host variable name embedded in notifications
	svg      string // optional SVG output path
	undo     bool   // undo the last stroke before printing
}

// demoCommand creates the demo command, which drives a scripted session and
// prints the composed output the embedding host would receive.
func (c *CLI) demoCommand() *cobra.Command {
	opts := demoOpts{
		variable: "demo",
		undo:     true,
	}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted drawing session",
		Long: `Demo drives a complete session through the engine: persona choice, affect
ratings, a few strokes on both sides, an undo, and prints every payload that
would have been pushed to the embedding host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.persona, "persona", "p", "", "persona: female, male, or child (interactive if omitted)")
	cmd.Flags().StringVar(&opts.variable, "variable", opts.variable, "host variable name for notifications")
	cmd.Flags().StringVarP(&opts.svg, "svg", "o", "", "also write the drawing as SVG to this path")
	cmd.Flags().BoolVar(&opts.undo, "undo", opts.undo, "undo the last stroke at the end of the script")

	return cmd
}

// demoStroke is one scripted stroke: the ratings it is painted with and a
// short path on one side.
type demoStroke struct {
	side      drawing.Side
	intensity int
	valence   int
	points    []canvas.Point
}

var demoScript = []demoStroke{
	{drawing.SideFront, 8, 3, []canvas.Point{{X: 95, Y: 120}, {X: 105, Y: 130}, {X: 100, Y: 145}}},
	{drawing.SideFront, 6, 6, []canvas.Point{{X: 80, Y: 200}, {X: 120, Y: 205}}},
	{drawing.SideBack, 3, 10, []canvas.Point{{X: 90, Y: 90}, {X: 110, Y: 95}, {X: 115, Y: 110}}},
}

func (c *CLI) runDemo(ctx context.Context, opts *demoOpts) error {
	persona, err := choosePersona(opts.persona)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	recorder := notify.NewRecorder()
	sess := session.New(session.Config{
		Variable: opts.variable,
		Notifier: recorder,
		Logger:   c.Logger,
	})

	dims := canvas.Dimensions{ImgWidth: 200, ImgHeight: 400, ScaleFactor: 1}
	surfaces := map[drawing.Side]canvas.Surface{
		drawing.SideFront: canvas.NewStaticSurface(dims),
		drawing.SideBack:  canvas.NewStaticSurface(dims),
	}
	if err := sess.SelectPersona(ctx, persona, surfaces); err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("interomap demo") + StyleDim.Render("  session "+sess.ID()))
	fmt.Println()

	for _, stroke := range demoScript {
		if err := sess.SetRatings(ctx, stroke.intensity, stroke.valence); err != nil {
			return err
		}
		res, err := sess.CompleteStroke(ctx, stroke.side, stroke.points, session.DefaultBrushSize)
		if err != nil {
			return err
		}
		if res.Dropped {
			printWarning("stroke dropped: output budget exhausted")
			continue
		}
		fmt.Printf("%s stroke on %s  intensity=%d valence=%d  %s\n",
			StyleHighlight.Render(iconArrow), stroke.side, stroke.intensity, stroke.valence,
			swatch(sess.BrushColor()))
	}

	if opts.undo {
		if _, undone, err := sess.Undo(ctx); err != nil {
			return err
		} else if undone {
			fmt.Printf("%s undo last stroke\n", StyleHighlight.Render(iconArrow))
		}
	}

	fmt.Println()
	fmt.Println(StyleTitle.Render("Host payloads"))
	for i, msg := range recorder.Messages() {
		fmt.Printf("%s %d  %s %s\n", StyleDim.Render("#"), i+1, StyleValue.Render(msg.Event), StyleDim.Render(msg.Variable))
	}

	fmt.Println()
	fmt.Println(StyleTitle.Render("Final output"))
	fmt.Println(sess.Encoded())

	if opts.svg != "" {
		data := render.RenderSVG(sess.Drawing(), render.WithLabels())
		if err := os.WriteFile(opts.svg, data, 0o644); err != nil {
			return err
		}
		printSuccess("wrote %s", opts.svg)
	}

	prog.done(fmt.Sprintf("Session complete: %d strokes retained", sess.HistoryLen()))
	return nil
}
