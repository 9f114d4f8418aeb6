package dashboard

import (
	"fmt"
	"image/color"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/laptrace.report/internal/httputil"
)

// deltaPNG renders the delta curve as a static PNG for embedding outside
// the browser (reports, chat, READMEs).
func (s *Server) deltaPNG(w http.ResponseWriter, r *http.Request) {
	resp, curve, err := s.comparePair(r)
	if err != nil {
		writeDeltaError(w, err)
		return
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Delta time: %s lap %d vs %s lap %d",
		resp.DriverA, resp.LapA, resp.DriverB, resp.LapB)
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Delta (s)"

	pts := make(plotter.XYs, len(curve.Distance))
	for i := range curve.Distance {
		pts[i] = plotter.XY{X: curve.Distance[i], Y: curve.Delta[i]}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to build plot: %v", err))
		return
	}
	line.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Add(plotter.NewGrid())
	p.Legend.Add(fmt.Sprintf("final %.3fs", resp.FinalDelta), line)
	p.Legend.Top = true

	wt, err := p.WriterTo(12*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		// Headers are already out; nothing left to do but note it.
		return
	}
}
