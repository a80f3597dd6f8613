package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FeatureBoxPlot draws one box per column of X, labelled with names.
func FeatureBoxPlot(X mat.Matrix, names []string, title string) (*plot.Plot, error) {
	_, c := X.Dims()
	if c != len(names) {
		return nil, fmt.Errorf("report: %d columns for %d names", c, len(names))
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "standardized value"

	width := vg.Points(20)
	for j := range c {
		b, err := plotter.NewBoxPlot(width, float64(j), plotter.Values(mat.Col(nil, j, X)))
		if err != nil {
			return nil, fmt.Errorf("report: column %q: %w", names[j], err)
		}
		p.Add(b)
	}
	p.NominalX(names...)
	return p, nil
}

// WritePNG renders p as a PNG image into w.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
