package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var supportedFormats = map[string]bool{"png": true, "svg": true, "pdf": true}

// Options controls chart rendering.
type Options struct {
	Methods   []string
	Contrasts []string // all contrasts, including the reference
	Reference string
	Format    string // png, svg, or pdf
}

func (o *Options) normalize() error {
	o.Methods = cleanNames(o.Methods)
	if len(o.Methods) == 0 {
		return errors.New("no methods configured")
	}
	o.Contrasts = cleanNames(o.Contrasts)
	if len(o.Contrasts) == 0 {
		return errors.New("no contrasts configured")
	}
	// Names must match the CSV column spelling; only whitespace is forgiven.
	o.Reference = strings.TrimSpace(o.Reference)
	if o.Reference == "" {
		return errors.New("reference contrast required")
	}
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = "png"
	}
	if !supportedFormats[o.Format] {
		return fmt.Errorf("unsupported chart format %q", o.Format)
	}
	return nil
}

func cleanNames(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// diffContrasts excludes the reference; its difference against itself is
// identically zero.
func (o Options) diffContrasts() []string {
	out := make([]string, 0, len(o.Contrasts))
	for _, contrast := range o.Contrasts {
		if contrast == o.Reference {
			continue
		}
		out = append(out, contrast)
	}
	return out
}

// RenderAll writes the full chart set into outDir and returns the written
// paths: one pairwise-difference chart per non-reference contrast, the macro
// pairwise-difference chart, and the macro standard-deviation chart.
func RenderAll(ds *Dataset, opts Options, outDir string) ([]string, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	diffContrasts := opts.diffContrasts()
	if len(diffContrasts) == 0 {
		return nil, errors.New("no contrasts besides the reference")
	}

	pwd, perfPWD, err := PairwiseDiff(ds, opts.Methods, diffContrasts, opts.Reference)
	if err != nil {
		return nil, err
	}
	sd, perfSD, err := StdDev(ds, opts.Methods, opts.Contrasts)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, contrast := range diffContrasts {
		columns := make([]string, len(opts.Methods))
		for i, method := range opts.Methods {
			columns[i] = method + "_" + contrast
		}
		spec := boxChart{
			title:     fmt.Sprintf("%s CSA %% difference across methods w.r.t %s", contrast, opts.Reference),
			xLabel:    "Methods",
			yLabel:    fmt.Sprintf("%% difference in CSA values w.r.t %s", opts.Reference),
			symmetric: true,
		}
		path := filepath.Join(outDir, "pwd_"+contrast+"."+opts.Format)
		if err := renderColumns(pwd, columns, opts.Methods, spec, path); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	macroPWD := boxChart{
		title:     "CSA % difference across all contrasts",
		xLabel:    "Methods",
		yLabel:    fmt.Sprintf("CSA %% difference w.r.t %s", opts.Reference),
		symmetric: true,
	}
	path := filepath.Join(outDir, "pwd_macro."+opts.Format)
	if err := renderColumns(pwd, perfPWD, opts.Methods, macroPWD, path); err != nil {
		return nil, err
	}
	written = append(written, path)

	macroSD := boxChart{
		title:  "Variability of CSA across MRI contrasts",
		xLabel: "Segmentation type",
		yLabel: "Standard deviation (mm²)",
	}
	path = filepath.Join(outDir, "sd_macro."+opts.Format)
	if err := renderColumns(sd, perfSD, opts.Methods, macroSD, path); err != nil {
		return nil, err
	}
	written = append(written, path)

	return written, nil
}

type boxChart struct {
	title     string
	xLabel    string
	yLabel    string
	symmetric bool
}

// renderColumns draws one box per column, colored by method position, and
// saves the plot. Non-finite values are excluded from the distributions.
func renderColumns(ds *Dataset, columns, methods []string, spec boxChart, path string) error {
	p := plot.New()
	p.Title.Text = spec.title
	p.X.Label.Text = spec.xLabel
	p.Y.Label.Text = spec.yLabel

	boxes := 0
	for i, name := range columns {
		values, ok := ds.Column(name)
		if !ok {
			return fmt.Errorf("missing column %q", name)
		}
		finite := finiteValues(values)
		if len(finite) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(finite))
		if err != nil {
			return fmt.Errorf("box for %s: %w", name, err)
		}
		box.FillColor = MethodColor(i)
		p.Add(box)
		boxes++
	}
	if boxes == 0 {
		return fmt.Errorf("chart %s: no finite values to draw", filepath.Base(path))
	}

	labels := make([]string, len(methods))
	for i, method := range methods {
		labels[i] = PrettyLabel(method)
	}
	p.NominalX(labels...)

	if spec.symmetric {
		limit := math.Max(math.Abs(p.Y.Min), math.Abs(p.Y.Max))
		p.Y.Min, p.Y.Max = -limit, limit
	}

	p.Legend.Top = true
	p.Legend.Add("Benchmark", legendSwatch(benchmarkColor))
	p.Legend.Add("Single GT", legendSwatch(singleGTColor))
	p.Legend.Add("Mean GT", legendSwatch(meanGTColor))

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func legendSwatch(c color.Color) plot.Thumbnailer {
	return &plotter.Line{LineStyle: draw.LineStyle{Color: c, Width: vg.Points(6)}}
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ExperimentFolder creates a timestamped output folder under parent for one
// charts run.
func ExperimentFolder(parent string) (string, error) {
	name := "charts_" + time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create charts folder: %w", err)
	}
	return path, nil
}
