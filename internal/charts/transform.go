package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Suffixes for the derived per-method performance columns.
const (
	PerfPWDSuffix = "_perf_pwd"
	PerfSDSuffix  = "_perf_sd"
)

// PairwiseDiff copies the dataset and replaces every method/contrast column
// with its percentage difference against the method's reference-contrast
// column: 100 * (ref - value) / ref. It then adds one <method>_perf_pwd
// column holding the row-wise mean across the method's contrast columns.
// The reference values are snapshotted first, so listing the reference among
// the contrasts yields a zero column instead of corrupting later ones.
func PairwiseDiff(ds *Dataset, methods, contrasts []string, reference string) (*Dataset, []string, error) {
	out := ds.Clone()
	perfNames := make([]string, 0, len(methods))

	for _, method := range methods {
		refName := method + "_" + reference
		refValues, ok := out.Column(refName)
		if !ok {
			return nil, nil, fmt.Errorf("missing reference column %q", refName)
		}

		columns := make([][]float64, 0, len(contrasts))
		for _, contrast := range contrasts {
			name := method + "_" + contrast
			values, ok := out.column(name)
			if !ok {
				return nil, nil, fmt.Errorf("missing column %q", name)
			}
			for i := range values {
				values[i] = 100 * (refValues[i] - values[i]) / refValues[i]
			}
			columns = append(columns, values)
		}

		// NaN cells (missing scans) are excluded from the row mean; a row
		// with no usable cells stays NaN.
		perf := make([]float64, out.Len())
		for i := range perf {
			sum, n := 0.0, 0
			for _, column := range columns {
				if math.IsNaN(column[i]) {
					continue
				}
				sum += column[i]
				n++
			}
			if n == 0 {
				perf[i] = math.NaN()
			} else {
				perf[i] = sum / float64(n)
			}
		}
		perfName := method + PerfPWDSuffix
		if err := out.AddColumn(perfName, perf); err != nil {
			return nil, nil, err
		}
		perfNames = append(perfNames, perfName)
	}
	return out, perfNames, nil
}

// StdDev copies the dataset and adds one <method>_perf_sd column per method:
// the row-wise population standard deviation across the method's contrast
// columns. The raw values are left untouched.
func StdDev(ds *Dataset, methods, contrasts []string) (*Dataset, []string, error) {
	out := ds.Clone()
	perfNames := make([]string, 0, len(methods))

	for _, method := range methods {
		columns := make([][]float64, 0, len(contrasts))
		for _, contrast := range contrasts {
			name := method + "_" + contrast
			values, ok := out.column(name)
			if !ok {
				return nil, nil, fmt.Errorf("missing column %q", name)
			}
			columns = append(columns, values)
		}

		perf := make([]float64, out.Len())
		row := make([]float64, len(columns))
		for i := range perf {
			for j, column := range columns {
				row[j] = column[i]
			}
			perf[i] = stat.PopStdDev(row, nil)
		}
		perfName := method + PerfSDSuffix
		if err := out.AddColumn(perfName, perf); err != nil {
			return nil, nil, err
		}
		perfNames = append(perfNames, perfName)
	}
	return out, perfNames, nil
}
