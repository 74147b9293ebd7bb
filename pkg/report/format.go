package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// table accumulates tab-separated rows and renders them aligned.
type table struct {
	b strings.Builder
	w *tabwriter.Writer
}

func newTable(header ...string) *table {
	t := &table{}
	t.w = tabwriter.NewWriter(&t.b, 0, 0, 2, ' ', 0)
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) String() string {
	_ = t.w.Flush()
	return t.b.String()
}

// Num renders a request count with at most two decimals, e.g. "12" or "2.5".
func Num(f float64) string {
	return decimal.NewFromFloat(f).Round(2).String()
}

// Money renders a dollar amount rounded to cents.
func Money(f float64) string {
	return "$" + decimal.NewFromFloat(f).StringFixed(2)
}

// Multiplier renders a model weight; 0 means the model is unlimited.
func Multiplier(m float64) string {
	if m == 0 {
		return "Unlimited"
	}
	return Num(m) + "x"
}

func percent(part, whole float64) string {
	if whole == 0 {
		return "0.0%"
	}
	return decimal.NewFromFloat(part/whole*100).StringFixed(1) + "%"
}

// byModel renders a model→requests map as "a: 1, b: 2" in model order.
func byModel(m map[string]float64) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+Num(m[k]))
	}
	return strings.Join(parts, ", ")
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
