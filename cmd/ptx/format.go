package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corvuslabs/ptx/internal/colorize"
	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/exec"
)

// formatResult renders an exec.Result in one of the reference formatters
// named in spec §6. table/json/yaml/pretty are implemented directly here;
// csv/chart are the external formatter contract's job (spec §1) and are
// rejected with a MissingArgumentError-style message rather than silently
// falling back.
func formatResult(output string, res exec.Result) (string, error) {
	switch output {
	case "", "table":
		return formatTable(res), nil
	case "json":
		return formatJSON(res)
	case "yaml":
		return formatYAML(res)
	case "pretty":
		return formatPretty(res), nil
	default:
		return "", fmt.Errorf("%w: unsupported --output %q (supported: table, json, yaml, pretty)", ErrUserError, output)
	}
}

func rowsOf(res exec.Result) ([]map[string]event.Value, []string) {
	if res.Grouped {
		cols := columnUnion(res.Rows)
		return res.Rows, cols
	}
	rows := make([]map[string]event.Value, len(res.Events))
	colSet := map[string]bool{}
	for i, ev := range res.Events {
		row := map[string]event.Value{"timestamp": event.Int(ev.Timestamp), "source": event.Str(ev.Source)}
		for k, v := range ev.Fields {
			row[k] = v
		}
		rows[i] = row
		for k := range row {
			colSet[k] = true
		}
	}
	var cols []string
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return rows, cols
}

func columnUnion(rows []map[string]event.Value) []string {
	set := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			set[k] = true
		}
	}
	var cols []string
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func formatTable(res exec.Result) string {
	rows, cols := rowsOf(res)
	if len(rows) == 0 {
		return "(no results)\n"
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cellStrings := make([][]string, len(rows))
	for ri, row := range rows {
		cellStrings[ri] = make([]string, len(cols))
		for ci, c := range cols {
			s := row[c].String()
			cellStrings[ri][ci] = s
			if len(s) > widths[ci] {
				widths[ci] = len(s)
			}
		}
	}

	var b strings.Builder
	writeRow(&b, cols, widths)
	sep := make([]string, len(cols))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(&b, sep, widths)
	for _, row := range cellStrings {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, c := range cells {
		fmt.Fprintf(b, "%-*s", widths[i]+2, c)
	}
	b.WriteByte('\n')
}

func formatJSON(res exec.Result) (string, error) {
	rows, _ := rowsOf(res)
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			m[k] = valueToAny(v)
		}
		out[i] = m
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func formatYAML(res exec.Result) (string, error) {
	rows, _ := rowsOf(res)
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			m[k] = valueToAny(v)
		}
		out[i] = m
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func valueToAny(v event.Value) any {
	switch v.Kind {
	case event.KindNull:
		return nil
	case event.KindBool:
		return v.Bool
	case event.KindInt:
		return v.Int
	case event.KindFloat:
		return v.Flt
	case event.KindString:
		return v.Str
	case event.KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = valueToAny(e)
		}
		return out
	case event.KindMap:
		out := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			out[k] = valueToAny(e)
		}
		return out
	default:
		return nil
	}
}

func formatPretty(res exec.Result) string {
	rows, cols := rowsOf(res)
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range cols {
			v := row[c]
			rendered := v.String()
			if c == "status" && v.Kind == event.KindInt {
				rendered = colorize.Status(v.Int, rendered)
			}
			fmt.Fprintf(&b, "%s=%s\n", c, rendered)
		}
	}
	return b.String()
}
