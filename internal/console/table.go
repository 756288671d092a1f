package console

import (
	"fmt"

	"github.com/evertras/bubble-table/table"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// Column keys for the ranked interpretation table.
const (
	columnKeyRank     = "rank"
	columnKeyTool     = "tool"
	columnKeyConf     = "conf"
	columnKeyPriority = "priority"
	columnKeyReason   = "reason"
)

// RankTable renders the ranked interpretations of one pass as a
// bordered table, primary first. Rows are tinted by confidence tier.
// Returns an empty string when the pass selected nothing.
func RankTable(res *selector.Result, st *Styles, width int) string {
	if res.Primary == nil {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	rows := make([]table.Row, 0, 1+len(res.Alternatives))
	rows = append(rows, rankRow(1, *res.Primary, st))
	for i, alt := range res.Alternatives {
		rows = append(rows, rankRow(i+2, alt, st))
	}

	columns := []table.Column{
		table.NewColumn(columnKeyRank, "#", 3),
		table.NewColumn(columnKeyTool, "Tool", 20),
		table.NewColumn(columnKeyConf, "Conf", 6),
		table.NewColumn(columnKeyPriority, "Priority", 10),
		table.NewFlexColumn(columnKeyReason, "Reason", 1),
	}

	t := table.New(columns).
		WithRows(rows).
		HeaderStyle(st.TableHeader).
		WithBaseStyle(st.TableBase).
		BorderRounded().
		WithTargetWidth(width)

	return t.View()
}

func rankRow(pos int, in intent.Intent, st *Styles) table.Row {
	return table.NewRow(table.RowData{
		columnKeyRank:     pos,
		columnKeyTool:     in.Tool.String(),
		columnKeyConf:     fmt.Sprintf("%.2f", in.Confidence),
		columnKeyPriority: in.Priority.String(),
		columnKeyReason:   in.Reason,
	}).WithStyle(st.Confidence(in.Confidence))
}
