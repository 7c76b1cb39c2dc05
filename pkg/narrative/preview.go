package narrative

import (
	"html"
	"sort"
	"strings"
)

const (
	highlight            = `<span style="background-color:#c8f442">`
	highlightInteractive = `<span style="background-color:#c8f442" class="cursor-pointer">`
)

// PreviewHTML marks the variables of rec in its raw sentence. Interactive
// previews make the marks clickable.
func PreviewHTML(rec Record, interactive bool) string {
	open := highlight
	if interactive {
		open = highlightInteractive
	}
	vars := append([]VariableRecord(nil), rec.Tokenmap...)
	sort.SliceStable(vars, func(i, j int) bool { return vars[i].Idx < vars[j].Idx })

	var b strings.Builder
	pos := 0
	for _, v := range vars {
		end := v.Idx + len(v.Text)
		if v.Idx < pos || end > len(rec.Text) {
			continue
		}
		b.WriteString(html.EscapeString(rec.Text[pos:v.Idx]))
		b.WriteString(open + html.EscapeString(v.Text) + "</span>")
		pos = end
	}
	b.WriteString(html.EscapeString(rec.Text[pos:]))
	return b.String()
}
