package formatter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/mpyconv/mpyconv/internal"
)

var disabledStyle = color.New(color.FgHiBlack)

// FormatRules lists the pattern catalog in registration order.
func FormatRules(patterns []internal.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		state := noteStyle.Sprint("on ")
		if !p.Enabled {
			state = disabledStyle.Sprint("off")
		}
		fmt.Fprintf(&sb, "%s %s\n", state, ruleStyle.Sprint(p.Name))
		fmt.Fprintf(&sb, "    %s\n", p.Description)

		slots := make([]string, 0, len(p.Texts))
		for slot := range p.Texts {
			slots = append(slots, slot)
		}
		slices.Sort(slots)
		for _, slot := range slots {
			fmt.Fprintf(&sb, "    %s: %s\n", slot, strconv.Quote(p.Texts[slot]))
		}
	}
	return sb.String()
}
