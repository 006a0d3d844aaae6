// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/store"
	"github.com/bureau-foundation/quartermaster/messaging"
)

// itemDisplayLimit caps the per-item lines on the panel. The full
// catalog stays available through the inventory command.
const itemDisplayLimit = 7

// renderPanel builds the panel message from a ledger snapshot. Items
// render in sorted order so consecutive edits are stable.
func renderPanel(inventory map[string]int, bank store.BankDocument, commandPrefix string, now time.Time, location *time.Location) messaging.MessageContent {
	items := make([]string, 0, len(inventory))
	for item := range inventory {
		items = append(items, item)
	}
	sort.Strings(items)

	shown := items
	hidden := 0
	if len(items) > itemDisplayLimit {
		shown = items[:itemDisplayLimit]
		hidden = len(items) - itemDisplayLimit
	}

	var plain, formatted strings.Builder

	plain.WriteString("📦 คลังกลางของทีม\n")
	formatted.WriteString("<b>📦 คลังกลางของทีม</b><br>")

	for _, item := range shown {
		plain.WriteString(fmt.Sprintf("• %s: %d\n", item, inventory[item]))
		formatted.WriteString(fmt.Sprintf("• %s: %d<br>", html.EscapeString(item), inventory[item]))
	}
	if hidden > 0 {
		more := fmt.Sprintf("… and %d more — %sinventory for the full list", hidden, commandPrefix)
		plain.WriteString(more + "\n")
		formatted.WriteString(html.EscapeString(more) + "<br>")
	}

	balance := fmt.Sprintf("💰 เงินกองกลาง: %s", formatThousands(bank.Balance))
	plain.WriteString(balance + "\n")
	formatted.WriteString("<b>" + html.EscapeString(balance) + "</b><br>")

	footer := "อัปเดตล่าสุด " + now.In(location).Format("2006-01-02 15:04 MST")
	plain.WriteString(footer)
	formatted.WriteString("<i>" + html.EscapeString(footer) + "</i>")

	return messaging.NewHTMLMessage(plain.String(), formatted.String())
}

// formatThousands renders n with comma separators ("1234567" becomes
// "1,234,567").
func formatThousands(n int) string {
	digits := fmt.Sprintf("%d", n)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var out strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	out.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		out.WriteByte(',')
		out.WriteString(digits[i : i+3])
	}

	if negative {
		return "-" + out.String()
	}
	return out.String()
}
