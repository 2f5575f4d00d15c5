// Package format renders catalog results and confirmation prompts as markdown.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/shopdesk/internal/core"
)

const (
	DenyReply     = "Understood. I've cancelled that action. How else can I help you?"
	UnclearReply  = "I didn't quite catch that. Could you please confirm with 'yes' or 'no'?"
	FallbackReply = "I'm sorry, I ran into a problem processing your request. Please try again."
)

// Result renders an action result. Payload shapes are tried in a fixed order:
// order list, product list, single order, single product, bare message.
func Result(res core.ActionResult) string {
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Operation failed"
		}
		return "⚠️ " + msg
	}

	var sb strings.Builder

	switch {
	case res.Orders != nil:
		fmt.Fprintf(&sb, "Found %d order(s):\n\n", len(res.Orders))
		for _, o := range res.Orders {
			writeOrder(&sb, o)
			sb.WriteString("\n")
		}
	case res.Products != nil:
		fmt.Fprintf(&sb, "Found %d product(s):\n\n", len(res.Products))
		for _, p := range res.Products {
			writeProduct(&sb, p)
			sb.WriteString("\n")
		}
	case res.Order != nil:
		writeOrder(&sb, *res.Order)
		writeMessage(&sb, res.Message)
	case res.Product != nil:
		writeProduct(&sb, *res.Product)
		writeMessage(&sb, res.Message)
	case res.Message != "":
		sb.WriteString("✅ " + res.Message)
	default:
		sb.WriteString("Operation completed: " + indentJSON(res))
	}

	return sb.String()
}

func writeOrder(sb *strings.Builder, o core.Order) {
	fmt.Fprintf(sb, "**Order %s**\n", o.OrderNumber)
	fmt.Fprintf(sb, "  - Customer: %s\n", o.CustomerName)
	fmt.Fprintf(sb, "  - Product: %s\n", o.ProductName)
	fmt.Fprintf(sb, "  - Quantity: %d\n", o.Quantity)
	fmt.Fprintf(sb, "  - Price: $%.2f\n", o.Price)
	fmt.Fprintf(sb, "  - Status: %s\n", o.Status)
}

func writeProduct(sb *strings.Builder, p core.Product) {
	fmt.Fprintf(sb, "**%s**\n", p.ProductName)
	fmt.Fprintf(sb, "  - Price: $%.2f\n", p.Price)
	fmt.Fprintf(sb, "  - Stock: %d units\n", p.Stock)
	fmt.Fprintf(sb, "  - Category: %s\n", p.Category)
	if p.Description != "" {
		fmt.Fprintf(sb, "  - Description: %s\n", p.Description)
	}
}

func writeMessage(sb *strings.Builder, msg string) {
	if msg != "" {
		sb.WriteString("\n✅ " + msg)
	}
}

// ConfirmPrompt is shown instead of running a mutating action.
func ConfirmPrompt(action string, args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}

	return fmt.Sprintf("I'm about to perform the following action:\n\n"+
		"**Action**: %s\n"+
		"**Details**: %s\n\n"+
		"This action will modify your data. Would you like me to proceed? (Please confirm with 'yes' or 'no')",
		Title(action), indentJSON(args))
}

// Title turns an action name like "update_order_status" into "Update Order Status".
func Title(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
