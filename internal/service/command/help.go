package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/shopdesk/internal/core"
)

const (
	ResetReply   = "Conversation reset. Starting fresh!"
	GoodbyeReply = "Thank you for shopping with us! Goodbye!"
)

// Capabilities is the greeting shown before the first message.
const Capabilities = `Welcome! I'm your AI shopping assistant.
I can help you with:
  • Searching for orders and products
  • Creating new orders
  • Updating order status, prices, and stock
  • Cancelling orders`

// Examples are phrasings the assistant understands, grouped by intent.
const Examples = `**QUERY EXAMPLES (READ operations):**
  • "Show me all orders"
  • "Find orders for John Doe"
  • "What products do you have?"
  • "Show me electronics under $500"
  • "Check order ORD-1001"

**CREATE EXAMPLES:**
  • "I want to place an order for a Laptop Pro 15"
  • "Create an order for 2 Wireless Mouse for Jane Smith"
  • "Add a new product: Tablet Pro, $599, 50 units"

**UPDATE EXAMPLES:**
  • "Change order ORD-1001 status to Shipped"
  • "Update Laptop Pro 15 price to $1199"
  • "Set stock for Wireless Mouse to 200"

**DELETE EXAMPLES:**
  • "Cancel order ORD-1002"
  • "Remove Gaming Keyboard from catalog"`

type HelpCommand struct {
	commands  []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(commands []core.Command) *HelpCommand {
	return &HelpCommand{
		commands:  commands,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show example requests and commands"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	lines := make([]string, 0, len(c.commands)+1)
	for _, cmd := range c.commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	lines = append(lines, fmt.Sprintf("/%s - %s", c.Name(), c.Description()))

	return c.formatter.Combine(
		Examples,
		"",
		c.formatter.Section("COMMANDS:", lines),
	), nil
}
