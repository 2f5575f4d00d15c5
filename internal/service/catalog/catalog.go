// Package catalog is the fixed set of operations the assistant may run against
// the order and product store.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/pkg/log"
)

type Kind string

const (
	KindRead     Kind = "READ"
	KindMutating Kind = "MUTATING"
)

// Action is one decoded invocation. The set is closed: only this package can implement it.
type Action interface {
	run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error)
}

type Descriptor struct {
	Name        string
	Kind        Kind
	Description string
	Schema      string
	Required    []string

	new func() Action
}

func (d Descriptor) Tool() core.Tool {
	return core.Tool{
		Type: "function",
		Function: core.Function{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  json.RawMessage(d.Schema),
		},
	}
}

var (
	descriptors = []Descriptor{
		newDescriptor("search_orders", KindRead,
			"Search for orders in the database. Can filter by order number, customer name, or status.",
			searchOrdersSchema, func() Action { return &searchOrders{} }),
		newDescriptor("search_products", KindRead,
			"Search for products in the catalog. Can filter by name, category, or price.",
			searchProductsSchema, func() Action { return &searchProducts{} }),
		newDescriptor("get_order_details", KindRead,
			"Get detailed information about a specific order.",
			getOrderDetailsSchema, func() Action { return &getOrderDetails{} }),
		newDescriptor("create_order", KindMutating,
			"Create a new order in the system. REQUIRES USER CONFIRMATION before execution.",
			createOrderSchema, func() Action { return &createOrder{} }),
		newDescriptor("add_product", KindMutating,
			"Add a new product to the catalog. REQUIRES USER CONFIRMATION before execution.",
			addProductSchema, func() Action { return &addProduct{} }),
		newDescriptor("update_order_status", KindMutating,
			"Update the status of an existing order. REQUIRES USER CONFIRMATION before execution.",
			updateOrderStatusSchema, func() Action { return &updateOrderStatus{} }),
		newDescriptor("update_product_price", KindMutating,
			"Update the price of a product. REQUIRES USER CONFIRMATION before execution.",
			updateProductPriceSchema, func() Action { return &updateProductPrice{} }),
		newDescriptor("update_product_stock", KindMutating,
			"Update the stock quantity of a product. REQUIRES USER CONFIRMATION before execution.",
			updateProductStockSchema, func() Action { return &updateProductStock{} }),
		newDescriptor("cancel_order", KindMutating,
			"Cancel an order and restore product stock. REQUIRES USER CONFIRMATION before execution.",
			cancelOrderSchema, func() Action { return &cancelOrder{} }),
		newDescriptor("delete_product", KindMutating,
			"Remove a product from the catalog. REQUIRES USER CONFIRMATION before execution. WARNING: This will permanently delete the product.",
			deleteProductSchema, func() Action { return &deleteProduct{} }),
	}

	registry = func() map[string]Descriptor {
		m := make(map[string]Descriptor, len(descriptors))
		for _, d := range descriptors {
			m[d.Name] = d
		}
		return m
	}()
)

func newDescriptor(name string, kind Kind, description, schema string, factory func() Action) Descriptor {
	var parsed struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal([]byte(schema), &parsed); err != nil {
		panic(fmt.Sprintf("catalog: invalid schema for %s: %v", name, err))
	}

	return Descriptor{
		Name:        name,
		Kind:        kind,
		Description: description,
		Schema:      schema,
		Required:    parsed.Required,
		new:         factory,
	}
}

func Lookup(name string) (Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// Descriptors returns every action in registration order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Tools returns the model-facing definitions of every action.
func Tools() []core.Tool {
	tools := make([]core.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		tools = append(tools, d.Tool())
	}
	return tools
}

type Catalog struct {
	repo core.CatalogRepository
}

func New(repo core.CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

// Execute validates, decodes and runs the named action. Store errors come back
// as a failed result, never as a Go error.
func (c *Catalog) Execute(ctx context.Context, name string, args map[string]any) core.ActionResult {
	logger := log.FromCtx(ctx).With().Str("action", name).Logger()

	d, ok := Lookup(name)
	if !ok {
		return core.Failure(fmt.Sprintf("Unknown action '%s'.", name))
	}

	for _, key := range d.Required {
		if v, ok := args[key]; !ok || v == nil {
			return core.Failure(fmt.Sprintf("Missing required argument '%s' for %s.", key, name))
		}
	}

	act := d.new()
	if err := decode(args, act); err != nil {
		logger.Debug().Err(err).Msg("argument decoding failed")
		return core.Failure(fmt.Sprintf("Invalid arguments for %s: %v", name, err))
	}

	res, err := act.run(ctx, c.repo)
	if err != nil {
		res = failureFromError(err)
		if !core.IsExpected(err) {
			logger.Error().Err(err).Msg("action failed")
		}
	}

	logger.Debug().Bool("success", res.Success).Msg("action executed")
	return res
}

func decode(args map[string]any, target Action) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumberHook),
		Result:           target,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

// wholeNumberHook refuses to truncate a fractional number into an integer field.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func failureFromError(err error) core.ActionResult {
	if core.IsExpected(err) {
		return core.Failure(err.Error())
	}
	return core.Failure(fmt.Sprintf("Error executing action: %v", err))
}
