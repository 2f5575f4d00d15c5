package catalog

const searchOrdersSchema = `
{
  "type": "object",
  "properties": {
    "order_number": { "type": "string", "description": "Filter by order number (e.g., 'ORD-1001')" },
    "customer_name": { "type": "string", "description": "Filter by customer name (partial match supported)" },
    "status": { "type": "string", "description": "Filter by order status (e.g., 'Shipped', 'Processing', 'Delivered', 'Cancelled')" }
  }
}
`

const searchProductsSchema = `
{
  "type": "object",
  "properties": {
    "product_name": { "type": "string", "description": "Filter by product name (partial match supported)" },
    "category": { "type": "string", "description": "Filter by category (e.g., 'Electronics', 'Accessories')" },
    "max_price": { "type": "number", "description": "Filter by maximum price" }
  }
}
`

const getOrderDetailsSchema = `
{
  "type": "object",
  "properties": {
    "order_number": { "type": "string", "description": "The order number to look up (e.g., 'ORD-1001')" }
  },
  "required": ["order_number"]
}
`

const createOrderSchema = `
{
  "type": "object",
  "properties": {
    "customer_name": { "type": "string", "description": "Name of the customer placing the order" },
    "product_name": { "type": "string", "description": "Name of the product to order" },
    "quantity": { "type": "integer", "description": "Quantity to order" },
    "order_number": { "type": "string", "description": "Optional custom order number (auto-generated if not provided)" }
  },
  "required": ["customer_name", "product_name", "quantity"]
}
`

const addProductSchema = `
{
  "type": "object",
  "properties": {
    "product_name": { "type": "string", "description": "Name of the product" },
    "price": { "type": "number", "description": "Product price" },
    "stock": { "type": "integer", "description": "Initial stock quantity" },
    "description": { "type": "string", "description": "Product description (optional)" },
    "category": { "type": "string", "description": "Product category (optional)" }
  },
  "required": ["product_name", "price", "stock"]
}
`

const updateOrderStatusSchema = `
{
  "type": "object",
  "properties": {
    "order_number": { "type": "string", "description": "The order number to update (e.g., 'ORD-1001')" },
    "new_status": { "type": "string", "description": "New status (e.g., 'Processing', 'Shipped', 'Delivered', 'Cancelled')" }
  },
  "required": ["order_number", "new_status"]
}
`

const updateProductPriceSchema = `
{
  "type": "object",
  "properties": {
    "product_name": { "type": "string", "description": "Name of the product to update" },
    "new_price": { "type": "number", "description": "New price for the product" }
  },
  "required": ["product_name", "new_price"]
}
`

const updateProductStockSchema = `
{
  "type": "object",
  "properties": {
    "product_name": { "type": "string", "description": "Name of the product to update" },
    "new_stock": { "type": "integer", "description": "New stock quantity" }
  },
  "required": ["product_name", "new_stock"]
}
`

const cancelOrderSchema = `
{
  "type": "object",
  "properties": {
    "order_number": { "type": "string", "description": "The order number to cancel (e.g., 'ORD-1001')" }
  },
  "required": ["order_number"]
}
`

const deleteProductSchema = `
{
  "type": "object",
  "properties": {
    "product_name": { "type": "string", "description": "Name of the product to delete" }
  },
  "required": ["product_name"]
}
`
