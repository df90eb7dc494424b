// Package ai is the admin assistant: a Gemini chat that answers questions
// about the shop by calling POS tools.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by Ask when no API key is set.
var ErrNotConfigured = errors.New("assistant is not configured")

const maxToolRounds = 6

type Agent struct {
	apiKey string
	model  string
	tools  *Toolbox
}

func NewAgent(apiKey, model string, tools *Toolbox) *Agent {
	return &Agent{apiKey: apiKey, model: model, tools: tools}
}

func (a *Agent) Enabled() bool { return a.apiKey != "" }

func (a *Agent) systemPrompt() string {
	today := a.tools.now().Format("2006-01-02")
	return fmt.Sprintf(`Today is %s. You are the assistant of a small shop's point of sale.

RULES:
1. UPDATE: If the user asks to update a product by NAME, do NOT ask for the ID.
   Call 'check_inventory' to find the ID, then call 'update_product_price'.
2. READ: For price, stock or details of a product call 'check_inventory' and read the result.
3. SALES: For sales or revenue over dates use 'get_sales_report' with YYYY-MM-DD dates.
4. STOCK ALERTS: For items running out use 'get_low_stock'.
5. BEST SELLERS: Use 'get_top_products'.
Amounts are in the shop currency with 2 decimals.`, today)
}

// Declarations describes the Toolbox to the model.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolCheckInventory,
			Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Category, Price or Stock.",
		},
		{
			Name:        ToolUpdateProductPrice,
			Description: "Update the price of a specific product using its ID",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"product_id": {Type: genai.TypeString, Description: "ID of the product"},
					"new_price":  {Type: genai.TypeNumber, Description: "New price"},
				},
				Required: []string{"product_id", "new_price"},
			},
		},
		{
			Name:        ToolCreateProduct,
			Description: "Add a new product to the inventory",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString, Description: "Name of the product"},
					"price":    {Type: genai.TypeNumber, Description: "Price of the product"},
					"category": {Type: genai.TypeString, Description: "Category name, e.g. Beverages"},
					"stock":    {Type: genai.TypeInteger, Description: "Initial stock count"},
				},
				Required: []string{"name", "price"},
			},
		},
		{
			Name:        ToolGetSalesReport,
			Description: "Get sales totals (revenue, tax, cash, QR, count) for a date range.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
					"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
				},
				Required: []string{"start_date", "end_date"},
			},
		},
		{
			Name:        ToolGetLowStock,
			Description: "List products at or below the low stock threshold.",
		},
		{
			Name:        ToolGetTopProducts,
			Description: "Best selling products by revenue.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"limit": {Type: genai.TypeInteger, Description: "How many products, default 5"},
				},
			},
		},
	}
}

// Ask runs one question through the model, executing tool calls until the
// model answers in text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", errors.Wrap(err, "create genai client")
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(a.systemPrompt()))
	model.Tools = []*genai.Tool{{FunctionDeclarations: Declarations()}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", errors.Wrap(err, "send message")
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp), nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := a.tools.Call(call.Name, call.Args)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}

		resp, err = session.SendMessage(ctx, parts...)
		if err != nil {
			return "", errors.Wrap(err, "send tool results")
		}
	}

	zap.L().Warn("assistant stopped after too many tool rounds", zap.Int("rounds", maxToolRounds))
	return replyText(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "I completed the action."
	}
	return b.String()
}
