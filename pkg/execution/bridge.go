package execution

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/fib-entry-bot/pkg/entry"
	"github.com/fib-entry-bot/pkg/feed"
)

// BridgeBroker sends market orders through the terminal bridge
type BridgeBroker struct {
	client *resty.Client
}

// NewBridgeBroker creates a broker on a shared bridge client
func NewBridgeBroker(client *resty.Client) *BridgeBroker {
	return &BridgeBroker{client: client}
}

// marketOrder is the wire format of POST /send_market_order
type marketOrder struct {
	ClientOrderID string  `json:"client_order_id"`
	Symbol        string  `json:"symbol"`
	Volume        float64 `json:"volume"`
	OrderType     string  `json:"order_type"` // BUY | SELL
	SL            float64 `json:"sl"`
	TP            float64 `json:"tp"`
	Deviation     int     `json:"deviation"`
	TypeFilling   string  `json:"type_filling"`
	Magic         int64   `json:"magic"`
	Comment       string  `json:"comment"`

	// Bookkeeping the bridge stores alongside the ticket
	PositionSizeUSD float64 `json:"position_size_usd"`
	Commission      float64 `json:"commission"`
	Capital         float64 `json:"capital"`
	Leverage        float64 `json:"leverage"`
}

// orderResult is the bridge's response; Order is zero when the terminal rejected it
type orderResult struct {
	Order   int64   `json:"order"`
	Price   float64 `json:"price"`
	Volume  float64 `json:"volume"`
	Retcode int     `json:"retcode"`
	Comment string  `json:"comment"`
}

// mt5 comments are limited to 31 characters
const maxCommentLen = 31

// SubmitMarketOrder sends the order. A response without a ticket yields a nil handle.
func (b *BridgeBroker) SubmitMarketOrder(ctx context.Context, req entry.OrderRequest) (*entry.OrderHandle, error) {
	comment := req.Comment
	if len(comment) > maxCommentLen {
		comment = comment[:maxCommentLen]
	}

	body := marketOrder{
		ClientOrderID:   uuid.NewString(),
		Symbol:          req.Symbol,
		Volume:          req.Volume,
		OrderType:       strings.ToUpper(string(req.Side)),
		SL:              req.StopLoss,
		TP:              req.TakeProfit,
		Deviation:       req.Deviation,
		TypeFilling:     req.FillPolicy,
		Magic:           req.Magic,
		Comment:         comment,
		PositionSizeUSD: req.Sizing.Notional,
		Commission:      req.Sizing.Commission,
		Capital:         req.Sizing.Capital,
		Leverage:        req.Sizing.Leverage,
	}

	var result *orderResult
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post("/send_market_order")
	if err := feed.CheckResponse("send market order", resp, err); err != nil {
		return nil, err
	}

	if result == nil || result.Order == 0 {
		return nil, nil
	}

	return &entry.OrderHandle{
		OrderID: strconv.FormatInt(result.Order, 10),
		Price:   result.Price,
		Volume:  result.Volume,
	}, nil
}
