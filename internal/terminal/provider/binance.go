package terminalprovider

import (
	"context"
	"strconv"
	"sync"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/rxtech-lab/argo-bridge/pkg/utils"
)

const (
	// BinanceDecimalPrecision is a default decimal precision used as a fallback.
	// 8 decimals allows for satoshi-level precision (0.00000001 BTC) for BTC-like assets.
	BinanceDecimalPrecision = 8
)

// Service interfaces for mocking the Binance API

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// BookTickerService interface for reading the best bid and ask.
type BookTickerService interface {
	Symbol(symbol string) BookTickerService
	Do(ctx context.Context) ([]*binance.BookTicker, error)
}

// ExchangeInfoService interface for reading symbol filters.
type ExchangeInfoService interface {
	Symbols(symbols ...string) ExchangeInfoService
	Do(ctx context.Context) (*binance.ExchangeInfo, error)
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewListBookTickersService() BookTickerService
	NewExchangeInfoService() ExchangeInfoService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewListBookTickersService() BookTickerService {
	return &realBookTickerService{service: r.client.NewListBookTickersService()}
}

func (r *realBinanceClient) NewExchangeInfoService() ExchangeInfoService {
	return &realExchangeInfoService{service: r.client.NewExchangeInfoService()}
}

// Real service wrappers

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realBookTickerService struct {
	service *binance.ListBookTickersService
}

func (s *realBookTickerService) Symbol(symbol string) BookTickerService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realBookTickerService) Do(ctx context.Context) ([]*binance.BookTicker, error) {
	return s.service.Do(ctx)
}

type realExchangeInfoService struct {
	service *binance.ExchangeInfoService
}

func (s *realExchangeInfoService) Symbols(symbols ...string) ExchangeInfoService {
	s.service = s.service.Symbols(symbols...)

	return s
}

func (s *realExchangeInfoService) Do(ctx context.Context) (*binance.ExchangeInfo, error) {
	return s.service.Do(ctx)
}

// binancePosition is one entry in the terminal's local ticket ledger. Binance
// spot has no server-side position concept, so the terminal remembers what it
// opened and in which order.
type binancePosition struct {
	ticket    string
	direction types.Direction
	volume    float64
}

// BinanceTerminal implements TerminalProvider against the Binance spot API.
// Market data is fetched live; open positions are tracked in a local ledger
// keyed by ticket.
type BinanceTerminal struct {
	client           BinanceClient
	symbol           string
	decimalPrecision int

	mu        sync.Mutex
	positions []binancePosition
	nextID    int64
}

// NewBinanceTerminal creates a Binance-backed terminal.
// If useTestnet is true, connects to Binance Testnet (https://testnet.binance.vision/).
// If config.BaseURL is set, it takes precedence over useTestnet.
func NewBinanceTerminal(config BinanceTerminalConfig, useTestnet bool) (*BinanceTerminal, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if useTestnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.ApiKey, config.SecretKey)

	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return &BinanceTerminal{
		client:           &realBinanceClient{client: client},
		symbol:           config.Symbol,
		decimalPrecision: BinanceDecimalPrecision,
		nextID:           1,
	}, nil
}

// newBinanceTerminalWithClient creates a Binance terminal with a custom client.
// This is used for testing with mock clients.
func newBinanceTerminalWithClient(client BinanceClient, symbol string) *BinanceTerminal {
	return &BinanceTerminal{
		client:           client,
		symbol:           symbol,
		decimalPrecision: BinanceDecimalPrecision,
		nextID:           1,
	}
}

// SubmitOrder implements TerminalProvider. It places a market order and, on
// success, records a new ledger entry.
func (b *BinanceTerminal) SubmitOrder(ctx context.Context, direction types.Direction, volume float64) (string, error) {
	if volume <= 0 {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "order volume must be positive, got %v", volume)
	}

	side := binance.SideTypeSell
	if direction == types.DirectionBuy {
		side = binance.SideTypeBuy
	}

	_, err := b.client.NewCreateOrderService().
		Symbol(b.symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(b.formatQuantity(volume)).
		Do(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOrderFailed, "failed to submit order", classifyBinanceError("submit", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ticket := strconv.FormatInt(b.nextID, 10)
	b.nextID++
	b.positions = append(b.positions, binancePosition{
		ticket:    ticket,
		direction: direction,
		volume:    volume,
	})

	return ticket, nil
}

// CloseOrder implements TerminalProvider. Closing a spot position means
// placing a market order on the opposite side for the ledger volume.
func (b *BinanceTerminal) CloseOrder(ctx context.Context, ticket string) error {
	b.mu.Lock()

	index := -1

	for i, position := range b.positions {
		if position.ticket == ticket {
			index = i

			break
		}
	}

	if index < 0 {
		b.mu.Unlock()

		return errors.Newf(errors.ErrCodeTicketNotFound, "no open position with ticket %s", ticket)
	}

	position := b.positions[index]
	b.mu.Unlock()

	side := binance.SideTypeBuy
	if position.direction == types.DirectionBuy {
		side = binance.SideTypeSell
	}

	_, err := b.client.NewCreateOrderService().
		Symbol(b.symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(b.formatQuantity(position.volume)).
		Do(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeCloseFailed, classifyBinanceError("close", err),
			"failed to close ticket %s", ticket)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, open := range b.positions {
		if open.ticket == ticket {
			b.positions = append(b.positions[:i], b.positions[i+1:]...)

			break
		}
	}

	return nil
}

// OpenPositions implements TerminalProvider.
func (b *BinanceTerminal) OpenPositions(_ context.Context) ([]types.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]types.Position, 0, len(b.positions))
	for _, position := range b.positions {
		positions = append(positions, types.Position{
			Ticket:    position.ticket,
			Direction: position.direction,
			Volume:    position.volume,
		})
	}

	return positions, nil
}

// CurrentBid implements TerminalProvider.
func (b *BinanceTerminal) CurrentBid(ctx context.Context) (float64, error) {
	ticker, err := b.bookTicker(ctx)
	if err != nil {
		return 0, err
	}

	bid, err := strconv.ParseFloat(ticker.BidPrice, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodePriceUnavailable, err, "invalid bid price %q", ticker.BidPrice)
	}

	return bid, nil
}

// CurrentAsk implements TerminalProvider.
func (b *BinanceTerminal) CurrentAsk(ctx context.Context) (float64, error) {
	ticker, err := b.bookTicker(ctx)
	if err != nil {
		return 0, err
	}

	ask, err := strconv.ParseFloat(ticker.AskPrice, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodePriceUnavailable, err, "invalid ask price %q", ticker.AskPrice)
	}

	return ask, nil
}

// MinStopDistance implements TerminalProvider. Binance spot has no broker
// stop level; the price filter tick size is the closest equivalent.
func (b *BinanceTerminal) MinStopDistance(ctx context.Context) (float64, error) {
	info, err := b.client.NewExchangeInfoService().Symbols(b.symbol).Do(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodePriceUnavailable, "failed to get exchange info", classifyBinanceError("exchange info", err))
	}

	for _, symbol := range info.Symbols {
		if symbol.Symbol != b.symbol {
			continue
		}

		filter := symbol.PriceFilter()
		if filter == nil {
			return 0, errors.Newf(errors.ErrCodePriceUnavailable, "no price filter for symbol %s", b.symbol)
		}

		tickSize, err := strconv.ParseFloat(filter.TickSize, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodePriceUnavailable, err, "invalid tick size %q", filter.TickSize)
		}

		return tickSize, nil
	}

	return 0, errors.Newf(errors.ErrCodePriceUnavailable, "symbol %s not found in exchange info", b.symbol)
}

func (b *BinanceTerminal) bookTicker(ctx context.Context) (*binance.BookTicker, error) {
	tickers, err := b.client.NewListBookTickersService().Symbol(b.symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePriceUnavailable, "failed to get book ticker", classifyBinanceError("book ticker", err))
	}

	if len(tickers) == 0 || tickers[0] == nil {
		return nil, errors.Newf(errors.ErrCodePriceUnavailable, "no book ticker for symbol %s", b.symbol)
	}

	return tickers[0], nil
}

func (b *BinanceTerminal) formatQuantity(volume float64) string {
	rounded := utils.RoundToDecimalPrecision(volume, b.decimalPrecision)

	return strconv.FormatFloat(rounded, 'f', b.decimalPrecision, 64)
}

// classifyBinanceError converts an API error into a TradeError carrying the
// exchange's raw code, so callers can react to specific rejections.
func classifyBinanceError(op string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return errors.NewTradeError(int(apiErr.Code), op, apiErr.Message)
	}

	return err
}
