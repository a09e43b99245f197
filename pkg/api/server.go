package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"nanobook/pkg/book"
	"nanobook/pkg/exchange"
	"nanobook/pkg/util"
)

// Options configures the API server.
type Options struct {
	AllowedOrigins []string
	DefaultDepth   int        // book levels returned when ?depth= is absent; 0 = full book
	Clock          util.Clock // response timestamps; defaults to wall clock
}

// Server exposes a MultiExchange over REST and WebSocket. The engine has
// no internal locking by design, so the server is its single logical
// writer: every handler that touches an exchange holds mu.
type Server struct {
	multi  *exchange.MultiExchange
	mu     sync.Mutex
	router *mux.Router
	hub    *Hub
	log    *zap.Logger
	opts   Options
}

func NewServer(multi *exchange.MultiExchange, logger *zap.Logger, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = util.RealClock{}
	}
	s := &Server{
		multi:  multi,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		log:    logger,
		opts:   opts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/symbols", s.handleGetSymbols).Methods("GET")
	api.HandleFunc("/quotes", s.handleGetQuotes).Methods("GET")
	api.HandleFunc("/book/{symbol}", s.handleGetBook).Methods("GET")
	api.HandleFunc("/trades/{symbol}", s.handleGetTrades).Methods("GET")

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/orders/modify", s.handleModifyOrder).Methods("POST")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler, usable directly
// with httptest.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start runs the WebSocket hub and serves until the listener fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Info("api server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleGetSymbols(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	symbols := s.multi.Symbols()
	s.mu.Unlock()

	out := make([]string, len(symbols))
	for i, sym := range symbols {
		out[i] = string(sym)
	}
	respondJSON(w, out)
}

func (s *Server) handleGetQuotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	quotes := s.multi.BestPrices()
	s.mu.Unlock()

	out := make([]QuoteInfo, len(quotes))
	for i, q := range quotes {
		out[i] = QuoteInfo{Symbol: string(q.Symbol), Bid: (*int64)(q.Bid), Ask: (*int64)(q.Ask)}
	}
	respondJSON(w, out)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	sym, err := book.ParseSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}
	depth := s.opts.DefaultDepth
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid depth", d)
			return
		}
		depth = n
	}

	s.mu.Lock()
	snap := s.multi.GetOrCreate(sym).Depth(depth)
	s.mu.Unlock()

	resp := BookResponse{
		Symbol:    string(sym),
		Bids:      snap.Bids,
		Asks:      snap.Asks,
		Timestamp: s.opts.Clock.Now().UnixMilli(),
	}
	if v, ok := snap.MidPrice(); ok {
		resp.MidPrice = &v
	}
	if v, ok := snap.Spread(); ok {
		sp := int64(v)
		resp.Spread = &sp
	}
	if v, ok := snap.Imbalance(); ok {
		resp.Imbalance = &v
	}
	if v, ok := snap.WeightedMid(); ok {
		resp.WeightedMid = &v
	}
	respondJSON(w, resp)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	sym, err := book.ParseSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit", l)
			return
		}
		limit = n
	}

	s.mu.Lock()
	trades := s.multi.GetOrCreate(sym).Trades()
	s.mu.Unlock()

	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}
	out := make([]TradeInfo, len(trades))
	for i, t := range trades {
		out[i] = toTradeInfo(t)
	}
	respondJSON(w, out)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	sym, err := book.ParseSymbol(req.Symbol)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}
	side, err := book.ParseSide(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid side", err.Error())
		return
	}
	if req.Quantity == 0 {
		respondError(w, http.StatusBadRequest, "invalid quantity", "quantity must be positive")
		return
	}

	var res exchange.SubmitResult
	switch req.Type {
	case "limit":
		price, err := book.ParsePrice(req.Price)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid price", err.Error())
			return
		}
		tifStr := req.TimeInForce
		if tifStr == "" {
			tifStr = "gtc"
		}
		tif, err := book.ParseTimeInForce(tifStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid time_in_force", err.Error())
			return
		}
		s.mu.Lock()
		res = s.multi.SubmitLimit(sym, side, price, req.Quantity, tif)
		s.mu.Unlock()
	case "market":
		s.mu.Lock()
		res = s.multi.SubmitMarket(sym, side, req.Quantity)
		s.mu.Unlock()
	default:
		respondError(w, http.StatusBadRequest, "invalid type", "use \"limit\" or \"market\"")
		return
	}

	s.log.Info("order submitted",
		zap.String("symbol", string(sym)),
		zap.Uint64("order_id", uint64(res.OrderID)),
		zap.String("status", res.Status.String()),
		zap.Int("trades", len(res.Trades)))

	s.publish(sym, res.Trades)
	respondJSON(w, toSubmitResponse(res))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	sym, err := book.ParseSymbol(req.Symbol)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}

	s.mu.Lock()
	res := s.multi.Cancel(sym, book.OrderID(req.OrderID))
	s.mu.Unlock()

	resp := CancelOrderResponse{Success: res.Success, CancelledQuantity: res.CancelledQuantity}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	} else {
		s.publish(sym, nil)
	}
	respondJSON(w, resp)
}

func (s *Server) handleModifyOrder(w http.ResponseWriter, r *http.Request) {
	var req ModifyOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	sym, err := book.ParseSymbol(req.Symbol)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}
	price, err := book.ParsePrice(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}
	if req.Quantity == 0 {
		respondError(w, http.StatusBadRequest, "invalid quantity", "quantity must be positive")
		return
	}

	s.mu.Lock()
	res := s.multi.Modify(sym, book.OrderID(req.OrderID), price, req.Quantity)
	s.mu.Unlock()

	resp := ModifyOrderResponse{
		Success:           res.Success,
		OldOrderID:        uint64(res.OldOrderID),
		NewOrderID:        uint64(res.NewOrderID),
		CancelledQuantity: res.CancelledQuantity,
		Trades:            toTradeInfos(res.Trades),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	} else {
		s.publish(sym, res.Trades)
	}
	respondJSON(w, resp)
}

// publish broadcasts trades and a fresh top-of-book update for symbol.
// Safe to call without holding mu; it re-acquires it for the snapshot.
func (s *Server) publish(sym book.Symbol, trades []exchange.Trade) {
	for _, t := range trades {
		s.hub.BroadcastToChannel("trades:"+string(sym), TradeUpdate{
			Type:   "trade",
			Symbol: string(sym),
			Trade:  toTradeInfo(t),
		})
	}

	s.mu.Lock()
	snap := s.multi.GetOrCreate(sym).Depth(s.opts.DefaultDepth)
	s.mu.Unlock()

	s.hub.BroadcastToChannel("book:"+string(sym), BookUpdate{
		Type:      "book",
		Symbol:    string(sym),
		Bids:      snap.Bids,
		Asks:      snap.Asks,
		Timestamp: s.opts.Clock.Now().UnixMilli(),
	})
}

func toTradeInfo(t exchange.Trade) TradeInfo {
	return TradeInfo{
		TradeID:          t.ID,
		Price:            int64(t.Price),
		Quantity:         t.Quantity,
		AggressorSide:    t.AggressorSide.String(),
		AggressorOrderID: uint64(t.AggressorOrderID),
		PassiveOrderID:   uint64(t.PassiveOrderID),
		Timestamp:        t.Timestamp,
	}
}

func toTradeInfos(trades []exchange.Trade) []TradeInfo {
	out := make([]TradeInfo, len(trades))
	for i, t := range trades {
		out[i] = toTradeInfo(t)
	}
	return out
}

func toSubmitResponse(res exchange.SubmitResult) SubmitOrderResponse {
	return SubmitOrderResponse{
		OrderID:           uint64(res.OrderID),
		Status:            res.Status.String(),
		FilledQuantity:    res.FilledQuantity,
		RestingQuantity:   res.RestingQuantity,
		CancelledQuantity: res.CancelledQuantity,
		Trades:            toTradeInfos(res.Trades),
	}
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, errMsg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg, Message: detail})
}
