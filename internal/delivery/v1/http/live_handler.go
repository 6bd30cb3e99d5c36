package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveMaxMessage = 4 << 10

	liveTypeCategory = "category"
	liveTypeSearch   = "search"
	liveTypeFacets   = "facets"
)

// liveClientMessage: сообщение клиента; набор полей зависит от Type.
type liveClientMessage struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
	Term       string   `json:"term"`
	PriceMin   string   `json:"priceMin"`
	PriceMax   string   `json:"priceMax"`
	Brands     []string `json:"brands"`
	OnlyPacks  bool     `json:"onlyPacks"`
	Page       int      `json:"page"`
}

type liveServerMessage struct {
	Type     string               `json:"type"` // products | error
	Seq      uint64               `json:"seq,omitempty"`
	Products *productPageResponse `json:"products,omitempty"`
	Error    *ErrorResponse       `json:"error,omitempty"`
}

type liveResult struct {
	page *usecase.ProductPage
	err  error
}

// LiveHandler держит живую сессию витрины поверх WebSocket: состояние фильтров
// живёт на сервере, клиент получает только результат последнего запроса.
type LiveHandler struct {
	catalogUC usecase.CatalogUC
	upgrader  websocket.Upgrader
	logger    logger.Logger
}

func NewLiveHandler(catalogUC usecase.CatalogUC, logger logger.Logger) *LiveHandler {
	return &LiveHandler{
		catalogUC: catalogUC,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Сессия только читает публичный каталог
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// serve
//
//	@Summary		Живая сессия витрины
//	@Description	WebSocket: клиент шлёт category, search и facets, сервер отвечает products или error
//	@Tags			catalog
//	@Success		101	"Соединение переключено на WebSocket"
//	@Router			/catalog/live [get]
func (l *LiveHandler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	s := newLiveSession(ctx, conn, l.catalogUC, l.logger)

	go s.keepAlive()
	s.readLoop()

	cancel()
	s.wait()
}

type liveSession struct {
	ctx       context.Context
	conn      *websocket.Conn
	catalogUC usecase.CatalogUC
	logger    logger.Logger
	bus       *bus.Bus

	mu     sync.Mutex
	req    catalog.Request
	latest catalog.Latest[liveResult]
	// cancelPrev отменяет запрос, который вытеснен новой меткой
	cancelPrev context.CancelFunc

	// writeMu упорядочивает запись в соединение; под ним же принимается результат,
	// поэтому принятые ответы уходят клиенту в порядке выдачи меток
	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func newLiveSession(ctx context.Context, conn *websocket.Conn, catalogUC usecase.CatalogUC, logger logger.Logger) *liveSession {
	s := &liveSession{
		ctx:       ctx,
		conn:      conn,
		catalogUC: catalogUC,
		logger:    logger,
		bus:       bus.New(),
		req:       catalog.Request{Page: 1},
	}

	bus.Subscribe(s.bus, func(m bus.CategorySelected) {
		s.update(func(r *catalog.Request) {
			r.Categories = m.Categories
			r.Page = 1
		})
	})
	bus.Subscribe(s.bus, func(m bus.SearchQueryChanged) {
		s.update(func(r *catalog.Request) {
			r.SearchTerm = m.Term
			r.Page = 1
		})
	})
	bus.Subscribe(s.bus, func(m bus.FacetsChanged) {
		s.update(func(r *catalog.Request) {
			r.PriceMin = m.PriceMin
			r.PriceMax = m.PriceMax
			r.Brands = m.Brands
			r.OnlyPacks = m.OnlyPacks
			r.Page = max(m.Page, 1)
		})
	})

	return s
}

func (s *liveSession) readLoop() {
	s.conn.SetReadLimit(liveMaxMessage)
	_ = s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	// Первая выдача с пустыми фильтрами
	s.update(func(*catalog.Request) {})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnf("live session closed: %v", err)
			}
			return
		}

		msg, err := decodeLiveMessage(raw)
		if err != nil {
			s.writeMessage(liveServerMessage{Type: "error", Error: errorBody(err)})
			continue
		}

		s.bus.Publish(msg)
	}
}

// update меняет состояние фильтров и запускает запрос с новой меткой.
// Предыдущий запрос отменяется, так что в работе не больше одного запроса на сессию.
func (s *liveSession) update(apply func(r *catalog.Request)) {
	s.mu.Lock()
	apply(&s.req)
	req := s.req
	stamp := s.latest.Issue()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelPrev = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		page, err := s.catalogUC.Products(ctx, req)
		if ctx.Err() != nil {
			return
		}

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if !s.latest.Resolve(stamp, liveResult{page: page, err: err}) {
			return
		}

		msg := liveServerMessage{Type: "products", Seq: stamp}
		if err != nil {
			s.logger.Errorf(err, "live catalog query failed")
			msg.Type, msg.Error = "error", errorBody(err)
		} else {
			res := toProductPageResponse(page, "")
			msg.Products = &res
		}
		s.writeLocked(msg)
	}()
}

func (s *liveSession) keepAlive() {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *liveSession) writeMessage(msg liveServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.writeLocked(msg)
}

func (s *liveSession) writeLocked(msg liveServerMessage) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warnf("live session write failed: %v", err)
	}
}

func (s *liveSession) wait() {
	s.wg.Wait()
}

func decodeLiveMessage(raw []byte) (bus.Message, error) {
	var m liveClientMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	switch m.Type {
	case liveTypeCategory:
		set, err := catalog.ParseCategorySet(m.Categories)
		if err != nil {
			return nil, err
		}
		return bus.CategorySelected{Categories: set}, nil

	case liveTypeSearch:
		return bus.SearchQueryChanged{Term: m.Term}, nil

	case liveTypeFacets:
		msg := bus.FacetsChanged{Brands: m.Brands, OnlyPacks: m.OnlyPacks, Page: m.Page}

		var err error
		if msg.PriceMin, err = parsePrice(m.PriceMin); err != nil {
			return nil, err
		}
		if m.PriceMax != "" {
			priceMax, err := parsePrice(m.PriceMax)
			if err != nil {
				return nil, err
			}
			msg.PriceMax = &priceMax
		}
		return msg, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", e.ErrStatusBadRequest, m.Type)
	}
}

func errorBody(err error) *ErrorResponse {
	code, msg := ToHTTPResponse(err)
	return NewErrorResponse(code, msg)
}
