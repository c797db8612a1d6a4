package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/arena-sync/internal/obslog"
)

// frame is the wire envelope the backend pushes: a topic name plus the
// topic's payload, left raw for the decode boundary.
type frame struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

type wsState string

const (
	wsDisconnected wsState = "disconnected"
	wsConnecting   wsState = "connecting"
	wsConnected    wsState = "connected"
	wsReconnecting wsState = "reconnecting"
	wsFailed       wsState = "failed"
)

type wsHandlerEntry struct {
	id int
	h  Handler
}

// WSFeed is the websocket Feed implementation with automatic reconnect
// and keepalive pings.
type WSFeed struct {
	wsURL string

	conn   *websocket.Conn
	connMu sync.Mutex

	state  wsState
	stateM sync.RWMutex

	handlers map[string][]wsHandlerEntry
	nextID   int
	hM       sync.RWMutex

	maxReconnectAttempts int
	reconnectDelay       time.Duration
	pingInterval         time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

func NewWSFeed(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration) *WSFeed {
	return &WSFeed{
		wsURL:                wsURL,
		state:                wsDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
		handlers:             make(map[string][]wsHandlerEntry),
	}
}

// Subscribe registers h for topic. Registration is local; frames for
// unsubscribed topics are dropped on arrival.
func (ws *WSFeed) Subscribe(topic string, h Handler) (Subscription, error) {
	ws.hM.Lock()
	ws.nextID++
	id := ws.nextID
	ws.handlers[topic] = append(ws.handlers[topic], wsHandlerEntry{id: id, h: h})
	ws.hM.Unlock()

	var once sync.Once
	return subscriptionFunc(func() error {
		once.Do(func() { ws.removeHandler(topic, id) })
		return nil
	}), nil
}

func (ws *WSFeed) removeHandler(topic string, id int) {
	ws.hM.Lock()
	defer ws.hM.Unlock()
	entries := ws.handlers[topic]
	for i, e := range entries {
		if e.id == id {
			ws.handlers[topic] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (ws *WSFeed) Connect(ctx context.Context) error {
	ws.stateM.Lock()
	if ws.state == wsConnected || ws.state == wsConnecting {
		ws.stateM.Unlock()
		return nil
	}
	ws.stateM.Unlock()

	ws.rootCtx, ws.rootCancel = context.WithCancel(context.Background())
	ws.setState(wsConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, ws.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		ws.setState(wsFailed)
		ws.scheduleReconnect()
		return err
	}

	ws.setConn(conn)
	ws.setState(wsConnected)

	ws.wg.Add(2)
	go ws.listen()
	go ws.pingLoop()
	return nil
}

func (ws *WSFeed) listen() {
	defer ws.wg.Done()
	for {
		select {
		case <-ws.stopCh:
			return
		default:
		}

		conn := ws.currentConn()
		if conn == nil {
			return
		}
		var f frame
		if err := wsjson.Read(ws.rootCtx, conn, &f); err != nil {
			if ws.isStopping() {
				return
			}
			ws.setState(wsDisconnected)
			_ = ws.closeConn(websocket.StatusGoingAway, "reconnect")
			ws.scheduleReconnect()
			return
		}
		ws.dispatch(&f)
	}
}

func (ws *WSFeed) dispatch(f *frame) {
	ws.hM.RLock()
	entries := make([]wsHandlerEntry, len(ws.handlers[f.Topic]))
	copy(entries, ws.handlers[f.Topic])
	ws.hM.RUnlock()
	if len(entries) == 0 {
		obslog.L().Debug("ws_frame_unhandled", zap.String("topic", f.Topic))
		return
	}
	for _, e := range entries {
		if e.h != nil {
			e.h(f.Topic, f.Payload)
		}
	}
}

func (ws *WSFeed) pingLoop() {
	defer ws.wg.Done()
	t := time.NewTicker(ws.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-ws.stopCh:
			return
		case <-t.C:
			conn := ws.currentConn()
			if conn == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(ws.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				failures++
				if failures >= 2 {
					if ws.isStopping() {
						return
					}
					ws.setState(wsDisconnected)
					_ = ws.closeConn(websocket.StatusGoingAway, "ping failure")
					ws.scheduleReconnect()
					failures = 0
				}
				continue
			}
			failures = 0
		}
	}
}

func (ws *WSFeed) scheduleReconnect() {
	if ws.maxReconnectAttempts <= 0 {
		return
	}
	ws.setState(wsReconnecting)

	go func() {
		for attempt := 1; attempt <= ws.maxReconnectAttempts; attempt++ {
			select {
			case <-ws.stopCh:
				return
			case <-time.After(backoffDuration(attempt, ws.reconnectDelay)):
			}

			dialCtx, cancel := context.WithTimeout(ws.rootCtx, 10*time.Second)
			conn, _, err := websocket.Dial(dialCtx, ws.wsURL, &websocket.DialOptions{
				CompressionMode: websocket.CompressionNoContextTakeover,
			})
			cancel()
			if err != nil {
				obslog.L().Warn("ws_reconnect_failed", zap.Int("attempt", attempt), zap.Error(err))
				continue
			}

			ws.setConn(conn)
			ws.setState(wsConnected)

			ws.wg.Add(2)
			go ws.listen()
			go ws.pingLoop()
			return
		}
		ws.setState(wsFailed)
	}()
}

func (ws *WSFeed) setState(state wsState) {
	ws.stateM.Lock()
	prev := ws.state
	ws.state = state
	ws.stateM.Unlock()
	if prev != state {
		obslog.L().Info("ws_state", zap.String("state", string(state)))
	}
}

// Close tears the feed down. Idempotent; after it returns no handler
// will be invoked again.
func (ws *WSFeed) Close(ctx context.Context) error {
	ws.stopOnce.Do(func() { close(ws.stopCh) })
	_ = ws.closeConn(websocket.StatusNormalClosure, "close")

	done := make(chan struct{})
	go func() {
		ws.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if ws.rootCancel != nil {
			ws.rootCancel()
		}
		return nil
	}
}

func (ws *WSFeed) setConn(conn *websocket.Conn) {
	ws.connMu.Lock()
	ws.conn = conn
	ws.connMu.Unlock()
}

func (ws *WSFeed) currentConn() *websocket.Conn {
	ws.connMu.Lock()
	defer ws.connMu.Unlock()
	return ws.conn
}

func (ws *WSFeed) closeConn(code websocket.StatusCode, reason string) error {
	ws.connMu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.connMu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close(code, reason)
}

func (ws *WSFeed) isStopping() bool {
	select {
	case <-ws.stopCh:
		return true
	default:
		return false
	}
}

type subscriptionFunc func() error

func (f subscriptionFunc) Close() error { return f() }

func backoffDuration(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	return time.Duration(1<<uint(attempt-1)) * base
}
