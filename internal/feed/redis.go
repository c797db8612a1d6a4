package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/arena-sync/internal/obslog"
)

// channelPrefix namespaces topic channels so the backend and this tool
// can share a Redis instance with other applications.
const channelPrefix = "arena:"

// RedisFeed is the Redis pub/sub Feed implementation, one channel per
// topic.
type RedisFeed struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs []*redisSub

	closed bool
}

func NewRedisFeed(redisURL string) (*RedisFeed, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisFeed{rdb: rdb}, nil
}

// NewRedisFeedFromClient wraps an existing client; used by tests.
func NewRedisFeedFromClient(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

func (rf *RedisFeed) Subscribe(topic string, h Handler) (Subscription, error) {
	rf.mu.Lock()
	if rf.closed {
		rf.mu.Unlock()
		return nil, fmt.Errorf("feed closed")
	}
	rf.mu.Unlock()

	ps := rf.rdb.Subscribe(context.Background(), channelPrefix+topic)
	// Receive forces the SUBSCRIBE round-trip so delivery is guaranteed
	// for messages published after Subscribe returns.
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	sub := &redisSub{topic: topic, ps: ps, done: make(chan struct{})}
	rf.mu.Lock()
	rf.subs = append(rf.subs, sub)
	rf.mu.Unlock()

	go func() {
		defer close(sub.done)
		for msg := range ps.Channel() {
			h(topic, []byte(msg.Payload))
		}
	}()
	return sub, nil
}

func (rf *RedisFeed) Close(ctx context.Context) error {
	rf.mu.Lock()
	if rf.closed {
		rf.mu.Unlock()
		return nil
	}
	rf.closed = true
	subs := rf.subs
	rf.subs = nil
	rf.mu.Unlock()

	for _, s := range subs {
		if err := s.Close(); err != nil {
			obslog.L().Warn("redis_unsubscribe", zap.String("topic", s.topic), zap.Error(err))
		}
	}
	return rf.rdb.Close()
}

type redisSub struct {
	topic string
	ps    *redis.PubSub
	once  sync.Once
	done  chan struct{}
}

// Close unsubscribes and waits for the delivery goroutine to drain, so
// no handler runs after it returns.
func (s *redisSub) Close() error {
	var err error
	s.once.Do(func() {
		err = s.ps.Close()
		<-s.done
	})
	return err
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
