package chatlog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
)

const (
	// DefaultFlushInterval is how often buffered writes are committed.
	DefaultFlushInterval = 5 * time.Minute
	// DefaultSweepInterval is how often the full pruning sweep runs after the
	// startup sweep.
	DefaultSweepInterval = 24 * time.Hour
)

// Options configures a ChatLogger.
type Options struct {
	Logs LogStore
	Seen SeenStore
	Host Host

	// FlushInterval overrides DefaultFlushInterval when > 0.
	FlushInterval time.Duration
	// SweepInterval overrides DefaultSweepInterval when > 0.
	SweepInterval time.Duration

	Logger logpkg.Logger
}

// ChatLogger buffers chat activity in memory, flushes it to the log store on
// a fixed interval, and serves the query side. One instance per process,
// constructed by the host at startup and stopped explicitly.
type ChatLogger struct {
	logs LogStore
	seen SeenStore
	host Host
	log  logpkg.Logger

	flushInterval time.Duration
	sweepInterval time.Duration

	mu      sync.Mutex
	buf     *writeBuffer
	rooms   map[string]struct{}
	syncing bool
	waiters []chan struct{}

	stop chan struct{}
	wg   sync.WaitGroup

	now func() time.Time
}

// New builds a ChatLogger. Start must be called before it does any work.
func New(opts Options) *ChatLogger {
	flush := opts.FlushInterval
	if flush <= 0 {
		flush = DefaultFlushInterval
	}
	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	return &ChatLogger{
		logs:          opts.Logs,
		seen:          opts.Seen,
		host:          opts.Host,
		log:           logger,
		flushInterval: flush,
		sweepInterval: sweep,
		buf:           newWriteBuffer(),
		rooms:         make(map[string]struct{}),
		now:           time.Now,
	}
}

// Start loads the room registry from existing store keys, runs the startup
// sweep, and launches the flush and sweep loops.
func (c *ChatLogger) Start(ctx context.Context) error {
	if err := c.loadRooms(); err != nil {
		return err
	}
	if err := c.SweepAll(ctx); err != nil {
		// The next scheduled sweep retries; queries prune inline meanwhile.
		c.log.Warn("startup sweep failed", logpkg.Err(err))
	}

	c.stop = make(chan struct{})
	c.wg.Add(2)
	go c.flushLoop()
	go c.sweepLoop()
	return nil
}

// Stop halts both loops and commits whatever is still buffered.
func (c *ChatLogger) Stop() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.wg.Wait()
	c.stop = nil
	if err := c.Flush(context.Background()); err != nil {
		c.log.Error("final flush failed", logpkg.Err(err))
	}
}

// Log buffers one chat line. timestamp is epoch seconds in decimal form.
// Malformed input is dropped silently: a timestamp that does not parse as an
// integer, or an empty room or userid. The user's last-seen record is updated
// unless the room is private.
func (c *ChatLogger) Log(timestamp, room, userid, message string) {
	if c.host.LoggingDisabled() {
		return
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil || userid == "" || room == "" {
		return
	}
	ms := ts * 1000

	key := room + ":" + userid
	timeKey := FormatTimeKey(ms)

	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.buf.append(key, timeKey, message)
	c.mu.Unlock()

	if !c.host.PrivateRoom(room) {
		if err := c.seen.Set(userid, ms); err != nil {
			c.log.Warn("seen update failed", logpkg.Str("user", userid), logpkg.Err(err))
		}
	}
}

// Rooms returns the rooms known to the registry, sorted.
func (c *ChatLogger) Rooms() []string {
	c.mu.Lock()
	out := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		out = append(out, r)
	}
	c.mu.Unlock()
	sort.Strings(out)
	return out
}

// loadRooms seeds the room registry from composite keys already in the store.
func (c *ChatLogger) loadRooms() error {
	keys, err := c.logs.ListKeys("*")
	if err != nil {
		return err
	}
	c.mu.Lock()
	for _, key := range keys {
		room, _, _ := strings.Cut(key, ":")
		c.rooms[room] = struct{}{}
	}
	c.mu.Unlock()
	return nil
}

func (c *ChatLogger) flushLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.Flush(context.Background()); err != nil {
				c.log.Error("flush cycle failed", logpkg.Err(err))
			}
		case <-c.stop:
			return
		}
	}
}

func (c *ChatLogger) sweepLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.SweepAll(context.Background()); err != nil {
				c.log.Error("sweep failed", logpkg.Err(err))
			}
		case <-c.stop:
			return
		}
	}
}
