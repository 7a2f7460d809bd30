package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/record/dialect"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalPrepares is the total number of statements prepared.
	TotalPrepares atomic.Int64
	// TotalExecutions is the total number of statement executions.
	TotalExecutions atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of executions exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of prepare and execution errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalPrepares:   s.TotalPrepares.Load(),
		TotalExecutions: s.TotalExecutions.Load(),
		TotalDuration:   time.Duration(s.TotalDuration.Load()),
		SlowQueries:     s.SlowQueries.Load(),
		Errors:          s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalPrepares.Store(0)
	s.TotalExecutions.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalPrepares   int64
	TotalExecutions int64
	TotalDuration   time.Duration
	SlowQueries     int64
	Errors          int64
}

// AvgDuration returns the average execution duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.TotalExecutions == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalExecutions)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"prepares=%d executions=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalPrepares, s.TotalExecutions, s.TotalDuration, s.AvgDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow execution is detected.
type SlowQueryHook func(ctx context.Context, query string, binds map[string]any, duration time.Duration)

// StatsDriver wraps a Driver with statement statistics collection.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow query detection.
// Executions taking longer than this duration are counted as slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow executions.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow executions to the given logger, or to the
// default logger if l is nil.
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, binds map[string]any, duration time.Duration) {
		l.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "binds", binds)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv, _ := sql.Open(dialect.MySQL, dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	client := record.NewClient(stats)
//
//	// Later, check statistics:
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow query threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Prepare prepares a statement that records its executions.
func (d *StatsDriver) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	return d.prepare(ctx, d.Driver, query)
}

func (d *StatsDriver) prepare(ctx context.Context, c dialect.Conn, query string) (dialect.Stmt, error) {
	d.stats.TotalPrepares.Add(1)
	stmt, err := c.Prepare(ctx, query)
	if err != nil {
		d.stats.Errors.Add(1)
		return nil, err
	}
	return &statsStmt{Stmt: stmt, driver: d, query: query, binds: make(map[string]any)}, nil
}

func (d *StatsDriver) record(ctx context.Context, query string, binds map[string]any, start time.Time, err error) {
	duration := time.Since(start)
	d.stats.TotalExecutions.Add(1)
	d.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, binds, duration)
		}
	}
}

// BeginTx starts a transaction that also records statistics.
func (d *StatsDriver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.Driver.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// StatsTx wraps a transaction with statistics collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Prepare prepares a statement within the transaction that records its executions.
func (tx *StatsTx) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	return tx.driver.prepare(ctx, tx.Tx, query)
}

// statsStmt records every execution of the wrapped statement.
type statsStmt struct {
	dialect.Stmt
	driver *StatsDriver
	query  string
	binds  map[string]any
}

func (s *statsStmt) Bind(name string, value any) {
	s.binds[name] = value
	s.Stmt.Bind(name, value)
}

func (s *statsStmt) Execute(ctx context.Context) error {
	start := time.Now()
	err := s.Stmt.Execute(ctx)
	s.driver.record(ctx, s.query, s.binds, start, err)
	return err
}

// DebugDriver wraps a Driver with debug logging.
type DebugDriver struct {
	*Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging.
//
//	drv, _ := sql.Open(dialect.SQLite, "file:app.db")
//	debug := sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
//	client := record.NewClient(debug)
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(ctx context.Context, v ...any) {
			slog.DebugContext(ctx, fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Prepare prepares a statement and logs it.
func (d *DebugDriver) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	d.log(ctx, fmt.Sprintf("prepare: %s", query))
	stmt, err := d.Driver.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return &debugStmt{Stmt: stmt, log: d.log, query: query, binds: make(map[string]any)}, nil
}

// BeginTx starts a transaction with debug logging.
func (d *DebugDriver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, log: d.log}, nil
}

// DebugTx wraps a transaction with debug logging.
type DebugTx struct {
	dialect.Tx
	log func(context.Context, ...any)
}

// Prepare prepares a statement within the transaction and logs it.
func (tx *DebugTx) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	tx.log(ctx, fmt.Sprintf("tx prepare: %s", query))
	stmt, err := tx.Tx.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return &debugStmt{Stmt: stmt, log: tx.log, query: query, binds: make(map[string]any)}, nil
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log(context.Background(), "commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log(context.Background(), "rollback transaction")
	return tx.Tx.Rollback()
}

type debugStmt struct {
	dialect.Stmt
	log   func(context.Context, ...any)
	query string
	binds map[string]any
}

func (s *debugStmt) Bind(name string, value any) {
	s.binds[name] = value
	s.Stmt.Bind(name, value)
}

func (s *debugStmt) Execute(ctx context.Context) error {
	s.log(ctx, fmt.Sprintf("execute: %s binds: %v", s.query, s.binds))
	return s.Stmt.Execute(ctx)
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)

// OpenWithStats opens a database connection with statistics collection enabled.
//
//	drv, stats, err := sql.OpenWithStats(dialect.MySQL, dsn,
//	    sql.WithSlowThreshold(100*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := record.NewClient(drv)
func OpenWithStats(dialect, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	drv, err := Open(dialect, source)
	if err != nil {
		return nil, nil, err
	}
	statsDriver := NewStatsDriver(drv, opts...)
	return statsDriver, statsDriver.QueryStats(), nil
}
