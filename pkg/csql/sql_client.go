package csql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gocraft/dbr/v2"
)

const SqlLifetimeTag = "sql_client"

type SqlCfg struct {
	Schema      string
	Host        string
	Port        int
	Database    string
	Username    string
	Password    string
	MaximumIdle int
	Maximum     int
	MaxLifeTime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

type SqlClient struct {
	conn *dbr.Connection
	sess *dbr.Session
}

func NewSqlClient(cfg SqlCfg) (*SqlClient, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	conn, err := dbr.Open(cfg.Schema, dsn, nil)
	if err != nil {
		return nil, err
	}

	conn.SetMaxIdleConns(cfg.MaximumIdle)
	conn.SetMaxOpenConns(cfg.Maximum)
	conn.SetConnMaxLifetime(cfg.MaxLifeTime)
	conn.SetConnMaxIdleTime(cfg.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err = conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &SqlClient{
		conn: conn,
		sess: conn.NewSession(nil),
	}, nil
}

func (sc *SqlClient) Session() *dbr.Session {
	return sc.sess
}

func (sc *SqlClient) WithSess(fn func(sess *dbr.Session) error) error {
	return fn(sc.sess)
}

// WithTransCtx 读写事务
func (sc *SqlClient) WithTransCtx(ctx context.Context, fn func(ctx context.Context, tx *dbr.Tx) error) error {
	tx, err := sc.sess.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.RollbackUnlessCommitted()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// WithReadSnapshotCtx 只读事务, 同一次刷新内的多条查询看到一致的库状态
func (sc *SqlClient) WithReadSnapshotCtx(ctx context.Context, fn func(ctx context.Context, tx *dbr.Tx) error) error {
	tx, err := sc.sess.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}

	defer tx.RollbackUnlessCommitted()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (sc *SqlClient) GracefulStop(_ context.Context) error {
	return sc.conn.Close()
}
