package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/session"
	"github.com/goliatone/go-formstate/pkg/session/sqlitestore"
)

// openSession returns the configured session and a close func for its
// backing store.
func openSession() (*session.Session, func() error, error) {
	options := []session.ManagerOption{session.WithManagerLogger(logger)}
	closer := func() error { return nil }

	if cfg.Session.Store == config.StoreSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Session.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create state dir: %w", err)
		}
		db, err := sqlitestore.OpenDB(cfg.Session.Path)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, session.WithStoreFactory(db.Factory()))
		closer = db.Close
	}

	manager := session.NewManager(options...)
	var (
		sess *session.Session
		err  error
	)
	if cfg.Session.ID != "" {
		sess, err = manager.Get(cfg.Session.ID)
	} else {
		sess, err = manager.New()
	}
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	logger.Info("Session opened",
		zap.String("session_id", sess.ID),
		zap.String("store", cfg.Session.Store),
	)
	return sess, closer, nil
}
