package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"

	"github.com/VarunSharma3520/Reply/internal/config"
	"github.com/VarunSharma3520/Reply/internal/fs"
	"github.com/VarunSharma3520/Reply/internal/history"
	"github.com/VarunSharma3520/Reply/internal/llm"
	"github.com/VarunSharma3520/Reply/internal/logger"
	"github.com/VarunSharma3520/Reply/internal/reply"
	"github.com/VarunSharma3520/Reply/internal/vector"
)

// app holds the dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	gen     *llm.OllamaGenerator
	index   *vector.Store
	history *history.Store
	conn    *grpc.ClientConn
}

func newApp() (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	vault := config.VaultPath()
	if err := fs.EnsureVaultExists(vault); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(config.LogPath())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.gen = llm.NewOllamaGenerator(llm.OllamaOptions{
		APIURL:      cfg.APIURL,
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
		Disabled:    cfg.Disabled,
		Logger:      log,
	})

	var indexer history.Indexer
	if cfg.HistoryIndexEnabled() {
		conn, err := vector.Dial(cfg.QdrantAddr)
		if err != nil {
			log.Error("qdrant unavailable, history will not be indexed", err, map[string]interface{}{"addr": cfg.QdrantAddr})
		} else {
			a.conn = conn
			a.index = vector.NewStore(conn, cfg.Collection, vector.NewOllamaEmbedder(cfg.APIURL, cfg.EmbedModel), log)
			indexer = a.index
		}
	}
	a.history = history.NewStore(vault, indexer, log)

	log.Info("reply started", map[string]interface{}{
		"model":   cfg.ModelName,
		"api_url": cfg.APIURL,
		"indexed": indexer != nil,
	})
	return a, nil
}

// newSession creates a session and runs the one-off availability check.
func (a *app) newSession(ctx context.Context) (*reply.Session, llm.Availability) {
	s := reply.New(a.gen, a.log)
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s, s.CheckAvailability(checkCtx)
}

func (a *app) requireIndex() error {
	if a.index == nil {
		return fmt.Errorf("no Qdrant index configured (set qdrant_addr with `reply config set qdrant_addr host:6334`)")
	}
	return nil
}

func (a *app) Close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
	_ = a.log.Close()
}
