// Command rust-analyzer-lsp is a Language Server Protocol server for
// Rust source files.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rustanalyzer "github.com/nitsky/rust-analyzer"
	"github.com/nitsky/rust-analyzer/lsp"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	cfg, err := rustanalyzer.LoadConfigOrDefault(cwd)
	if err != nil {
		cfg = rustanalyzer.DefaultConfig()
	}

	// Set up logging to stderr (stdout is for LSP communication)
	logConfig := zap.NewDevelopmentConfig()
	logConfig.OutputPaths = []string{"stderr"}
	logConfig.Level = zap.NewAtomicLevelAt(logLevel(cfg.LogLevel))

	logger, err := logConfig.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting rust-analyzer-lsp server")

	ctx := context.Background()

	err = run(ctx, logger, cfg, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *rustanalyzer.Config, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, cfg.Completion)

	// Register the server handler with the connection
	conn.Go(ctx, protocol.ServerHandler(server, nil))

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

func logLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
