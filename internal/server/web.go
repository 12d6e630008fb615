package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/revq/revq/common"
	"github.com/revq/revq/pkg/logger"
)

// WebBridge serves the same JSON-RPC methods over HTTP POST (/rpc) and
// WebSocket (/ws) for browser-side presentation layers, e.g. a queue
// screen or the priority shield widget polling queue.shield.
type WebBridge struct {
	log    logger.Logger
	port   int
	bridge jhttp.Bridge
	mux    *http.ServeMux
	server *http.Server
}

// NewWebBridge creates the bridge; it does not listen until Serve.
func NewWebBridge(l logger.Logger, methods handler.Map, port int) *WebBridge {
	if l == nil {
		l = logger.NewNopLogger()
	}
	wb := &WebBridge{
		log:    l,
		port:   port,
		bridge: jhttp.NewBridge(methods, nil),
	}
	wb.mux = http.NewServeMux()
	wb.mux.Handle("/rpc", wb.bridge)
	wb.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wb.serveWS(methods, w, r)
	})
	return wb
}

// Handler returns the bridge's HTTP handler, mainly for tests.
func (wb *WebBridge) Handler() http.Handler {
	return wb.mux
}

// Serve listens on the loopback interface until ctx is cancelled.
func (wb *WebBridge) Serve(ctx context.Context) error {
	wb.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", common.TCPHost, wb.port),
		Handler: wb.mux,
	}
	errc := make(chan error, 1)
	go func() { errc <- wb.server.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wb.server.Shutdown(shutdownCtx)
		wb.bridge.Close()
		return nil
	case err := <-errc:
		wb.bridge.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// serveWS upgrades the request and runs a jrpc2 session over the socket.
func (wb *WebBridge) serveWS(methods handler.Map, w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		wb.log.Warning("websocket accept failed: %v", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(methods, nil)
	srv.Start(ch)
	if err := srv.Wait(); err != nil {
		wb.log.Warning("websocket session ended: %v", err)
	}
	_ = ch.Close()
}
