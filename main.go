// Command tileboard starts the Tile Board server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, version output,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/tileboard/api"
	"github.com/wricardo/mcp-training/tileboard/game/config"
	"github.com/wricardo/mcp-training/tileboard/game/service"
	"github.com/wricardo/mcp-training/tileboard/game/session"
	"github.com/wricardo/mcp-training/tileboard/logging"
	"github.com/wricardo/mcp-training/tileboard/transport/mcp"
	"github.com/wricardo/mcp-training/tileboard/transport/websocket"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tile Board Server"
)

const (
	sessionCleanupInterval = 1 * time.Hour
	sessionRetention       = 24 * time.Hour
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", getConfigDirDefault(), "Directory containing board configurations")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr == nil {
		logger.Info("loaded environment variables from .env file")
	} else if !os.IsNotExist(envErr) {
		logger.Warn("error loading .env file", zap.Error(envErr))
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", mode))

	hub := websocket.NewHub(logger)
	gameService, sessionManager, err := initializeServices(logger, hub)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = runStdioMCPWithInternalServer(ctx, logger, gameService, hub)

	case "server", "http":
		err = runHTTPServer(ctx, logger, gameService, sessionManager, hub)

	default:
		logger.Fatal("unknown mode, use 'server' (default) or 'stdio-mcp'", zap.String("mode", mode))
	}

	if err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// initializeServices wires the config and session managers into the game service.
// When hub is non-nil every board change is pushed to its subscribers.
func initializeServices(logger *zap.Logger, hub *websocket.Hub) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(logger)
	var opts []service.Option
	if hub != nil {
		opts = append(opts, service.WithBroadcaster(hub))
	}
	gameService := service.NewGameService(sessionManager, configManager, logger, opts...)

	return gameService, sessionManager, nil
}

// newMCPHandler exposes the MCP server over a single POST endpoint.
func newMCPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until ctx
// is cancelled. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, logger *zap.Logger, gameService service.GameService, sessionManager *session.Manager, hub *websocket.Hub) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(ctx) })

	apiServer := api.NewServer(gameService, hub, logger)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(ctx, logger, sessionManager, sessionCleanupInterval, sessionRetention)
		return nil
	})

	if ngrokShouldRun() {
		g.Go(func() error {
			runNgrokTunnel(ctx, logger, mainRouter)
			return nil
		})
	}

	return g.Wait()
}

// ngrokShouldRun reports whether the tunnel is enabled by flag or NGROK_ENABLED.
func ngrokShouldRun() bool {
	if *ngrokEnabled {
		return true
	}
	envEnabled := os.Getenv("NGROK_ENABLED")
	return envEnabled == "true" || envEnabled == "1"
}

// ngrokAuthToken resolves the auth token from the flag or either env spelling.
func ngrokAuthToken() string {
	if *ngrokAuth != "" {
		return *ngrokAuth
	}
	if token := os.Getenv("NGROK_AUTHTOKEN"); token != "" {
		return token
	}
	return os.Getenv("NGROK_AUTH_TOKEN")
}

// runNgrokTunnel serves handler through an ngrok HTTP endpoint until ctx is
// done. Tunnel failures are logged and do not stop the local server.
func runNgrokTunnel(ctx context.Context, logger *zap.Logger, handler http.Handler) {
	authToken := ngrokAuthToken()
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	logger.Info("starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"))

	tunnelServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		tunnelServer.Close()
	}()

	if err := tunnelServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine removes sessions that have not been accessed within
// retention, checking every interval until ctx is done.
func sessionCleanupRoutine(ctx context.Context, logger *zap.Logger, manager *session.Manager, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(retention); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, logger *zap.Logger, gameService service.GameService, hub *websocket.Hub) error {
	go hub.Run(ctx)

	externalURL := "http://localhost:8080"
	baseURL := externalURL
	logger.Info("checking for external API server", zap.String("url", externalURL))

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil {
		resp.Body.Close()
	}

	if err == nil && resp.StatusCode < 500 {
		logger.Info("external API server found, using it for MCP", zap.String("url", externalURL))
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		logger.Info("starting internal HTTP server for MCP stdio", zap.String("addr", internalAddr))

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, hub, logger),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
