package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aschepis/backscratcher/completion/config"
	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/aschepis/backscratcher/completion/llm/anthropic"
	completionlogger "github.com/aschepis/backscratcher/completion/logger"
	"github.com/aschepis/backscratcher/completion/tools"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		if llm.IsCanceled(err) {
			fmt.Fprintln(os.Stderr, "Canceled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if delay, ok := anthropic.RetryAfter(err); ok {
			fmt.Fprintf(os.Stderr, "The API asked to retry after %s\n", delay)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		prompt     = flag.String("prompt", "", "User prompt. If not set, the prompt is read from stdin")
		system     = flag.String("system", "", "System prompt")
		image      = flag.String("image", "", "Path to an image to attach to the prompt")
		stream     = flag.Bool("stream", false, "Stream the response as it is generated")
		count      = flag.Bool("count", false, "Only count input tokens, do not request a completion")
		dump       = flag.Bool("dump", false, "Print the request payload to stderr before sending it")
		configPath = flag.String("config", config.GetConfigPath(), "Path to the configuration file")
		toolsFile  = flag.String("tools", "", "JSON file with MCP tool definitions (overrides tools_file)")
		useMCP     = flag.Bool("mcp", false, "Offer the tools of the configured MCP servers")
		timeout    = flag.Duration("timeout", 0, "Per-call timeout (overrides timeout in the config file)")
		logFile    = flag.String("logfile", "", "Path to log file. If not set, logs to stderr")
		pretty     = flag.Bool("pretty", false, "Use pretty console output (only valid when logfile is not set)")
	)
	flag.Parse()

	if *logFile != "" && *pretty {
		return fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}

	logger, err := completionlogger.InitWithOptions(*logFile, *pretty)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug().Str("path", *configPath).Msg("Loaded configuration")

	client, err := config.NewAnthropicClient(appConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create anthropic client: %w", err)
	}

	req, err := buildRequest(*prompt, *system, *image, *stream)
	if err != nil {
		return err
	}

	if *toolsFile == "" {
		*toolsFile = appConfig.ToolsFile
	}
	if *toolsFile != "" {
		specs, err := tools.LoadMCPTools(*toolsFile)
		if err != nil {
			return err
		}
		req.Tools = specs
		logger.Debug().Int("count", len(specs)).Str("file", *toolsFile).Msg("Loaded tool definitions")
	}

	callTimeout := *timeout
	if callTimeout == 0 && appConfig.Timeout > 0 {
		callTimeout = time.Duration(appConfig.Timeout) * time.Second
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *useMCP {
		specs, err := discoverMCPTools(ctx, logger, appConfig.MCPServers)
		if err != nil {
			return err
		}
		req.Tools = append(req.Tools, specs...)
		logger.Debug().Int("count", len(specs)).Msg("Discovered MCP tools")
	}

	if *count {
		countCtx := ctx
		if callTimeout > 0 {
			var cancel context.CancelFunc
			countCtx, cancel = context.WithTimeout(ctx, callTimeout)
			defer cancel()
		}
		tokens, err := client.CountTokens(countCtx, req)
		if err != nil {
			return llm.NormalizeCancellation(countCtx, err)
		}
		fmt.Printf("input_tokens: %d\n", tokens)
		return nil
	}

	cfg := client.Config()
	middleware := []llm.Middleware{llm.NewLoggingMiddleware(logger, *cfg.Pricing, anthropic.ClassifyError)}
	if *dump {
		middleware = append(middleware, newPayloadDumper(os.Stderr, cfg))
	}
	wrapped := llm.WrapWithMiddleware(client, middleware...)
	wrapped = llm.WithTimeout(wrapped, callTimeout)

	completion, err := llm.Complete(ctx, wrapped, req)
	if err != nil {
		return err
	}

	var usage *llm.Usage
	if completion.Stream != nil {
		usage, err = printStream(os.Stdout, completion.Stream)
		if err != nil {
			return err
		}
	} else {
		printResponse(os.Stdout, completion.Response)
		usage = completion.Response.Usage
	}

	printUsage(logger, client, usage)
	return nil
}

// buildRequest assembles a single-turn request from the command line.
func buildRequest(prompt, system, imagePath string, stream bool) (*llm.Request, error) {
	if prompt == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return nil, fmt.Errorf("a prompt is required")
	}

	msg := llm.NewTextMessage(llm.RoleUser, prompt)
	if imagePath != "" {
		block, err := loadImage(imagePath)
		if err != nil {
			return nil, err
		}
		msg = llm.NewBlockMessage(llm.RoleUser, block, llm.TextBlock{Text: prompt})
	}

	return &llm.Request{
		Messages: []llm.Message{msg},
		System:   system,
		Stream:   stream,
	}, nil
}

func loadImage(path string) (llm.ImageBlock, error) {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mediaType, "image/") {
		return llm.ImageBlock{}, fmt.Errorf("unsupported image type for %q", path)
	}
	data, err := os.ReadFile(path) //#nosec 304 -- user supplied image path
	if err != nil {
		return llm.ImageBlock{}, fmt.Errorf("failed to read image: %w", err)
	}
	return llm.NewImageBlock(mediaType, base64.StdEncoding.EncodeToString(data)), nil
}

func printResponse(w io.Writer, resp *llm.Response) {
	for _, block := range resp.Content {
		switch block.Type {
		case llm.ContentBlockTypeText:
			fmt.Fprintln(w, block.Text)
		case llm.ContentBlockTypeToolUse:
			fmt.Fprintf(w, "[tool_use %s %v]\n", block.ToolUse.Name, block.ToolUse.Input)
		}
	}
}

// printStream writes text deltas as they arrive and returns the final usage.
func printStream(w io.Writer, stream llm.Stream) (*llm.Usage, error) {
	defer func() {
		_ = stream.Close()
	}()

	var usage *llm.Usage
	for stream.Next() {
		event := stream.Event()
		if event.Usage != nil {
			usage = event.Usage
		}
		if event.Delta == nil {
			continue
		}
		switch event.Delta.Type {
		case llm.StreamDeltaTypeText:
			fmt.Fprint(w, event.Delta.Text)
		case llm.StreamDeltaTypeToolUse:
			fmt.Fprintf(w, "\n[tool_use %s]", event.Delta.ToolUse.Name)
		}
	}
	fmt.Fprintln(w)
	if err := stream.Err(); err != nil {
		return usage, err
	}
	return usage, nil
}

func printUsage(logger zerolog.Logger, client *anthropic.AnthropicClient, usage *llm.Usage) {
	if usage == nil {
		logger.Warn().Msg("No usage reported")
		return
	}
	fmt.Fprintf(os.Stderr, "tokens: in=%d out=%d cache_write=%d cache_read=%d cost=$%.6f\n",
		usage.InputTokens, usage.OutputTokens,
		usage.CacheCreationInputTokens, usage.CacheReadInputTokens,
		client.CalculateCost(*usage))
}
