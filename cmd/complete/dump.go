package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/aschepis/backscratcher/completion/llm/anthropic"
)

// payloadDumper prints the Messages API payload of each request before it is sent,
// for buffered and streamed calls alike.
type payloadDumper struct {
	llm.MiddlewareFunc
	llm.StreamMiddlewareFunc
}

func newPayloadDumper(w io.Writer, cfg anthropic.Config) payloadDumper {
	dump := func(ctx context.Context, req *llm.Request) (*llm.Request, error) {
		params, err := anthropic.BuildMessageParams(cfg, req)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(params, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
		return req, nil
	}
	return payloadDumper{
		MiddlewareFunc:       llm.MiddlewareFunc{BeforeRequestFunc: dump},
		StreamMiddlewareFunc: llm.StreamMiddlewareFunc{BeforeStreamFunc: dump},
	}
}

var (
	_ llm.Middleware       = payloadDumper{}
	_ llm.StreamMiddleware = payloadDumper{}
)
