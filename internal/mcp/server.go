package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/johnrirwin/fpviraq/internal/logging"
)

const protocolVersion = "2024-11-05"

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type Server struct {
	handler *Handler
	logger  *logging.Logger
}

func NewServer(handler *Handler, logger *logging.Logger) *Server {
	return &Server{
		handler: handler,
		logger:  logger,
	}
}

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
	Capabilities    Caps       `json:"capabilities"`
	Instructions    string     `json:"instructions,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Caps struct {
	Tools *ToolsCap `json:"tools,omitempty"`
}

type ToolsCap struct {
	ListChanged bool `json:"listChanged"`
}

type ToolsListResult struct {
	Tools []ToolDefinition `json:"tools"`
}

type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type CallToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func result(id, v interface{}) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: v}
}

func rpcError(id interface{}, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}

// textResult wraps v as the single JSON text item of a tool result
func textResult(v interface{}, isError bool) CallToolResult {
	text, _ := json.MarshalIndent(v, "", "  ")
	return CallToolResult{
		Content: []ContentItem{{Type: "text", Text: string(text)}},
		IsError: isError,
	}
}

// Run serves JSON-RPC over stdin/stdout until EOF or ctx is done
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from in and writes responses to out.
// A final line without a newline is still served.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	s.logger.Info("MCP server started, waiting for requests", logging.WithField("tools", len(s.handler.GetTools())))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if response := s.handleRequest(ctx, line); response != nil {
				if werr := s.write(out, response); werr != nil {
					return werr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
	}
}

func (s *Server) write(out io.Writer, response *Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Failed to marshal response", logging.WithField("error", err.Error()))
		return nil
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func (s *Server) handleRequest(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return rpcError(nil, codeParseError, "Parse error")
	}

	s.logger.Debug("Received request", logging.WithFields(map[string]interface{}{
		"method": req.Method,
		"id":     req.ID,
	}))

	switch req.Method {
	case "initialize":
		return result(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      s.handler.Info(),
			Capabilities:    Caps{Tools: &ToolsCap{}},
			Instructions:    s.handler.Instructions(),
		})
	case "initialized", "notifications/initialized":
		return nil
	case "ping":
		return result(req.ID, map[string]interface{}{})
	case "tools/list":
		return result(req.ID, ToolsListResult{Tools: s.handler.GetTools()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return rpcError(req.ID, codeMethodNotFound, "Method not found")
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return rpcError(req.ID, codeInvalidParams, "Invalid params: "+err.Error())
	}

	start := time.Now()
	out, err := s.handler.HandleToolCall(ctx, params.Name, params.Arguments)
	fields := map[string]interface{}{
		"tool":     params.Name,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.logger.Warn("Tool call failed", logging.WithFields(fields))
		return result(req.ID, textResult(map[string]string{"error": err.Error()}, true))
	}

	s.logger.Debug("Tool call served", logging.WithFields(fields))
	return result(req.ID, textResult(out, false))
}
