// Package lsp serves script diagnostics and editor queries over stdio
// JSON-RPC. Every document is analyzed on its own; queries re-run the
// analysis with the request position as the cursor.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/version"
)

var (
	// ErrExit is returned by Run after "exit" that followed "shutdown".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown is returned by Run after a bare "exit".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// Options configures the server.
type Options struct {
	// Decls is the declaration input shared by every analysis; required.
	Decls          *driver.Declarations
	Globals        []driver.Global
	MaxDiagnostics int
	Debounce       time.Duration
	// Log receives server messages; os.Stderr when nil.
	Log io.Writer
}

type document struct {
	version int
	text    string
	// seq растёт с каждым изменением; устаревшие анализы отбрасываются.
	seq       uint64
	timer     *time.Timer
	published bool
}

// Server handles stdio JSON-RPC for script files.
type Server struct {
	opts Options
	ctx  context.Context

	in    *bufio.Reader
	outMu sync.Mutex
	out   *bufio.Writer

	mu       sync.Mutex
	docs     map[string]*document
	root     string
	shutdown bool

	pending sync.WaitGroup
}

func NewServer(in io.Reader, out io.Writer, opts Options) *Server {
	opts.Debounce = orDefault(opts.Debounce, 200*time.Millisecond)
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	return &Server{
		opts: opts,
		ctx:  context.Background(),
		in:   bufio.NewReader(in),
		out:  bufio.NewWriter(out),
		docs: make(map[string]*document),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Run reads messages until EOF or "exit". Malformed JSON is logged and
// skipped; a framing error ends the loop.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	defer s.stopTimers()
	for {
		payload, err := readMessage(s.in)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("bad message: %v", err)
			continue
		}
		if msg.Method == "" {
			// ответы клиента нам не нужны
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

// Wait blocks until scheduled diagnostics have run or been cancelled.
func (s *Server) Wait() { s.pending.Wait() }

type handlerFunc func(*Server, *rpcMessage) error

var handlers = map[string]handlerFunc{
	"initialize":                 (*Server).initialize,
	"initialized":                func(*Server, *rpcMessage) error { return nil },
	"shutdown":                   (*Server).requestShutdown,
	"exit":                       (*Server).exit,
	"textDocument/didOpen":       notification((*Server).didOpen),
	"textDocument/didChange":     notification((*Server).didChange),
	"textDocument/didSave":       notification((*Server).didSave),
	"textDocument/didClose":      notification((*Server).didClose),
	"textDocument/hover":         (*Server).handleHover,
	"textDocument/completion":    (*Server).handleCompletion,
	"textDocument/signatureHelp": (*Server).handleSignatureHelp,
	"textDocument/definition":    (*Server).handleDefinition,
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if h, ok := handlers[msg.Method]; ok {
		return h(s, msg)
	}
	if len(msg.ID) == 0 {
		// неизвестные уведомления молча игнорируются
		return nil
	}
	return s.sendError(msg.ID, codeMethodNotFound, "method not found: "+msg.Method)
}

// notification decodes params into P; undecodable params are logged
// and dropped since notifications have no reply.
func notification[P any](fn func(*Server, *P) error) handlerFunc {
	return func(s *Server, msg *rpcMessage) error {
		var params P
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logf("%s: %v", msg.Method, err)
			return nil
		}
		return fn(s, &params)
	}
}

func (s *Server) initialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 && json.Unmarshal(msg.Params, &params) != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	root := uriToPath(params.RootURI)
	if root == "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if abs, err := filepath.Abs(root); root != "" && err == nil {
		root = abs
	}
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()

	caps := serverCapabilities{
		TextDocumentSync: textDocumentSyncOptions{
			OpenClose: true,
			Change:    syncIncremental,
			Save:      saveOptions{IncludeText: true},
		},
		HoverProvider:         true,
		DefinitionProvider:    true,
		CompletionProvider:    &completionOptions{TriggerCharacters: []string{"."}},
		SignatureHelpProvider: &signatureHelpOptions{TriggerCharacters: []string{"(", ","}},
	}
	return s.sendResponse(msg.ID, initializeResult{
		Capabilities: caps,
		ServerInfo:   serverInfo{Name: "uscheck", Version: version.Version},
	})
}

func (s *Server) requestShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.stopTimers()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) exit(*rpcMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return ErrExit
	}
	return ErrExitWithoutShutdown
}

func (s *Server) didOpen(p *didOpenTextDocumentParams) error {
	item := p.TextDocument
	if item.URI == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[item.URI]
	if doc == nil {
		doc = &document{}
		s.docs[item.URI] = doc
	}
	doc.text, doc.version = item.Text, item.Version
	s.scheduleLocked(item.URI, doc)
	return nil
}

// edit applies fn to an open document and reschedules its diagnostics;
// unknown uris are ignored.
func (s *Server) edit(uri string, fn func(*document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc := s.docs[uri]; doc != nil {
		fn(doc)
		s.scheduleLocked(uri, doc)
	}
}

func (s *Server) didChange(p *didChangeTextDocumentParams) error {
	s.edit(p.TextDocument.URI, func(doc *document) {
		doc.text = applyChanges(doc.text, p.ContentChanges)
		doc.version = p.TextDocument.Version
	})
	return nil
}

func (s *Server) didSave(p *didSaveTextDocumentParams) error {
	s.edit(p.TextDocument.URI, func(doc *document) {
		if p.Text != nil {
			doc.text = *p.Text
		}
	})
	return nil
}

// didClose forgets the document and clears diagnostics it published.
func (s *Server) didClose(p *didCloseTextDocumentParams) error {
	uri := p.TextDocument.URI
	s.mu.Lock()
	doc := s.docs[uri]
	if doc != nil {
		s.stopLocked(doc)
		delete(s.docs, uri)
	}
	s.mu.Unlock()
	if doc == nil || !doc.published {
		return nil
	}
	return s.sendPublish(uri, nil, nil)
}

func (s *Server) snapshot(uri string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc := s.docs[uri]; doc != nil {
		return doc.text, true
	}
	return "", false
}

func (s *Server) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		s.stopLocked(doc)
	}
}

// analyze checks text as the document at uri; cursor maps the fresh file to
// a byte offset, nil disables editor queries.
func (s *Server) analyze(uri, text string, cursor func(*source.File) uint32) (*driver.FileResult, *source.File) {
	path := uriToPath(uri)
	if path == "" {
		path = uri
	}
	s.mu.Lock()
	fs := source.NewFileSetWithBase(s.root)
	s.mu.Unlock()
	file := fs.Get(fs.AddVirtual(path, []byte(text)))
	opts := driver.FileOptions{
		MaxDiagnostics: s.opts.MaxDiagnostics,
		Globals:        s.opts.Globals,
		Cursor:         index.NoCursor,
	}
	if cursor != nil {
		opts.Cursor = cursor(file)
	}
	return driver.AnalyzeSource(s.ctx, s.opts.Decls, fs, file, opts), file
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type errorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcError        `json:"error"`
}

type notificationMessage struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(errorResponse{JSONRPC: "2.0", ID: id, Error: rpcError{Code: code, Message: message}})
}

func (s *Server) notify(method string, params any) error {
	return s.send(notificationMessage{JSONRPC: "2.0", Method: method, Params: params})
}

// send пишет одно сообщение целиком под outMu.
func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %T: %w", msg, err)
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.opts.Log, "lsp: "+format+"\n", args...)
}
