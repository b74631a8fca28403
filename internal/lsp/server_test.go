package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/driver"
)

func newTestServer(t *testing.T, in io.Reader) (*Server, *bytes.Buffer) {
	t.Helper()
	decls, err := driver.LoadDeclarations(context.Background(), nil, nil, 0)
	require.NoError(t, err)
	var out bytes.Buffer
	s := NewServer(in, &out, Options{Decls: decls, Debounce: time.Hour, Log: io.Discard})
	return s, &out
}

func call(t *testing.T, s *Server, id int, method string, params any) {
	t.Helper()
	msg := &rpcMessage{JSONRPC: "2.0", Method: method}
	if id > 0 {
		msg.ID = json.RawMessage(strconv.Itoa(id))
	}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		msg.Params = raw
	}
	require.NoError(t, s.handleMessage(msg))
}

// drain decodes every framed message written so far and resets out.
func drain(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(out.Bytes()))
	out.Reset()
	var msgs []rpcMessage
	for {
		payload, err := readMessage(r)
		if err == io.EOF {
			return msgs
		}
		require.NoError(t, err)
		var msg rpcMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		msgs = append(msgs, msg)
	}
}

func openDoc(t *testing.T, s *Server, uri, text string) {
	t.Helper()
	call(t, s, 0, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: "us", Version: 1, Text: text},
	})
	s.stopTimers()
}

func at(uri string, line, char int) textDocumentPositionParams {
	return textDocumentPositionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Position:     position{Line: line, Character: char},
	}
}

func testURI(t *testing.T) string {
	return pathToURI(filepath.Join(t.TempDir(), "doc.us"))
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	s, out := newTestServer(t, nil)
	call(t, s, 1, "initialize", initializeParams{RootURI: pathToURI(t.TempDir())})

	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	var res initializeResult
	require.NoError(t, json.Unmarshal(msgs[0].Result, &res))
	assert.True(t, res.Capabilities.HoverProvider)
	assert.True(t, res.Capabilities.DefinitionProvider)
	require.NotNil(t, res.Capabilities.CompletionProvider)
	assert.Equal(t, []string{"."}, res.Capabilities.CompletionProvider.TriggerCharacters)
	assert.Equal(t, "uscheck", res.ServerInfo.Name)
}

func TestPublishDiagnostics(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, "int a = 1;\nint b = zzz;\n")
	s.runDiagnostics(uri, 1)

	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "textDocument/publishDiagnostics", msgs[0].Method)
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msgs[0].Params, &params))
	assert.Equal(t, uri, params.URI)
	require.NotNil(t, params.Version)
	assert.Equal(t, 1, *params.Version)
	require.Len(t, params.Diagnostics, 1)
	got := params.Diagnostics[0]
	assert.Equal(t, "SEM3002", got.Code)
	assert.Equal(t, 1, got.Severity)
	assert.Equal(t, "Unknown Identifier.", got.Message)
	assert.Equal(t, lspRange{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 11}}, got.Range)

	call(t, s, 0, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 11}},
			Text:  "a",
		}},
	})
	s.stopTimers()

	// устаревший анализ ничего не публикует
	s.runDiagnostics(uri, 1)
	assert.Empty(t, drain(t, out))

	s.runDiagnostics(uri, 2)
	msgs = drain(t, out)
	require.Len(t, msgs, 1)
	require.NoError(t, json.Unmarshal(msgs[0].Params, &params))
	assert.Empty(t, params.Diagnostics)
}

func TestCloseClearsPublishedDiagnostics(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, "int b = zzz;\n")
	s.runDiagnostics(uri, 1)
	drain(t, out)

	call(t, s, 0, "textDocument/didClose", didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: uri}})
	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msgs[0].Params, &params))
	assert.Empty(t, params.Diagnostics)
	s.Wait()
}

const addScript = "script int Add(int x, int y)\n  return x + y;\nend_script\n"

func TestSignatureHelp(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, addScript+"int r = Add(1, 2);\n")
	call(t, s, 2, "textDocument/signatureHelp", at(uri, 3, 15))

	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	var help signatureHelp
	require.NoError(t, json.Unmarshal(msgs[0].Result, &help))
	require.Len(t, help.Signatures, 1)
	assert.Equal(t, "int Add(int, int)", help.Signatures[0].Label)
	assert.Len(t, help.Signatures[0].Parameters, 2)
	assert.Equal(t, 1, help.ActiveParameter)
}

func TestCompletionAfterDot(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, "string s = \"x\";\nint n = s.Len")
	call(t, s, 3, "textDocument/completion", at(uri, 1, 13))

	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	var list completionList
	require.NoError(t, json.Unmarshal(msgs[0].Result, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Length", list.Items[0].Label)
	assert.Equal(t, itemKindMethod, list.Items[0].Kind)
}

func TestHoverAndDefinition(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, "int total = 1;\nint more = total + 1;\n")

	call(t, s, 4, "textDocument/hover", at(uri, 1, 12))
	call(t, s, 5, "textDocument/definition", at(uri, 1, 12))
	msgs := drain(t, out)
	require.Len(t, msgs, 2)

	var h hover
	require.NoError(t, json.Unmarshal(msgs[0].Result, &h))
	assert.Contains(t, h.Contents.Value, "auto int total")
	require.NotNil(t, h.Range)
	assert.Equal(t, position{Line: 1, Character: 11}, h.Range.Start)

	var locs []location
	require.NoError(t, json.Unmarshal(msgs[1].Result, &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, uri, locs[0].URI)
	assert.Equal(t, lspRange{Start: position{Line: 0, Character: 4}, End: position{Line: 0, Character: 9}}, locs[0].Range)
}

func TestHoverMethod(t *testing.T) {
	s, out := newTestServer(t, nil)
	uri := testURI(t)
	openDoc(t, s, uri, "string s = \"abc\";\nint n = s.Length();\n")
	call(t, s, 6, "textDocument/hover", at(uri, 1, 11))

	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	var h hover
	require.NoError(t, json.Unmarshal(msgs[0].Result, &h))
	assert.Contains(t, h.Contents.Value, "int string.Length()")
}

func TestQueryOnClosedDocumentReturnsNull(t *testing.T) {
	s, out := newTestServer(t, nil)
	call(t, s, 7, "textDocument/hover", at(testURI(t), 0, 0))
	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "null", string(msgs[0].Result))
}

func TestUnknownRequest(t *testing.T) {
	s, out := newTestServer(t, nil)
	call(t, s, 8, "textDocument/rename", nil)
	msgs := drain(t, out)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, codeMethodNotFound, msgs[0].Error.Code)
}

func TestRunShutdownExit(t *testing.T) {
	var in bytes.Buffer
	for _, m := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		require.NoError(t, writeMessage(&in, []byte(m)))
	}
	s, out := newTestServer(t, &in)
	err := s.Run(context.Background())
	require.ErrorIs(t, err, ErrExit)
	assert.Len(t, drain(t, out), 2)
}

func TestRunExitWithoutShutdown(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, writeMessage(&in, []byte(`{"jsonrpc":"2.0","method":"exit"}`)))
	s, _ := newTestServer(t, &in)
	assert.ErrorIs(t, s.Run(context.Background()), ErrExitWithoutShutdown)
}
