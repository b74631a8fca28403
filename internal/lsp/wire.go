package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
)

var errNoContentLength = errors.New("missing Content-Length header")

// readMessage reads one "Content-Length: N" framed payload. Headers other
// than Content-Length are ignored.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, err
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errNoContentLength
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	buf := make([]byte, 0, len(payload)+32)
	buf = fmt.Appendf(buf, "Content-Length: %d\r\n\r\n", len(payload))
	_, err := w.Write(append(buf, payload...))
	return err
}

// uriToPath returns the absolute path of a file:// URI. A bare path passes
// through; other schemes give "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	var p string
	switch u.Scheme {
	case "file":
		p = u.Path
	case "":
		p = uri
		if s, err := url.PathUnescape(uri); err == nil {
			p = s
		}
	default:
		return ""
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return filepath.FromSlash(p)
	}
	return abs
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
