package gateway

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"net/http"
	"net/http/fcgi"
)

// net/http/fcgi builds r.URL from REQUEST_URI when the web server sends it and
// drops QUERY_STRING from the request environment. Incoming PARAMS streams are
// rewritten to carry a copy of QUERY_STRING under queryStringParam, which
// fcgi.ProcessEnv does expose.
const queryStringParam = "GATEWAY_QUERY_STRING"

const (
	recordHeaderLen = 8
	maxRecordLen    = 65535
	typeParams      = 4
)

type param struct {
	name  string
	value string
}

type paramsListener struct {
	net.Listener
}

func (l paramsListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &paramsConn{
		Conn:    conn,
		r:       bufio.NewReader(conn),
		pending: make(map[uint16][]byte),
	}, nil
}

// paramsConn passes records through unchanged except PARAMS, which are
// buffered per request until the empty terminator and then re-emitted with
// queryStringParam set.
type paramsConn struct {
	net.Conn
	r       *bufio.Reader
	out     bytes.Buffer
	pending map[uint16][]byte
}

func (c *paramsConn) Read(p []byte) (int, error) {
	for c.out.Len() == 0 {
		if err := c.readRecord(); err != nil {
			return 0, err
		}
	}
	return c.out.Read(p)
}

func (c *paramsConn) readRecord() error {
	var header [recordHeaderLen]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		return err
	}
	contentLen := int(binary.BigEndian.Uint16(header[4:6]))
	body := make([]byte, contentLen+int(header[6]))
	if _, err := io.ReadFull(c.r, body); err != nil {
		return err
	}

	if header[1] != typeParams {
		c.out.Write(header[:])
		c.out.Write(body)
		return nil
	}

	reqID := binary.BigEndian.Uint16(header[2:4])
	if contentLen > 0 {
		c.pending[reqID] = append(c.pending[reqID], body[:contentLen]...)
		return nil
	}

	raw := c.pending[reqID]
	delete(c.pending, reqID)
	writeParams(&c.out, header[0], reqID, withQueryStringParam(raw))
	return nil
}

// withQueryStringParam returns the encoded params with queryStringParam set to
// QUERY_STRING, or to "" when QUERY_STRING is absent. Undecodable input is
// returned as is.
func withQueryStringParam(raw []byte) []byte {
	params, ok := decodeParams(raw)
	if !ok {
		return raw
	}

	var query string
	kept := params[:0]
	for _, p := range params {
		switch p.name {
		case queryStringParam:
			continue
		case "QUERY_STRING":
			query = p.value
		}
		kept = append(kept, p)
	}
	kept = append(kept, param{name: queryStringParam, value: query})

	return encodeParams(kept)
}

func writeParams(w *bytes.Buffer, version byte, reqID uint16, content []byte) {
	for {
		n := min(len(content), maxRecordLen)

		var header [recordHeaderLen]byte
		header[0] = version
		header[1] = typeParams
		binary.BigEndian.PutUint16(header[2:4], reqID)
		binary.BigEndian.PutUint16(header[4:6], uint16(n))
		w.Write(header[:])
		w.Write(content[:n])

		// the empty record terminates the stream
		if n == 0 {
			return
		}
		content = content[n:]
	}
}

func decodeParams(b []byte) ([]param, bool) {
	var params []param
	for len(b) > 0 {
		nameLen, rest, ok := readLength(b)
		if !ok {
			return nil, false
		}
		valueLen, rest, ok := readLength(rest)
		if !ok || len(rest) < nameLen+valueLen {
			return nil, false
		}
		params = append(params, param{
			name:  string(rest[:nameLen]),
			value: string(rest[nameLen : nameLen+valueLen]),
		})
		b = rest[nameLen+valueLen:]
	}
	return params, true
}

func readLength(b []byte) (int, []byte, bool) {
	if len(b) == 0 {
		return 0, nil, false
	}
	if b[0]>>7 == 0 {
		return int(b[0]), b[1:], true
	}
	if len(b) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(b) &^ (1 << 31)), b[4:], true
}

func encodeParams(params []param) []byte {
	var buf bytes.Buffer
	for _, p := range params {
		writeLength(&buf, len(p.name))
		writeLength(&buf, len(p.value))
		buf.WriteString(p.name)
		buf.WriteString(p.value)
	}
	return buf.Bytes()
}

func writeLength(buf *bytes.Buffer, n int) {
	if n < 128 {
		buf.WriteByte(byte(n))
		return
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n)|1<<31)
	buf.Write(b[:])
}

// withQueryString makes r.URL.RawQuery the QUERY_STRING the web server sent,
// regardless of REQUEST_URI.
func withQueryString(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if query, ok := fcgi.ProcessEnv(r)[queryStringParam]; ok {
			u := *r.URL
			u.RawQuery = query
			r = r.WithContext(r.Context())
			r.URL = &u
		}
		next.ServeHTTP(w, r)
	})
}
