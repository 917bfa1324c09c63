package gateway

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func paramsOf(raw []byte) map[string]string {
	params, ok := decodeParams(raw)
	Expect(ok).To(BeTrue())

	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.name] = p.value
	}
	return m
}

var _ = Describe("PARAMS rewriting", func() {
	Describe("withQueryStringParam", func() {
		It("copies QUERY_STRING and keeps the other params", func() {
			raw := encodeParams([]param{
				{name: "REQUEST_URI", value: "/trips/by-county"},
				{name: "QUERY_STRING", value: "sort=county"},
			})

			m := paramsOf(withQueryStringParam(raw))
			Expect(m).To(HaveKeyWithValue("REQUEST_URI", "/trips/by-county"))
			Expect(m).To(HaveKeyWithValue("QUERY_STRING", "sort=county"))
			Expect(m).To(HaveKeyWithValue(queryStringParam, "sort=county"))
		})

		It("sets an empty query when QUERY_STRING is absent", func() {
			raw := encodeParams([]param{{name: "REQUEST_URI", value: "/trips?sort=county"}})

			m := paramsOf(withQueryStringParam(raw))
			Expect(m).To(HaveKeyWithValue(queryStringParam, ""))
		})

		It("replaces a param of the same name sent by the web server", func() {
			raw := encodeParams([]param{
				{name: queryStringParam, value: "sort=county"},
				{name: "QUERY_STRING", value: "sort=waterway"},
			})

			params, ok := decodeParams(withQueryStringParam(raw))
			Expect(ok).To(BeTrue())
			Expect(params).To(HaveLen(2))
			Expect(paramsOf(withQueryStringParam(raw))).To(HaveKeyWithValue(queryStringParam, "sort=waterway"))
		})

		It("leaves undecodable input untouched", func() {
			raw := []byte{0x80, 0x00}
			Expect(withQueryStringParam(raw)).To(Equal(raw))
		})
	})

	Describe("length encoding", func() {
		It("round-trips long names and values", func() {
			long := strings.Repeat("v", 70000)
			raw := encodeParams([]param{{name: "QUERY_STRING", value: long}, {name: "A", value: ""}})

			m := paramsOf(raw)
			Expect(m["QUERY_STRING"]).To(HaveLen(70000))
			Expect(m).To(HaveKeyWithValue("A", ""))
		})

		It("rejects truncated pairs", func() {
			_, ok := decodeParams([]byte{5, 5, 'a'})
			Expect(ok).To(BeFalse())
		})
	})

	Describe("writeParams", func() {
		It("splits long content and terminates the stream", func() {
			var buf bytes.Buffer
			writeParams(&buf, 1, 7, bytes.Repeat([]byte{'x'}, maxRecordLen+10))

			var lengths []int
			for buf.Len() > 0 {
				header := buf.Next(recordHeaderLen)
				Expect(header[1]).To(Equal(byte(typeParams)))
				Expect(binary.BigEndian.Uint16(header[2:4])).To(Equal(uint16(7)))
				n := int(binary.BigEndian.Uint16(header[4:6]))
				buf.Next(n)
				lengths = append(lengths, n)
			}
			Expect(lengths).To(Equal([]int{maxRecordLen, 10, 0}))
		})
	})

	Describe("paramsConn", func() {
		It("passes other records through and rewrites the params stream", func() {
			client, server := net.Pipe()
			defer client.Close()

			l := &oneConnListener{conn: server}
			conn, err := paramsListener{Listener: l}.Accept()
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			var in bytes.Buffer
			begin := []byte{1, 1, 0, 1, 0, 8, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}
			in.Write(begin)
			writeParams(&in, 1, 1, encodeParams([]param{{name: "QUERY_STRING", value: "sort=county"}}))
			go func() {
				defer GinkgoRecover()
				_, err := client.Write(in.Bytes())
				Expect(err).NotTo(HaveOccurred())
				client.Close()
			}()

			out, err := io.ReadAll(conn)
			Expect(err).NotTo(HaveOccurred())
			Expect(out[:len(begin)]).To(Equal(begin))

			var content []byte
			rest := out[len(begin):]
			for len(rest) > 0 {
				n := int(binary.BigEndian.Uint16(rest[4:6]))
				Expect(rest[1]).To(Equal(byte(typeParams)))
				content = append(content, rest[recordHeaderLen:recordHeaderLen+n]...)
				rest = rest[recordHeaderLen+n:]
			}
			Expect(paramsOf(content)).To(HaveKeyWithValue(queryStringParam, "sort=county"))
		})
	})
})

type oneConnListener struct {
	conn net.Conn
}

func (l *oneConnListener) Accept() (net.Conn, error) { return l.conn, nil }
func (l *oneConnListener) Close() error              { return nil }
func (l *oneConnListener) Addr() net.Addr            { return l.conn.LocalAddr() }
