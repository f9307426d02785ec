package httpspan

import (
	"strconv"
	"strings"

	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/span"
	"github.com/tlscontext/webtranscript/transcript"
)

// ParseRequest parses data as a single HTTP/1.1 request.
func ParseRequest(data []byte) (Message, error) {
	p := &parser{src: data}
	return p.parseMessage(KindRequest)
}

// ParseResponse parses data as a single HTTP/1.1 response.
func ParseResponse(data []byte) (Message, error) {
	p := &parser{src: data}
	return p.parseMessage(KindResponse)
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) mk(start, end int) span.Span {
	return span.New(p.src, uint64(start), uint64(end))
}

// readLine scans from p.pos to the next CRLF, returning the line's content
// bounds (excluding the CRLF) and advancing p.pos past it.
func (p *parser) readLine() (start, end int, err error) {
	start = p.pos
	for i := start; i+1 < len(p.src); i++ {
		if p.src[i] == '\r' && p.src[i+1] == '\n' {
			p.pos = i + 2
			return start, i, nil
		}
	}
	return 0, 0, transcript.NewUnexpectedEnd("expected CRLF-terminated line")
}

func indexByte(b []byte, from int, c byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

func (p *parser) parseMessage(kind MessageKind) (Message, error) {
	start := p.pos
	msg := Message{Kind: kind}

	lineStart, lineEnd, err := p.readLine()
	if err != nil {
		return Message{}, err
	}
	if kind == KindRequest {
		if err := p.parseRequestLine(&msg, lineStart, lineEnd); err != nil {
			return Message{}, err
		}
	} else {
		if err := p.parseStatusLine(&msg, lineStart, lineEnd); err != nil {
			return Message{}, err
		}
	}

	headers, err := p.parseHeaders()
	if err != nil {
		return Message{}, err
	}
	msg.Headers = headers

	body, trailer, err := p.parseBody(msg)
	if err != nil {
		return Message{}, err
	}
	msg.Body = body
	msg.Trailer = trailer

	msg.span = p.mk(start, p.pos)
	return msg, nil
}

func (p *parser) parseRequestLine(msg *Message, start, end int) error {
	sp1 := indexByte(p.src, start, ' ')
	if sp1 < 0 || sp1 >= end {
		return transcript.NewMalformed(start, "malformed request line: missing method separator")
	}
	sp2 := indexByte(p.src, sp1+1, ' ')
	if sp2 < 0 || sp2 >= end {
		return transcript.NewMalformed(start, "malformed request line: missing target separator")
	}
	msg.Method = p.mk(start, sp1)
	msg.Target = p.mk(sp1+1, sp2)
	msg.Version = p.mk(sp2+1, end)
	return nil
}

func (p *parser) parseStatusLine(msg *Message, start, end int) error {
	sp1 := indexByte(p.src, start, ' ')
	if sp1 < 0 || sp1 >= end {
		return transcript.NewMalformed(start, "malformed status line: missing version separator")
	}
	sp2 := indexByte(p.src, sp1+1, ' ')
	if sp2 < 0 {
		sp2 = end
	}
	msg.Version = p.mk(start, sp1)
	msg.Status = p.mk(sp1+1, sp2)
	if sp2 < end {
		msg.Reason = p.mk(sp2+1, end)
	} else {
		msg.Reason = p.mk(end, end)
	}
	return nil
}

// parseHeaders parses header lines up to and including the terminating
// empty line.
func (p *parser) parseHeaders() ([]Header, error) {
	var headers []Header
	for {
		lineStart, lineEnd, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if lineStart == lineEnd {
			return headers, nil
		}
		h, err := p.parseHeaderLine(lineStart, lineEnd)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
}

func (p *parser) parseHeaderLine(start, end int) (Header, error) {
	colon := indexByte(p.src, start, ':')
	if colon < 0 || colon >= end {
		return Header{}, transcript.NewMalformed(start, "malformed header line: missing ':'")
	}
	name := p.mk(start, colon)
	valStart := colon + 1
	for valStart < end && (p.src[valStart] == ' ' || p.src[valStart] == '\t') {
		valStart++
	}
	valEnd := end
	for valEnd > valStart && (p.src[valEnd-1] == ' ' || p.src[valEnd-1] == '\t') {
		valEnd--
	}
	return Header{
		span:  p.mk(start, end),
		Name:  name,
		Value: p.mk(valStart, valEnd),
	}, nil
}

func headerValue(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if h.NameEquals(name) {
			return h.Value.Str(), true
		}
	}
	return "", false
}

func (p *parser) parseBody(msg Message) (Body, []Header, error) {
	bodyStart := p.pos

	if te, ok := headerValue(msg.Headers, "Transfer-Encoding"); ok && strings.Contains(strings.ToLower(te), "chunked") {
		return p.parseChunkedBody(bodyStart)
	}

	if cl, ok := headerValue(msg.Headers, "Content-Length"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || n < 0 {
			// Content-Length value is unparseable (e.g. sentinel-redacted
			// digits): the exact body length can't be recovered at this
			// layer, so the remainder of the buffer is kept as an
			// unverifiable opaque body rather than guessed at.
			end := len(p.src)
			p.pos = end
			return Body{
				span:   p.mk(bodyStart, end),
				Kind:   BodyUnknown,
				Opaque: p.mk(bodyStart, end),
			}, nil, nil
		}
		end := bodyStart + n
		if end > len(p.src) {
			return Body{}, nil, transcript.NewUnexpectedEnd("body shorter than Content-Length")
		}
		p.pos = end
		body, err := p.classifyBody(bodyStart, end, msg)
		return body, nil, err
	}

	return Body{
		Kind: BodyNone,
		span: p.mk(bodyStart, bodyStart),
	}, nil, nil
}

func (p *parser) classifyBody(start, end int, msg Message) (Body, error) {
	if start == end {
		return Body{Kind: BodyNone, span: p.mk(start, end)}, nil
	}
	if msg.IsJSON() {
		v, err := jsonspan.Parse(p.src[start:end])
		if err != nil {
			// A body declared JSON by Content-Type but not parseable as JSON
			// is still committed as an opaque byte span rather than failing
			// the whole message parse; structural enforcement of the body
			// happens one layer up.
			return Body{span: p.mk(start, end), Kind: BodyUnknown, Opaque: p.mk(start, end)}, nil
		}
		return Body{span: p.mk(start, end), Kind: BodyJSON, JSON: v.Offset(uint64(start))}, nil
	}
	return Body{span: p.mk(start, end), Kind: BodyUnknown, Opaque: p.mk(start, end)}, nil
}

// parseChunkedBody decodes a Transfer-Encoding: chunked body. The returned
// Body's span covers the entire encoded region (chunk-size lines, CRLFs,
// and trailer); Opaque covers only the concatenated chunk-data bytes, built
// via span.NewDisjoint over a materialized view since chunk data is not
// contiguous in the source buffer.
func (p *parser) parseChunkedBody(start int) (Body, []Header, error) {
	var dataRanges []rangeset.Range
	var dataBytes []byte

	for {
		sizeStart, sizeEnd, err := p.readLine()
		if err != nil {
			return Body{}, nil, err
		}
		sizeText := string(p.src[sizeStart:sizeEnd])
		if i := strings.IndexByte(sizeText, ';'); i >= 0 {
			sizeText = sizeText[:i]
		}
		size, err := strconv.ParseInt(strings.TrimSpace(sizeText), 16, 64)
		if err != nil {
			return Body{}, nil, transcript.NewMalformed(sizeStart, "malformed chunk size")
		}
		if size == 0 {
			break
		}
		chunkStart := p.pos
		chunkEnd := chunkStart + int(size)
		if chunkEnd > len(p.src) {
			return Body{}, nil, transcript.NewUnexpectedEnd("chunk shorter than declared size")
		}
		dataRanges = append(dataRanges, rangeset.Range{Start: uint64(chunkStart), End: uint64(chunkEnd)})
		dataBytes = append(dataBytes, p.src[chunkStart:chunkEnd]...)
		p.pos = chunkEnd
		if _, _, err := p.readLine(); err != nil { // trailing CRLF after chunk data
			return Body{}, nil, err
		}
	}

	trailer, err := p.parseHeaders()
	if err != nil {
		return Body{}, nil, err
	}

	end := p.pos
	dataSet := rangeset.New(dataRanges...)
	opaque := span.NewDisjoint(dataBytes, dataSet)
	return Body{
		span:    p.mk(start, end),
		Kind:    BodyUnknown,
		Opaque:  opaque,
		Chunked: true,
	}, trailer, nil
}
