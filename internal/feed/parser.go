package feed

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	xpp "github.com/mmcdole/goxpp"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// Sanitizer rewrites an HTML fragment. *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(s string) string
}

// Parser turns an RSS document into items. The zero value is ready to use.
type Parser struct {
	sanitizer Sanitizer
}

// ParserOption customizes a Parser.
type ParserOption func(*Parser)

// WithSanitizer runs every HTMLBody through s.
func WithSanitizer(s Sanitizer) ParserOption {
	return func(p *Parser) { p.sanitizer = s }
}

// NewParser builds a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the rss > channel > item structure of doc. A channel without
// items yields an empty, non-nil slice.
//
// doc is already decoded text, so a declared encoding is not applied again.
// Atom, JSON Feed and non-feed documents fail with ErrUnsupportedFormat and
// the detected format named in the message.
func (p *Parser) Parse(doc string) ([]Item, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, parseErr("empty document", nil)
	}
	if kind := gofeed.DetectFeedType(strings.NewReader(doc)); kind != gofeed.FeedTypeRSS {
		return nil, parseErr(feedTypeName(kind)+" document", ErrUnsupportedFormat)
	}

	pp := xpp.NewXMLPullParser(strings.NewReader(doc), false, decodedCharset)
	if err := findRoot(pp); err != nil {
		return nil, parseErr("locate root element", err)
	}
	if name := strings.ToLower(pp.Name); name != "rss" {
		return nil, parseErr(fmt.Sprintf("expected <rss> root, got <%s>", pp.Name), nil)
	}

	raw, err := parseRoot(pp)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, r := range raw {
		item := r.normalize()
		if p.sanitizer != nil {
			item.HTMLBody = p.sanitizer.Sanitize(item.HTMLBody)
		}
		item.ID = uniqueID(item.ID, seen)
		items = append(items, item)
	}
	return items, nil
}

// rawEntry holds the fields of one <item> before normalization.
type rawEntry struct {
	guid        string
	title       string
	link        string
	description textNode
}

// textNode keeps both views of an element body so CDATA content can be
// preferred over surrounding plain text.
type textNode struct {
	Inner string `xml:",innerxml"`
	Text  string `xml:",chardata"`
}

func (n textNode) body() string {
	if cdata, ok := extractCDATA(n.Inner); ok {
		return cdata
	}
	return strings.TrimSpace(n.Text)
}

func (r rawEntry) normalize() Item {
	item := Item{
		ID:       r.guid,
		Title:    r.title,
		Link:     r.link,
		HTMLBody: r.description.body(),
	}
	if item.ID == "" {
		item.ID = item.Link
	}
	if item.ID == "" {
		sum := sha256.Sum256([]byte(item.Title + "\x00" + item.HTMLBody))
		item.ID = fmt.Sprintf("%x", sum)[:16]
	}
	return item
}

func parseRoot(p *xpp.XMLPullParser) ([]rawEntry, error) {
	var (
		entries []rawEntry
		found   bool
	)
	for {
		tok, err := nextTag(p)
		if err != nil {
			return nil, parseErr("read rss element", err)
		}
		if tok == xpp.EndTag {
			break
		}
		if strings.ToLower(p.Name) != "channel" || !unprefixed(p) {
			if err := p.Skip(); err != nil {
				return nil, parseErr("skip element", err)
			}
			continue
		}
		channelEntries, err := parseChannel(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, channelEntries...)
		found = true
	}
	if !found {
		return nil, parseErr("no channel element", nil)
	}
	if entries == nil {
		entries = []rawEntry{}
	}
	return entries, nil
}

func parseChannel(p *xpp.XMLPullParser) ([]rawEntry, error) {
	entries := []rawEntry{}
	for {
		tok, err := nextTag(p)
		if err != nil {
			return nil, parseErr("read channel", err)
		}
		if tok == xpp.EndTag {
			return entries, nil
		}
		if strings.ToLower(p.Name) != "item" || !unprefixed(p) {
			if err := p.Skip(); err != nil {
				return nil, parseErr("skip element", err)
			}
			continue
		}
		entry, err := parseItem(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

func parseItem(p *xpp.XMLPullParser) (rawEntry, error) {
	var entry rawEntry
	for {
		tok, err := nextTag(p)
		if err != nil {
			return rawEntry{}, parseErr("read item", err)
		}
		if tok == xpp.EndTag {
			return entry, nil
		}
		// Namespaced children such as dc:title or content:encoded are not
		// part of the normalized item.
		if !unprefixed(p) {
			if err := p.Skip(); err != nil {
				return rawEntry{}, parseErr("skip element", err)
			}
			continue
		}

		name := strings.ToLower(p.Name)
		var node textNode
		switch name {
		case "guid", "title", "link", "description":
			if err := p.DecodeElement(&node); err != nil {
				return rawEntry{}, parseErr("decode <"+name+">", err)
			}
		default:
			if err := p.Skip(); err != nil {
				return rawEntry{}, parseErr("skip element", err)
			}
			continue
		}

		switch name {
		case "guid":
			entry.guid = strings.TrimSpace(node.Text)
		case "title":
			entry.title = strings.TrimSpace(node.Text)
		case "link":
			entry.link = strings.TrimSpace(node.Text)
		case "description":
			entry.description = node
		}
	}
}

func findRoot(p *xpp.XMLPullParser) error {
	for {
		ev, err := p.Next()
		if err != nil {
			return err
		}
		switch ev {
		case xpp.StartTag:
			return nil
		case xpp.EndDocument:
			return fmt.Errorf("document has no root element")
		}
	}
}

// nextTag advances to the next start or end tag, ignoring stray text.
func nextTag(p *xpp.XMLPullParser) (xpp.XMLEventType, error) {
	for {
		ev, err := p.Next()
		if err != nil {
			return ev, err
		}
		switch ev {
		case xpp.StartTag, xpp.EndTag:
			return ev, nil
		case xpp.EndDocument:
			return ev, fmt.Errorf("unexpected end of document")
		}
	}
}

// unprefixed reports whether the current element is in no namespace or in
// the document's default namespace.
func unprefixed(p *xpp.XMLPullParser) bool {
	if p.Space == "" {
		return true
	}
	prefix, ok := p.Spaces[p.Space]
	return ok && prefix == ""
}

// extractCDATA concatenates every CDATA section found in raw inner XML.
func extractCDATA(inner string) (string, bool) {
	var (
		b     strings.Builder
		found bool
	)
	rest := inner
	for {
		start := strings.Index(rest, cdataOpen)
		if start < 0 {
			break
		}
		rest = rest[start+len(cdataOpen):]
		end := strings.Index(rest, cdataClose)
		if end < 0 {
			break
		}
		b.WriteString(rest[:end])
		rest = rest[end+len(cdataClose):]
		found = true
	}
	return b.String(), found
}

func uniqueID(id string, seen map[string]int) string {
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	candidate := fmt.Sprintf("%s#%d", id, n+1)
	for seen[candidate] > 0 {
		n++
		candidate = fmt.Sprintf("%s#%d", id, n+1)
	}
	seen[candidate] = 1
	return candidate
}

// decodedCharset accepts any declared encoding without transcoding.
func decodedCharset(_ string, r io.Reader) (io.Reader, error) {
	return r, nil
}

func feedTypeName(kind gofeed.FeedType) string {
	switch kind {
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	case gofeed.FeedTypeRSS:
		return "rss"
	default:
		return "unknown"
	}
}
