package highlight

import (
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/dlclark/regexp2"
)

// wordClass mirrors domain.IsWordRune.
const wordClass = `[\p{L}\p{M}\p{Nd}_]`

// Engine highlights text against a configuration snapshot.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	logger       *slog.Logger
	matchTimeout time.Duration
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report skipped keywords.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMatchTimeout bounds the time spent matching a single keyword.
// Zero (the default) means no bound.
func WithMatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.matchTimeout = d
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Highlight returns the escaped, annotated markup of text using the package default Engine.
func Highlight(text string, cfg domain.Configuration) string {
	return defaultEngine.Highlight(text, cfg)
}

// Segments splits text into literal and matched segments using the package default Engine.
func Segments(text string, cfg domain.Configuration) []Segment {
	return defaultEngine.Segments(text, cfg)
}

// Highlight returns the escaped, annotated markup of text.
func (e *Engine) Highlight(text string, cfg domain.Configuration) string {
	return RenderHTML(e.Segments(text, cfg))
}

// entry is one (keyword, color, zone) triple.
type entry struct {
	keyword string
	color   string
	zone    string
	length  int
}

// flatten lists every keyword in zone declaration order, then keyword order,
// and stable-sorts them longest first. Equal lengths keep that order.
func flatten(cfg domain.Configuration) []entry {
	var entries []entry
	for _, z := range cfg.Zones {
		for _, k := range z.Keywords {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			entries = append(entries, entry{keyword: k, color: z.Color, zone: z.Name, length: utf8.RuneCountInString(k)})
		}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.length - a.length
	})
	return entries
}

func (e *Engine) compile(keyword string) (*regexp2.Regexp, error) {
	pattern := regexp2.Escape(keyword)
	if domain.IsWordLike(keyword) {
		pattern = `(?<!` + wordClass + `)` + pattern + `(?!` + wordClass + `)`
	}
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	if e.matchTimeout > 0 {
		re.MatchTimeout = e.matchTimeout
	}
	return re, nil
}

type match struct {
	start, end int
	entry      entry
}

// Segments splits text into literal and matched segments, in text order.
// Adjacent literal runes are merged into a single segment.
func (e *Engine) Segments(text string, cfg domain.Configuration) []Segment {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	// owner[i] is the index in matches of the match claiming rune i, or -1.
	owner := make([]int, len(runes))
	for i := range owner {
		owner[i] = -1
	}
	var matches []match

	for _, ent := range flatten(cfg) {
		re, err := e.compile(ent.keyword)
		if err != nil {
			e.logger.Warn("skipping keyword", "keyword", ent.keyword, "zone", ent.zone, "error", err)
			continue
		}

		pos := 0
		for pos < len(runes) {
			m, err := re.FindRunesMatchStartingAt(runes, pos)
			if err != nil {
				e.logger.Warn("keyword match aborted", "keyword", ent.keyword, "zone", ent.zone, "error", err)
				break
			}
			if m == nil {
				break
			}
			start, end := m.Index, m.Index+m.Length
			if end == start || claimed(owner, start, end) {
				pos = start + 1
				continue
			}
			for i := start; i < end; i++ {
				owner[i] = len(matches)
			}
			matches = append(matches, match{start: start, end: end, entry: ent})
			pos = end
		}
	}

	return assemble(runes, owner, matches)
}

func claimed(owner []int, start, end int) bool {
	for i := start; i < end; i++ {
		if owner[i] >= 0 {
			return true
		}
	}
	return false
}

func assemble(runes []rune, owner []int, matches []match) []Segment {
	var segments []Segment
	for i := 0; i < len(runes); {
		if id := owner[i]; id >= 0 {
			m := matches[id]
			segments = append(segments, Segment{
				Text:    string(runes[m.start:m.end]),
				Styled:  true,
				Color:   m.entry.color,
				Zone:    m.entry.zone,
				Keyword: m.entry.keyword,
			})
			i = m.end
			continue
		}
		j := i
		for j < len(runes) && owner[j] < 0 {
			j++
		}
		segments = append(segments, Segment{Text: string(runes[i:j])})
		i = j
	}
	return segments
}
