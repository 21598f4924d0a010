package path

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// argument counts per command
var arity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

type token struct {
	text   string
	offset int
}

func (t token) isCommand() bool {
	c := t.text[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parser turns SVG path data into absolute segments.
type parser struct {
	tokens []token
	pos    int

	cur, start r2.Point
	// previous control points for the smooth curve shorthands
	lastCubic, lastQuad *r2.Point
	segments            []Segment
}

// Parse reads SVG path data (the d attribute) and returns absolute segments. Relative commands
// are resolved against the current point and the H, V, S, T and Z shorthands are expanded into
// lines and curves.
func Parse(d string) ([]Segment, error) {
	p := &parser{}
	for _, loc := range tokenPattern.FindAllStringIndex(d, -1) {
		p.tokens = append(p.tokens, token{text: d[loc[0]:loc[1]], offset: loc[0]})
	}
	if err := p.checkGaps(d); err != nil {
		return nil, err
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.segments, nil
}

// checkGaps rejects characters that are neither tokens nor separators.
func (p *parser) checkGaps(d string) error {
	prev := 0
	for _, t := range p.tokens {
		if gap := strings.Trim(d[prev:t.offset], " \t\r\n,"); gap != "" {
			return &CommandError{Command: gap, Offset: prev, Err: ErrMalformedPath}
		}
		prev = t.offset + len(t.text)
	}
	if gap := strings.Trim(d[prev:], " \t\r\n,"); gap != "" {
		return &CommandError{Command: gap, Offset: prev, Err: ErrMalformedPath}
	}
	return nil
}

func (p *parser) run() error {
	var cmd byte
	var cmdTok token
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if t.isCommand() {
			cmd = t.text[0]
			cmdTok = t
			p.pos++
			if _, ok := arity[upper(cmd)]; !ok {
				return &CommandError{Command: t.text, Offset: t.offset, Err: ErrUnknownCommand}
			}
		} else if cmd == 0 {
			return &CommandError{Command: t.text, Offset: t.offset, Err: errors.Wrap(ErrMalformedPath, "path must start with a command")}
		}

		args, err := p.numbers(cmdTok, arity[upper(cmd)])
		if err != nil {
			return err
		}
		next, err := p.apply(cmd, cmdTok, args)
		if err != nil {
			return err
		}
		cmd = next

		if cmd == 0 && p.pos < len(p.tokens) && !p.tokens[p.pos].isCommand() {
			t := p.tokens[p.pos]
			return &CommandError{Command: cmdTok.text, Offset: t.offset, Err: errors.Wrap(ErrMalformedPath, "numbers after closepath")}
		}
	}
	return nil
}

func (p *parser) numbers(cmdTok token, n int) ([]float64, error) {
	args := make([]float64, n)
	for i := range args {
		if p.pos >= len(p.tokens) || p.tokens[p.pos].isCommand() {
			return nil, &CommandError{
				Command: cmdTok.text,
				Offset:  cmdTok.offset,
				Err:     errors.Wrapf(ErrMalformedPath, "want %d numbers, got %d", n, i),
			}
		}
		t := p.tokens[p.pos]
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &CommandError{Command: cmdTok.text, Offset: t.offset, Err: errors.Wrap(ErrMalformedPath, err.Error())}
		}
		args[i] = v
		p.pos++
	}
	return args, nil
}

// apply emits the segment for one command and returns the command implied by further numbers.
func (p *parser) apply(cmd byte, cmdTok token, a []float64) (byte, error) {
	rel := cmd >= 'a'
	pt := func(x, y float64) r2.Point {
		if rel {
			return r2.Point{X: p.cur.X + x, Y: p.cur.Y + y}
		}
		return r2.Point{X: x, Y: y}
	}

	var seg Segment
	next := cmd
	switch upper(cmd) {
	case 'M':
		seg = Segment{Kind: KindMove, To: pt(a[0], a[1])}
		p.start = seg.To
		// implicit pairs after a move are lines
		next = 'L'
		if rel {
			next = 'l'
		}
	case 'L':
		seg = Segment{Kind: KindLine, To: pt(a[0], a[1])}
	case 'H':
		x := a[0]
		if rel {
			x += p.cur.X
		}
		seg = Segment{Kind: KindLine, To: r2.Point{X: x, Y: p.cur.Y}}
	case 'V':
		y := a[0]
		if rel {
			y += p.cur.Y
		}
		seg = Segment{Kind: KindLine, To: r2.Point{X: p.cur.X, Y: y}}
	case 'Z':
		seg = Segment{Kind: KindLine, To: p.start}
		next = 0
	case 'C':
		seg = Segment{Kind: KindCubic, C1: pt(a[0], a[1]), C2: pt(a[2], a[3]), To: pt(a[4], a[5])}
	case 'S':
		seg = Segment{Kind: KindCubic, C1: reflect(p.cur, p.lastCubic), C2: pt(a[0], a[1]), To: pt(a[2], a[3])}
	case 'Q':
		seg = Segment{Kind: KindQuadratic, C1: pt(a[0], a[1]), To: pt(a[2], a[3])}
	case 'T':
		seg = Segment{Kind: KindQuadratic, C1: reflect(p.cur, p.lastQuad), To: pt(a[0], a[1])}
	case 'A':
		if !isFlag(a[3]) || !isFlag(a[4]) {
			return 0, &CommandError{Command: cmdTok.text, Offset: cmdTok.offset, Err: errors.Wrap(ErrMalformedPath, "arc flags must be 0 or 1")}
		}
		seg = Segment{
			Kind:          KindArc,
			Radii:         r2.Point{X: a[0], Y: a[1]},
			XAxisRotation: a[2],
			LargeArc:      a[3] == 1,
			Sweep:         a[4] == 1,
			To:            pt(a[5], a[6]),
		}
	default:
		return 0, &CommandError{Command: cmdTok.text, Offset: cmdTok.offset, Err: ErrUnknownCommand}
	}

	p.lastCubic, p.lastQuad = nil, nil
	switch seg.Kind {
	case KindCubic:
		c2 := seg.C2
		p.lastCubic = &c2
	case KindQuadratic:
		c1 := seg.C1
		p.lastQuad = &c1
	case KindMove, KindLine, KindArc:
	}
	p.segments = append(p.segments, seg)
	p.cur = seg.To
	return next, nil
}

// reflect mirrors the previous control point about cur, or returns cur when there is none.
func reflect(cur r2.Point, ctrl *r2.Point) r2.Point {
	if ctrl == nil {
		return cur
	}
	return cur.Mul(2).Sub(*ctrl)
}

func isFlag(v float64) bool {
	return v == 0 || v == 1
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
