package contig

import (
	"strings"

	"github.com/pkg/errors"

	"ca2ta/internal/record"
)

// parsePlacement reads the body of an MPS record up to and including its "}".
// ok is false when the placement is to be left out: not a read (typ other
// than R), an empty gap list, or no fragment id.
func (p *parser) parsePlacement() (mps Placement, ok bool) {
	for {
		l, more := p.r.Next()
		if !more {
			return p.finishPlacement(mps)
		}
		switch l.Kind {
		case record.Close:
			return p.finishPlacement(mps)
		case record.Open:
			p.r.Skip()
		case record.Field:
			switch l.Name {
			case "typ":
				if l.Value != "R" {
					p.r.Skip()
					return Placement{}, false
				}
				mps.Type = 'R'
			case "mid":
				mps.Mid = l.Value
			case "pos":
				left, right, good := p.position(l)
				if good {
					mps.LeftPos, mps.RightPos = left, right
				}
			case "dln":
				if n, good := p.atoi(l, l.Value); good {
					mps.GapCount = n
				}
			case "del":
				lines, _ := p.r.ReadUntilClose()
				if len(lines) == 0 {
					return Placement{}, false
				}
				if gaps, good := p.gaps(l, lines); good {
					mps.GapLengths = gaps
				}
				// ReadUntilClose consumed the closing "}"
				return p.finishPlacement(mps)
			}
		}
	}
}

func (p *parser) finishPlacement(mps Placement) (Placement, bool) {
	if mps.Type != 'R' {
		p.sink.Structural(p.r.Source(), p.r.Line(), "typ", errors.New("placement without type"))
		return Placement{}, false
	}
	if mps.Mid == "" {
		p.sink.Structural(p.r.Source(), p.r.Line(), "mid", errors.New("placement without fragment id"))
		return Placement{}, false
	}
	return mps, true
}

func (p *parser) position(l record.Line) (left, right int, ok bool) {
	parts := strings.Split(l.Value, ",")
	if len(parts) != 2 {
		p.sink.Structural(p.r.Source(), l.Num, l.Name, errors.Errorf("want left,right, got %q", l.Value))
		return 0, 0, false
	}
	if left, ok = p.atoi(l, parts[0]); !ok {
		return 0, 0, false
	}
	if right, ok = p.atoi(l, parts[1]); !ok {
		return 0, 0, false
	}
	return left, right, true
}

func (p *parser) gaps(l record.Line, lines []string) ([]int, bool) {
	fields := strings.Fields(strings.Join(lines, " "))
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, ok := p.atoi(l, f)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
