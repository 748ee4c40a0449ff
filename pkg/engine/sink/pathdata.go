package sink

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cardpress/cardpress/pkg/errors"
)

// point is a resolved absolute coordinate in the icon's viewBox space.
type point struct{ X, Y float64 }

// pathSeg is one absolute drawing operation decoded from SVG path data.
type pathSeg struct {
	Op  byte // 'M', 'L', 'C', 'Z'
	Pts [3]point
}

// parsePathData decodes the subset of SVG path syntax the icon registry
// uses: M, L, H, V, C, S and Z in absolute and relative form. Smooth
// curves (S/s) are lowered to cubics by reflecting the previous control
// point, so consumers only see MoveTo, LineTo, CubicTo and Close.
func parsePathData(d string) ([]pathSeg, error) {
	var (
		segs  []pathSeg
		pen   point
		start point
		ctrl2 point
		cmd   byte
	)

	s := strings.TrimSpace(d)
	for len(s) > 0 {
		s = strings.TrimLeft(s, " ,\t\n")
		if len(s) == 0 {
			break
		}
		if c := s[0]; unicode.IsLetter(rune(c)) {
			cmd = c
			s = s[1:]
			if cmd == 'Z' || cmd == 'z' {
				segs = append(segs, pathSeg{Op: 'Z'})
				pen, ctrl2 = start, start
				cmd = 0
				continue
			}
			continue
		}
		if cmd == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "path data starts with coordinates: %q", d)
		}

		rel := unicode.IsLower(rune(cmd))
		lower := byte(unicode.ToLower(rune(cmd)))

		n := argCount(lower)
		args := make([]float64, 0, n)
		for len(args) < n {
			s = strings.TrimLeft(s, " ,\t\n")
			adv, v, ok := scanFloat(s)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "bad number in path data %q", d)
			}
			s = s[adv:]
			args = append(args, v)
		}

		switch lower {
		case 'm', 'l':
			p := point{args[0], args[1]}
			if rel {
				p.X += pen.X
				p.Y += pen.Y
			}
			op := byte('L')
			if lower == 'm' {
				op = 'M'
				start = p
				// Subsequent coordinate pairs of a moveto are linetos.
				if rel {
					cmd = 'l'
				} else {
					cmd = 'L'
				}
			}
			segs = append(segs, pathSeg{Op: op, Pts: [3]point{p}})
			pen, ctrl2 = p, p
		case 'h':
			p := point{args[0], pen.Y}
			if rel {
				p.X += pen.X
			}
			segs = append(segs, pathSeg{Op: 'L', Pts: [3]point{p}})
			pen, ctrl2 = p, p
		case 'v':
			p := point{pen.X, args[0]}
			if rel {
				p.Y += pen.Y
			}
			segs = append(segs, pathSeg{Op: 'L', Pts: [3]point{p}})
			pen, ctrl2 = p, p
		case 'c':
			p1 := point{args[0], args[1]}
			p2 := point{args[2], args[3]}
			p3 := point{args[4], args[5]}
			if rel {
				p1.X += pen.X
				p1.Y += pen.Y
				p2.X += pen.X
				p2.Y += pen.Y
				p3.X += pen.X
				p3.Y += pen.Y
			}
			segs = append(segs, pathSeg{Op: 'C', Pts: [3]point{p1, p2, p3}})
			pen, ctrl2 = p3, p2
		case 's':
			p2 := point{args[0], args[1]}
			p3 := point{args[2], args[3]}
			if rel {
				p2.X += pen.X
				p2.Y += pen.Y
				p3.X += pen.X
				p3.Y += pen.Y
			}
			p1 := point{2*pen.X - ctrl2.X, 2*pen.Y - ctrl2.Y}
			segs = append(segs, pathSeg{Op: 'C', Pts: [3]point{p1, p2, p3}})
			pen, ctrl2 = p3, p2
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported path command %q", string(cmd))
		}
	}
	return segs, nil
}

func argCount(lower byte) int {
	switch lower {
	case 'h', 'v':
		return 1
	case 'm', 'l':
		return 2
	case 's':
		return 4
	case 'c':
		return 6
	}
	return 0
}

// scanFloat reads one leading float from s, returning the number of bytes
// consumed. It accepts the compact SVG form where a second number starts
// with '.' or '-' immediately after the first ("5.6l.4" or "7-12").
func scanFloat(s string) (adv int, v float64, ok bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	dot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if i == 0 || (i == 1 && (s[0] == '-' || s[0] == '+')) {
		return 0, 0, false
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, 0, false
	}
	return i, f, true
}
