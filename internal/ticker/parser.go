package ticker

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognizedFormat is returned when a ticker matches no known spread
// pattern. Callers must treat the instrument as "not a spread" and skip it.
var ErrUnrecognizedFormat = errors.New("unrecognized ticker format")

// Kind tags one leg token.
type Kind int

const (
	Explicit       Kind = iota // Literal YYMMDD date
	ThreeMonth                 // Rolling 3-month prompt ("03")
	Cash                       // Cash/spot prompt ("00")
	ThirdWednesday             // Monthly third-Wednesday expiry (month code + year)
)

// Leg is one tagged settlement leg token.
type Leg struct {
	Kind  Kind
	Date  time.Time  // Explicit legs only
	Month time.Month // ThirdWednesday legs only
	Year  int        // ThirdWednesday legs only
}

// Token returns the leg description used in persisted records:
// an ISO date, "3M", "Cash", or a month token like "Q25".
func (l Leg) Token() string {
	switch l.Kind {
	case ThreeMonth:
		return "3M"
	case Cash:
		return "Cash"
	case ThirdWednesday:
		return fmt.Sprintf("%c%02d", codeForMonth[l.Month], l.Year%100)
	default:
		return l.Date.Format("2006-01-02")
	}
}

// LegPair is the decoded near/far leg pair of a spread ticker.
type LegPair struct {
	Leg1 Leg
	Leg2 Leg
}

// Standard futures month-code alphabet.
var monthForCode = map[byte]time.Month{
	'F': time.January, 'G': time.February, 'H': time.March,
	'J': time.April, 'K': time.May, 'M': time.June,
	'N': time.July, 'Q': time.August, 'U': time.September,
	'V': time.October, 'X': time.November, 'Z': time.December,
}

var codeForMonth = map[time.Month]byte{
	time.January: 'F', time.February: 'G', time.March: 'H',
	time.April: 'J', time.May: 'K', time.June: 'M',
	time.July: 'N', time.August: 'Q', time.September: 'U',
	time.October: 'V', time.November: 'X', time.December: 'Z',
}

// MonthCodes returns the month-code alphabet in calendar order.
func MonthCodes() []string {
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, string(codeForMonth[m]))
	}
	return out
}

// pattern couples one leg-spec regexp with its nominal label and decoder.
// Order matters: patterns are mutually exclusive but textually similar, and
// the first match wins.
type pattern struct {
	re      *regexp.Regexp
	nominal string
	decode  func(m []string) (LegPair, error)
}

var patterns = []pattern{
	{
		re:      regexp.MustCompile(` (\d{6})-(\d{6})$`),
		nominal: "Odd-Odd",
		decode: func(m []string) (LegPair, error) {
			d1, err := parseYYMMDD(m[1])
			if err != nil {
				return LegPair{}, err
			}
			d2, err := parseYYMMDD(m[2])
			if err != nil {
				return LegPair{}, err
			}
			return LegPair{explicitLeg(d1), explicitLeg(d2)}, nil
		},
	},
	{
		re:      regexp.MustCompile(` (\d{6})-03$`),
		nominal: "Odd-3M",
		decode: func(m []string) (LegPair, error) {
			d, err := parseYYMMDD(m[1])
			if err != nil {
				return LegPair{}, err
			}
			return LegPair{explicitLeg(d), Leg{Kind: ThreeMonth}}, nil
		},
	},
	{
		re:      regexp.MustCompile(` 03-(\d{6})$`),
		nominal: "3M-Odd",
		decode: func(m []string) (LegPair, error) {
			d, err := parseYYMMDD(m[1])
			if err != nil {
				return LegPair{}, err
			}
			return LegPair{Leg{Kind: ThreeMonth}, explicitLeg(d)}, nil
		},
	},
	{
		re:      regexp.MustCompile(` 00-(\d{6})$`),
		nominal: "Cash-Odd",
		decode: func(m []string) (LegPair, error) {
			d, err := parseYYMMDD(m[1])
			if err != nil {
				return LegPair{}, err
			}
			return LegPair{Leg{Kind: Cash}, explicitLeg(d)}, nil
		},
	},
	{
		re:      regexp.MustCompile(` (\d{6})-00$`),
		nominal: "Odd-Cash",
		decode: func(m []string) (LegPair, error) {
			d, err := parseYYMMDD(m[1])
			if err != nil {
				return LegPair{}, err
			}
			return LegPair{explicitLeg(d), Leg{Kind: Cash}}, nil
		},
	},
	{
		re:      regexp.MustCompile(` 03([FGHJKMNQUVXZ])(\d{2})$`),
		nominal: "3M-3W",
		decode: func(m []string) (LegPair, error) {
			return LegPair{Leg{Kind: ThreeMonth}, monthLeg(m[1], m[2])}, nil
		},
	},
	{
		re:      regexp.MustCompile(` ([FGHJKMNQUVXZ])(\d{2})([FGHJKMNQUVXZ])(\d{2})$`),
		nominal: "Calendar",
		decode: func(m []string) (LegPair, error) {
			return LegPair{monthLeg(m[1], m[2]), monthLeg(m[3], m[4])}, nil
		},
	},
	{
		re:      regexp.MustCompile(` ([FGHJKMNQUVXZ])(\d{2})03$`),
		nominal: "Month-3M",
		decode: func(m []string) (LegPair, error) {
			return LegPair{monthLeg(m[1], m[2]), Leg{Kind: ThreeMonth}}, nil
		},
	},
	{
		re:      regexp.MustCompile(` 00([FGHJKMNQUVXZ])(\d{2})$`),
		nominal: "Cash-Month",
		decode: func(m []string) (LegPair, error) {
			return LegPair{Leg{Kind: Cash}, monthLeg(m[1], m[2])}, nil
		},
	},
}

// ParseLegs decodes a raw ticker into its two tagged leg tokens.
func ParseLegs(raw string) (LegPair, error) {
	spec := normalize(raw)
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(spec); m != nil {
			return p.decode(m)
		}
	}
	return LegPair{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, raw)
}

// NominalType returns the spread label implied by the raw ticker pattern,
// or "Other" when no pattern matches. It does not validate embedded dates.
func NominalType(raw string) string {
	spec := normalize(raw)
	for _, p := range patterns {
		if p.re.MatchString(spec) {
			return p.nominal
		}
	}
	return "Other"
}

// IsSpread reports whether the ticker decodes as a calendar spread.
// Outright contracts (e.g. "LMCADS03", "LMCADY") carry no leg spec and are
// rejected along with anything else that fails to parse.
func IsSpread(raw string) bool {
	_, err := ParseLegs(raw)
	return err == nil
}

// normalize upper-cases the ticker and strips the vendor suffix so the
// leg-spec patterns anchor at the end of the string.
func normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, " COMDTY")
	s = strings.TrimSuffix(s, "<CMDTY>")
	return s
}

func explicitLeg(d time.Time) Leg {
	return Leg{Kind: Explicit, Date: d}
}

func monthLeg(code, yy string) Leg {
	y, _ := strconv.Atoi(yy)
	return Leg{
		Kind:  ThirdWednesday,
		Month: monthForCode[code[0]],
		Year:  2000 + y,
	}
}

// parseYYMMDD decodes a six-digit date as 2000+YY. The round trip through
// time.Date rejects impossible dates the regexp cannot (e.g. month 13).
func parseYYMMDD(s string) (time.Time, error) {
	yy, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[2:4])
	dd, _ := strconv.Atoi(s[4:6])

	d := time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if d.Year() != 2000+yy || d.Month() != time.Month(mm) || d.Day() != dd {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrUnrecognizedFormat, s)
	}
	return d, nil
}
