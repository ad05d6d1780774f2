package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

const minTypoLength = 5

type candidate struct {
	name  string
	order int
	score float64
}

// Resolve maps a free-form value onto the canonical option name of the group.
// Empty input resolves to the group default. Values that match nothing are
// returned trimmed with ok=false; the form accepts custom text there.
func (c *Catalog) Resolve(kind Kind, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return c.Default(kind), true
	}
	if kind == KindAspectRatio {
		ratio, err := c.ResolveAspectRatio(value)
		if err != nil {
			return value, false
		}
		return ratio, true
	}

	in := strings.ToLower(value)
	opts := c.Options(kind)

	for _, opt := range opts {
		if in == strings.ToLower(opt.Key) || in == strings.ToLower(opt.Name) {
			return opt.Name, true
		}
	}

	var cands []candidate
	for i, opt := range opts {
		best := 0.0
		for _, alias := range aliases(opt) {
			var score float64
			switch {
			case alias == in:
				score = 0.95
			case strings.HasPrefix(alias, in) && len(in) >= 3:
				score = 0.9
			default:
				dist, ok := typoDistance(in, alias)
				if !ok {
					continue
				}
				score = 0.72 - (0.08 * float64(dist))
			}
			if score > best {
				best = score
			}
		}
		if best > 0 {
			cands = append(cands, candidate{name: opt.Name, order: i, score: best})
		}
	}

	if len(cands) == 0 {
		return value, false
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score == cands[j].score {
			return cands[i].order < cands[j].order
		}
		return cands[i].score > cands[j].score
	})
	return cands[0].name, true
}

// ResolveAspectRatio accepts "16:9", "16x9" or "16/9" and only returns ratios
// listed in the catalog. Ratios are never fuzzy matched: 4:3 and 4:5 are one
// edit apart.
func (c *Catalog) ResolveAspectRatio(value string) (string, error) {
	ratio := normalizeAspectRatio(value)
	if ratio == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, value)
	}
	for _, opt := range c.AspectRatios {
		if opt.Name == ratio || opt.Key == ratio {
			return opt.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, value)
}

// aliases yields the lower-cased key, name and name segments of an option,
// e.g. "neon / cyberpunk" also answers to "neon" and "cyberpunk".
func aliases(opt NamedOption) []string {
	name := strings.ToLower(opt.Name)
	out := []string{strings.ToLower(opt.Key), strings.ReplaceAll(strings.ToLower(opt.Key), "_", " "), name}
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == '(' || r == ')' || r == '+' || r == '&'
	})
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" && seg != name {
			out = append(out, seg)
		}
	}
	return out
}

// typoDistance accepts in as a misspelling of alias only when both start with
// the same letter and differ in length by at most one, so distinct words such
// as "Hinglish" or "Mad" are not pulled onto a neighbouring option.
func typoDistance(in, alias string) (int, bool) {
	if len(in) < minTypoLength || in[0] != alias[0] {
		return 0, false
	}
	if diff := len(in) - len(alias); diff > 1 || diff < -1 {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(in, alias)
	if dist > levenshteinLimit(len(alias)) {
		return 0, false
	}
	return dist, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalizeAspectRatio(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.NewReplacer("x", ":", "/", ":").Replace(value)
	if value == "" {
		return ""
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", a, b)
}
