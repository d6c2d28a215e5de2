package adapter

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/flowforge/flowforge/model"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const INTEGRATION_FORMATTER = "formatter"

// formatterAdapter performs pure, in-process transforms. It never does
// I/O, so Execute ignores its context.
type formatterAdapter struct{}

func NewFormatterAdapter() Adapter {
	return &formatterAdapter{}
}

func (f *formatterAdapter) Name() string {
	return INTEGRATION_FORMATTER
}

func (f *formatterAdapter) Validate(action string, config map[string]any) error {
	switch action {
	case "uppercase", "lowercase", "capitalize", "trim":
		return nil
	case "split":
		_, err := requireString(config, "delimiter")
		return err
	case "replace":
		_, err := requireString(config, "find")
		return err
	case "extract":
		pattern, err := requireString(config, "pattern")
		if err != nil {
			return err
		}
		_, err = compileExtractPattern(pattern, optionalString(config, "flags"))
		return err
	case "format_number":
		if _, ok := toFloat(config["value"]); !ok {
			return fmt.Errorf("config field %q must be a number", "value")
		}
		return nil
	case "format_date":
		return nil
	}
	return fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_FORMATTER)
}

func (f *formatterAdapter) Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	input := optionalString(config, "input")
	switch action {
	case "uppercase":
		return result(strings.ToUpper(input)), nil
	case "lowercase":
		return result(strings.ToLower(input)), nil
	case "capitalize":
		return result(capitalize(input)), nil
	case "trim":
		return result(strings.TrimSpace(input)), nil
	case "split":
		parts := strings.Split(input, optionalString(config, "delimiter"))
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return map[string]any{"parts": out, "count": len(out)}, nil
	case "replace":
		// Literal substring semantics, not a pattern match.
		return result(strings.ReplaceAll(input, optionalString(config, "find"), optionalString(config, "replace"))), nil
	case "extract":
		return f.extract(input, config)
	case "format_number":
		return f.formatNumber(config)
	case "format_date":
		return f.formatDate(config)
	}
	return nil, fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_FORMATTER)
}

func (f *formatterAdapter) extract(input string, config map[string]any) (map[string]any, error) {
	re, err := compileExtractPattern(optionalString(config, "pattern"), optionalString(config, "flags"))
	if err != nil {
		return nil, err
	}
	match := re.FindStringSubmatch(input)
	if match == nil {
		return map[string]any{"matched": false, "match": ""}, nil
	}
	groups := make([]any, 0, len(match)-1)
	for _, g := range match[1:] {
		groups = append(groups, g)
	}
	return map[string]any{"matched": true, "match": match[0], "groups": groups}, nil
}

func (f *formatterAdapter) formatNumber(config map[string]any) (map[string]any, error) {
	value, _ := toFloat(config["value"])
	tag := parseLocale(optionalString(config, "locale"))
	p := message.NewPrinter(tag)

	var opts []number.Option
	if min, ok := toInt(config["minimum_fraction_digits"]); ok {
		opts = append(opts, number.MinFractionDigits(min))
	}
	if max, ok := toInt(config["maximum_fraction_digits"]); ok {
		opts = append(opts, number.MaxFractionDigits(max))
	}

	switch optionalString(config, "style") {
	case "currency":
		code := optionalString(config, "currency")
		if code == "" {
			return nil, fmt.Errorf("missing required config field %q", "currency")
		}
		unit, err := currency.ParseISO(code)
		if err != nil {
			return nil, fmt.Errorf("unknown currency code %q", code)
		}
		return result(p.Sprint(currency.Symbol(unit.Amount(value)))), nil
	case "percent":
		return result(p.Sprint(number.Percent(value, opts...))), nil
	default:
		return result(p.Sprint(number.Decimal(value, opts...))), nil
	}
}

// dateLayoutReplacer maps the custom pattern sublanguage onto Go's
// reference time. Longer tokens are listed first so YYYY wins over YY.
var dateLayoutReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

func (f *formatterAdapter) formatDate(config map[string]any) (map[string]any, error) {
	t, err := parseTimeValue(config["value"])
	if err != nil {
		return nil, err
	}
	if pattern := optionalString(config, "pattern"); pattern != "" {
		return result(t.Format(dateLayoutReplacer.Replace(pattern))), nil
	}
	switch optionalString(config, "style") {
	case "time":
		return result(t.Format("15:04:05")), nil
	case "iso":
		return result(t.Format(time.RFC3339)), nil
	default:
		return result(t.Format("2006-01-02")), nil
	}
}

func parseTimeValue(v any) (time.Time, error) {
	switch value := v.(type) {
	case nil:
		return time.Now().UTC(), nil
	case string:
		if value == "" || value == "now" {
			return time.Now().UTC(), nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date value %q", value)
	case float64:
		return epochToTime(int64(value)), nil
	case int:
		return epochToTime(int64(value)), nil
	case int64:
		return epochToTime(value), nil
	}
	return time.Time{}, fmt.Errorf("unsupported date value type %T", v)
}

func epochToTime(epoch int64) time.Time {
	// Values this large can only be epoch milliseconds.
	if epoch > 1e12 {
		return time.UnixMilli(epoch).UTC()
	}
	return time.Unix(epoch, 0).UTC()
}

func compileExtractPattern(pattern string, flags string) (*regexp.Regexp, error) {
	var prefix string
	for _, flag := range flags {
		switch flag {
		case 'i', 'm', 's':
			prefix += string(flag)
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", string(flag))
		}
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	return re, nil
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func result(value any) map[string]any {
	return map[string]any{"result": value}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
