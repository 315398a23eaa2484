package chart

import (
	"fmt"
	"strings"
)

// Kind is a chart presentation style.
type Kind int

const (
	Pie Kind = iota
	Bar
	Line
	WordCloud
	Radar
)

// Kinds lists every chart kind in selector order.
var Kinds = []Kind{Pie, Bar, Line, WordCloud, Radar}

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Pie:
		return "pie"
	case Bar:
		return "bar"
	case Line:
		return "line"
	case WordCloud:
		return "word-cloud"
	case Radar:
		return "radar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the Chinese selector label of the kind.
func (k Kind) Label() string {
	switch k {
	case Pie:
		return "饼状图"
	case Bar:
		return "条形图"
	case Line:
		return "折线图"
	case WordCloud:
		return "词云图"
	case Radar:
		return "雷达图"
	default:
		return k.String()
	}
}

// DefaultTopN is how many ranked entries the kind shows when the request
// does not say.
func (k Kind) DefaultTopN() int {
	if k == WordCloud {
		return 20
	}
	return 10
}

// ParseKind accepts the English spelling (case-insensitive, "wordcloud" and
// "word_cloud" included) or the Chinese selector label.
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "pie", "饼状图":
		return Pie, nil
	case "bar", "条形图":
		return Bar, nil
	case "line", "折线图":
		return Line, nil
	case "word-cloud", "wordcloud", "word_cloud", "词云图":
		return WordCloud, nil
	case "radar", "雷达图":
		return Radar, nil
	}
	return 0, fmt.Errorf("unknown chart kind %q (want one of pie, bar, line, word-cloud, radar)", s)
}

// Set implements pflag.Value so a Kind can be bound to a flag.
func (k *Kind) Set(s string) error {
	v, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string { return "kind" }
