package docs

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// Header is the human readable first line of every context file
const Header = "BlueJ class context"

const (
	numCommentsKey = "numComments"
	targetSuffix   = ".target"
	textSuffix     = ".text"
	paramsSuffix   = ".params"
)

func commentKey(i int, suffix string) string {
	return "comment" + strconv.Itoa(i) + suffix
}

// ToProperties converts comments into the flat context property bag
func ToProperties(comments []Comment) *properties.Properties {
	props := properties.NewProperties()
	props.DisableExpansion = true
	props.MustSet(numCommentsKey, strconv.Itoa(len(comments)))
	for i, comment := range comments {
		props.MustSet(commentKey(i, targetSuffix), comment.target)
		if comment.text != "" {
			props.MustSet(commentKey(i, textSuffix), comment.text)
		}
		if len(comment.params) > 0 {
			props.MustSet(commentKey(i, paramsSuffix), strings.Join(comment.params, " "))
		}
	}
	return props
}

// FromProperties converts a context property bag into comments.
// A missing or non-numeric count yields no entries, entries without target are skipped,
// and a repeated target keeps the first position with the last content.
func FromProperties(props *properties.Properties) []Comment {
	if props == nil {
		return nil
	}
	props.DisableExpansion = true
	value, _ := props.Get(numCommentsKey)
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count < 0 {
		count = 0
	}

	var comments []Comment
	positions := map[string]int{}
	for i := 0; i < count; i++ {
		target, ok := props.Get(commentKey(i, targetSuffix))
		if !ok {
			continue
		}
		text, _ := props.Get(commentKey(i, textSuffix))
		paramList, _ := props.Get(commentKey(i, paramsSuffix))
		comment := NewComment(target, text, strings.Fields(paramList)...)
		if pos, ok := positions[target]; ok {
			comments[pos] = comment
			continue
		}
		positions[target] = len(comments)
		comments = append(comments, comment)
	}
	return comments
}

// Decode parses context file content
func Decode(data []byte) ([]Comment, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode context: %w", err)
	}
	return FromProperties(props), nil
}

// Encode writes comments in context file format with keys sorted
func Encode(w io.Writer, comments []Comment) error {
	return encodeProperties(w, ToProperties(comments))
}

func encodeProperties(w io.Writer, props *properties.Properties) error {
	writer := bufio.NewWriter(w)
	if _, err := writer.WriteString("#" + Header + "\n"); err != nil {
		return err
	}
	keys := props.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		value, _ := props.Get(key)
		if _, err := writer.WriteString(escape(key, true) + "=" + escape(value, false) + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// escape applies Java properties escaping: spaces in keys and a leading space in values are escaped,
// non-ASCII BMP characters are written as \uXXXX, supplementary characters as UTF-8
func escape(text string, isKey bool) string {
	builder := strings.Builder{}
	for i, r := range text {
		switch r {
		case ' ':
			if i == 0 || isKey {
				builder.WriteString(`\ `)
			} else {
				builder.WriteByte(' ')
			}
		case '\\':
			builder.WriteString(`\\`)
		case '\t':
			builder.WriteString(`\t`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '=', ':', '#', '!':
			builder.WriteByte('\\')
			builder.WriteRune(r)
		default:
			if r < 0x20 || (r > 0x7e && r <= 0xffff) {
				builder.WriteString(fmt.Sprintf(`\u%04X`, r))
				continue
			}
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
