// Package blame parses git blame --porcelain output.
package blame

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.BlameParser = (*Parser)(nil)

// headerRE matches "<40-hex> <orig-line> <final-line> [<group-size>]".
var headerRE = regexp.MustCompile(`^([a-f0-9]{40})\s+\d+\s+(\d+)`)

// ShortHashLen is the number of hash characters kept in a BlameLine.
const ShortHashLen = 8

// TimeLayout is the ISO-8601 layout of BlameLine.AuthorTime.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Parser parses porcelain blame output. It is safe for concurrent use.
type Parser struct{}

// NewParser creates a new porcelain blame parser.
func NewParser() *Parser {
	return &Parser{}
}

// commit holds the metadata porcelain output prints once per commit.
type commit struct {
	author     string
	authorTime string
}

// Parse returns one BlameLine per tab-prefixed content line, in input order.
//
// Porcelain output prints a commit's metadata only the first time the commit
// appears, so metadata is remembered per hash and restored when a later
// header names the same commit again.
func (p *Parser) Parse(text string) []hunkstage.BlameLine {
	var (
		lines   = []hunkstage.BlameLine{}
		commits = make(map[string]*commit)
		hash    string
		current = &commit{}
		lineNum int
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "\t") {
			lines = append(lines, hunkstage.BlameLine{
				Hash:       shortHash(hash),
				Author:     current.author,
				AuthorTime: current.authorTime,
				LineNumber: lineNum,
				Content:    line[1:],
			})
			continue
		}

		// Content keeps its carriage return; headers and metadata do not.
		line = strings.TrimSuffix(line, "\r")
		if m := headerRE.FindStringSubmatch(line); m != nil {
			hash = m[1]
			lineNum, _ = strconv.Atoi(m[2])
			c, ok := commits[hash]
			if !ok {
				c = &commit{}
				commits[hash] = c
			}
			current = c
			continue
		}

		switch {
		case strings.HasPrefix(line, "author-time "):
			current.authorTime = FormatTime(strings.TrimPrefix(line, "author-time "))
		case strings.HasPrefix(line, "author "):
			current.author = strings.TrimPrefix(line, "author ")
		}
	}

	return lines
}

// FormatTime converts epoch seconds to the AuthorTime layout. Unparseable
// input yields an empty string.
func FormatTime(epoch string) string {
	sec, err := strconv.ParseInt(strings.TrimSpace(epoch), 10, 64)
	if err != nil {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(TimeLayout)
}

// FilterRange keeps the lines whose final line number lies in [start, end].
// A zero end means no upper bound.
func FilterRange(lines []hunkstage.BlameLine, start, end int) []hunkstage.BlameLine {
	out := []hunkstage.BlameLine{}
	for _, l := range lines {
		if l.LineNumber < start || (end > 0 && l.LineNumber > end) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func shortHash(hash string) string {
	if len(hash) > ShortHashLen {
		return hash[:ShortHashLen]
	}
	return hash
}
