// Package segmenter splits a journal document into segments at four
// granularities: the whole day, top-level memories, second-level sections and
// quoted lines. It is a pure function of its input and keeps no state.
package segmenter

import (
	"strings"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// Heading and quote markers.
const (
	memoryMarker  = "# "
	sectionMarker = "## "
	quoteMarker   = ">"
)

// Segments holds the ordered output of one parse, one slice per granularity.
type Segments struct {
	Day     []domain.Segment
	Memory  []domain.Segment
	Section []domain.Segment
	Line    []domain.Segment
}

// ByGranularity returns the slice for the given granularity.
func (s Segments) ByGranularity(g domain.Granularity) []domain.Segment {
	switch g {
	case domain.GranularityDay:
		return s.Day
	case domain.GranularityMemory:
		return s.Memory
	case domain.GranularitySection:
		return s.Section
	case domain.GranularityLine:
		return s.Line
	default:
		return nil
	}
}

// Count returns the total number of segments across all granularities.
func (s Segments) Count() int {
	return len(s.Day) + len(s.Memory) + len(s.Section) + len(s.Line)
}

// Parse segments document content in a single forward, line-oriented pass.
// The input is expected to be timestamp-normalized already.
//
// A memory opens at a `# ` heading and a section at a `## ` heading. Opening
// either flushes what was open below it. Quoted lines are emitted as line
// segments immediately and also accumulate into the enclosing section and
// memory with their markers intact. When includeTitles is true, flushed
// segment text is the heading line followed by the accumulated body.
func Parse(content string, includeTitles bool) Segments {
	lines := strings.Split(content, "\n")

	var out Segments
	out.Day = parseDay(lines)

	var (
		memOpen  bool
		memTitle string
		memBody  []string

		secOpen  bool
		secTitle string
		secBody  []string
	)

	flushSection := func() {
		if !secOpen {
			return
		}
		text := strings.TrimSpace(strings.Join(secBody, "\n"))
		if text != "" {
			if includeTitles {
				text = sectionMarker + secTitle + "\n" + text
			}
			out.Section = append(out.Section, domain.Segment{
				Text:         text,
				Title:        secTitle,
				Granularity:  domain.GranularitySection,
				ParentMemory: memTitle,
			})
		}
		secOpen = false
		secTitle = ""
		secBody = nil
	}

	flushMemory := func() {
		if !memOpen {
			return
		}
		text := strings.TrimSpace(strings.Join(memBody, "\n"))
		if text != "" {
			if includeTitles {
				text = memoryMarker + memTitle + "\n" + text
			}
			out.Memory = append(out.Memory, domain.Segment{
				Text:        text,
				Title:       memTitle,
				Granularity: domain.GranularityMemory,
			})
		}
		memOpen = false
		memTitle = ""
		memBody = nil
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, memoryMarker):
			flushSection()
			flushMemory()
			memOpen = true
			memTitle = strings.TrimSpace(line[len(memoryMarker):])
			// A new memory always starts with an empty body, even when
			// content accumulated before any memory opened.
			memBody = nil

		case strings.HasPrefix(line, sectionMarker):
			flushSection()
			secOpen = true
			secTitle = strings.TrimSpace(line[len(sectionMarker):])
			if memOpen {
				// Section heading stays part of the memory body.
				memBody = append(memBody, "", line)
			}

		case strings.HasPrefix(line, quoteMarker):
			text := strings.TrimSpace(line[len(quoteMarker):])
			if text != "" {
				out.Line = append(out.Line, domain.Segment{
					Text:          text,
					Granularity:   domain.GranularityLine,
					ParentMemory:  memTitle,
					ParentSection: secTitle,
				})
			}
			// Quoted lines keep their marker in the enclosing bodies.
			if secOpen {
				secBody = append(secBody, line)
			}
			if memOpen {
				memBody = append(memBody, line)
			}

		default:
			// Lines before any memory opens contribute only to the day
			// segment.
			if secOpen {
				secBody = append(secBody, line)
			}
			if memOpen {
				memBody = append(memBody, line)
			}
		}
	}

	flushSection()
	flushMemory()

	return out
}

// parseDay builds the whole-document segment: memory headings are dropped,
// section headings and quotes keep their content with markers stripped.
func parseDay(lines []string) []domain.Segment {
	dayLines := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, memoryMarker):
			continue
		case strings.HasPrefix(line, sectionMarker):
			dayLines = append(dayLines, strings.TrimSpace(line[len(sectionMarker):]))
		case strings.HasPrefix(line, quoteMarker):
			dayLines = append(dayLines, strings.TrimSpace(line[len(quoteMarker):]))
		default:
			dayLines = append(dayLines, line)
		}
	}

	text := strings.TrimSpace(strings.Join(dayLines, "\n"))
	if text == "" {
		return nil
	}
	return []domain.Segment{{
		Text:        text,
		Granularity: domain.GranularityDay,
	}}
}
