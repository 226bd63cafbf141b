package codegen

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapjs/internal/compiler"
)

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// BuildSourceMap encodes mappings, naming sources in order of first use and
// embedding the content registered for them.
func BuildSourceMap(file string, mappings []Mapping, sources *compiler.Sources) ([]byte, error) {
	sm := SourceMap{
		Version: 3,
		File:    file,
		Sources: []string{},
		Names:   []string{},
	}

	index := map[string]int{}
	var sb strings.Builder
	var prevGenLine, prevGenCol, prevSource, prevOrigLine, prevOrigCol int

	for i, m := range mappings {
		srcIdx, ok := index[m.Source]
		if !ok {
			srcIdx = len(sm.Sources)
			index[m.Source] = srcIdx
			sm.Sources = append(sm.Sources, m.Source)
			if sources != nil {
				if content, found := sources.Content(m.Source); found {
					sm.SourcesContent = append(sm.SourcesContent, &content)
				} else {
					sm.SourcesContent = append(sm.SourcesContent, nil)
				}
			}
		}

		if m.GeneratedLine != prevGenLine {
			for ; prevGenLine < m.GeneratedLine; prevGenLine++ {
				sb.WriteByte(';')
			}
			prevGenCol = 0
		} else if i > 0 {
			sb.WriteByte(',')
		}

		writeVLQ(&sb, m.GeneratedColumn-prevGenCol)
		writeVLQ(&sb, srcIdx-prevSource)
		writeVLQ(&sb, m.OriginalLine-prevOrigLine)
		writeVLQ(&sb, m.OriginalColumn-prevOrigCol)

		prevGenCol = m.GeneratedColumn
		prevSource = srcIdx
		prevOrigLine = m.OriginalLine
		prevOrigCol = m.OriginalColumn
	}

	// Drop sourcesContent when nothing was registered
	if !hasContent(sm.SourcesContent) {
		sm.SourcesContent = nil
	}

	sm.Mappings = sb.String()
	return json.Marshal(sm)
}

func hasContent(contents []*string) bool {
	for _, c := range contents {
		if c != nil {
			return true
		}
	}
	return false
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends the base64 VLQ encoding of v.
func writeVLQ(sb *strings.Builder, v int) {
	var vlq int
	if v < 0 {
		vlq = (-v << 1) | 1
	} else {
		vlq = v << 1
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		sb.WriteByte(base64Digits[digit])
		if vlq == 0 {
			break
		}
	}
}

// DecodeSourceMap parses a version 3 source map and returns its mappings in
// generated order. Segments without a source are skipped.
func DecodeSourceMap(data []byte) ([]Mapping, error) {
	var sm SourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}

	var mappings []Mapping
	var source, origLine, origCol int
	for genLine, line := range strings.Split(sm.Mappings, ";") {
		genCol := 0
		for _, segment := range strings.Split(line, ",") {
			if segment == "" {
				continue
			}
			fields, err := readVLQs(segment)
			if err != nil {
				return nil, fmt.Errorf("invalid mappings on line %d: %w", genLine, err)
			}
			genCol += fields[0]
			if len(fields) < 4 {
				continue
			}
			source += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			if source < 0 || source >= len(sm.Sources) {
				return nil, fmt.Errorf("invalid mappings on line %d: source index %d out of range", genLine, source)
			}
			mappings = append(mappings, Mapping{
				GeneratedLine:   genLine,
				GeneratedColumn: genCol,
				Source:          sm.Sources[source],
				OriginalLine:    origLine,
				OriginalColumn:  origCol,
			})
		}
	}
	return mappings, nil
}

var errTruncatedVLQ = errors.New("truncated VLQ")

// readVLQs decodes every base64 VLQ value in segment.
func readVLQs(segment string) ([]int, error) {
	var values []int
	shift, vlq := 0, 0
	for i := 0; i < len(segment); i++ {
		digit := strings.IndexByte(base64Digits, segment[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid base64 digit %q", segment[i])
		}
		vlq |= (digit & 31) << shift
		if digit&32 != 0 {
			shift += 5
			continue
		}
		v := vlq >> 1
		if vlq&1 != 0 {
			v = -v
		}
		values = append(values, v)
		shift, vlq = 0, 0
	}
	if shift != 0 {
		return nil, errTruncatedVLQ
	}
	return values, nil
}

// InlineSourceMapComment returns a sourceMappingURL comment embedding the
// map as a data URL.
func InlineSourceMapComment(sourceMap []byte) string {
	return "//# sourceMappingURL=data:application/json;charset=utf-8;base64," +
		base64.StdEncoding.EncodeToString(sourceMap)
}

// SourceMapURLComment returns a sourceMappingURL comment pointing at a file.
func SourceMapURLComment(mapFile string) string {
	return "//# sourceMappingURL=" + mapFile
}
