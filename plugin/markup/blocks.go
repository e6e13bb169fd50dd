package markup

import "strings"

type listKind int

const (
	outsideList listKind = iota
	bulletList
	numberedList
)

// blockState is the reconstruction state machine. It is either outside a
// list or inside a list of one kind; the emitted lines travel with it.
type blockState struct {
	lines  []string
	open   listKind
	legacy bool
}

// reconstruct groups list items into containers and wraps plain lines in
// paragraphs. Blank lines contribute nothing but end the current list.
func (f *Formatter) reconstruct(lines []string) []string {
	st := blockState{
		lines:  make([]string, 0, len(lines)+2),
		legacy: f.legacyListClose,
	}
	for _, line := range lines {
		st = st.step(strings.TrimSpace(line))
	}
	return st.closeList().lines
}

func (st blockState) step(line string) blockState {
	switch {
	case line == "":
		return st.closeList()
	case strings.HasPrefix(line, "<li"):
		kind := st.itemKind(line)
		if st.open != outsideList && st.open != kind && !st.legacy {
			st = st.closeList()
		}
		if st.open == outsideList {
			st = st.openList(kind)
		}
		st.lines = append(st.lines, line)
		return st
	case isHeading(line):
		st = st.closeList()
		st.lines = append(st.lines, line)
		return st
	default:
		st = st.closeList()
		if line[0] == '<' {
			st.lines = append(st.lines, line)
		} else {
			st.lines = append(st.lines, openParagraph+line+closeParagraph)
		}
		return st
	}
}

func (st blockState) openList(kind listKind) blockState {
	if kind == numberedList {
		st.lines = append(st.lines, openOrdered)
	} else {
		st.lines = append(st.lines, openUnordered)
	}
	st.open = kind
	return st
}

func (st blockState) closeList() blockState {
	if st.open == outsideList {
		return st
	}
	if st.open == numberedList && !st.legacy {
		st.lines = append(st.lines, closeOrdered)
	} else {
		st.lines = append(st.lines, closeUnordered)
	}
	st.open = outsideList
	return st
}

// itemKind reads the kind of a rewritten item. The legacy widget looked for
// "numbered" anywhere in the line, item text included.
func (st blockState) itemKind(line string) listKind {
	marker := openItemNumbered
	if st.legacy {
		marker = "numbered"
	}
	if strings.Contains(line, marker) {
		return numberedList
	}
	return bulletList
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "<h2") || strings.HasPrefix(line, "<h3") || strings.HasPrefix(line, "<h4")
}
