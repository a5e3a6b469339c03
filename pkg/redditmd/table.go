package redditmd

import (
	"strconv"
	"strings"
)

type tablePhase uint8

const (
	tableHeader tablePhase = iota
	tableDivider
	tableRows
)

type rowState uint8

const (
	rowPipe rowState = iota
	rowLeadingSpace
	rowContent
	rowEnd
	rowCompleted
)

type dividerState uint8

const (
	dividerPipe dividerState = iota
	dividerFirst
	dividerSpacer
	dividerLast
	dividerCompleted
)

type alignment uint8

const (
	alignNone alignment = iota
	alignLeft
	alignCenter
	alignRight
)

func (a alignment) attr() string {
	switch a {
	case alignLeft:
		return ` align="left"`
	case alignCenter:
		return ` align="center"`
	case alignRight:
		return ` align="right"`
	}
	return ""
}

// table is a pipe table: a header row, a divider row that sets the column
// alignment and any number of data rows. Header cells never contain links.
type table struct {
	phase   tablePhase
	row     rowState
	divider dividerState

	columns int
	column  int
	align   []alignment

	header []*inline
	rows   [][]*inline
}

func newTable() *table { return &table{} }

func (t *table) kind() kind { return kindTable }

func (t *table) canStart(c *cursor) bool {
	return countRowPipes(c.line) >= 2 && countRowPipes(c.next) >= 2 &&
		isHeaderRow(c.line) && isDividerRow(c.next)
}

func (t *table) consume(c *cursor) outcome {
	switch t.phase {
	case tableHeader:
		return t.consumeHeader(c)
	case tableDivider:
		return t.consumeDivider(c)
	}
	return t.consumeRow(c)
}

func (t *table) consumeHeader(c *cursor) outcome {
	if t.scanRow(c) {
		t.phase = tableDivider
	}
	return consumed
}

func (t *table) consumeRow(c *cursor) outcome {
	if !t.scanRow(c) {
		return consumed
	}
	if countRowPipes(c.next) < 2 {
		return ended
	}
	t.column = 0
	t.row = rowPipe
	t.rows = append(t.rows, nil)
	return consumed
}

// cells returns the cell list of the row being scanned.
func (t *table) cells() *[]*inline {
	if t.phase == tableHeader {
		return &t.header
	}
	return &t.rows[len(t.rows)-1]
}

func (t *table) openCell() {
	cells := t.cells()
	*cells = append(*cells, newInline(t.phase != tableHeader, 0))
}

func (t *table) closeCell() {
	if t.phase == tableHeader {
		t.columns++
		return
	}
	t.column++
}

func (t *table) feedCell(c *cursor) {
	cells := *t.cells()
	if t.phase == tableHeader {
		cells[len(cells)-1].consume(c)
		return
	}
	if t.column < len(cells) {
		cells[t.column].consume(c)
	}
}

// scanRow advances the cell scanner shared by header and data rows. It
// reports true on the newline that ends the row.
func (t *table) scanRow(c *cursor) bool {
	switch t.row {
	case rowPipe:
		if isRowEnd(c.remaining()) {
			t.row = rowCompleted
			break
		}
		t.openCell()
		switch next := c.peek(1); {
		case next == ' ':
			t.row = rowLeadingSpace
		case next == '|':
			t.closeCell()
		case isPipeLineEnd(c.remaining()):
			t.row = rowCompleted
		default:
			t.row = rowContent
		}
	case rowLeadingSpace:
		switch c.peek(1) {
		case '|':
			t.row = rowPipe
			t.closeCell()
		case ' ':
		default:
			t.row = rowContent
		}
	case rowContent:
		c.newNode = true
		t.feedCell(c)
		if c.peek(1) == '|' && c.ch != '\\' {
			t.row = rowPipe
			t.closeCell()
		} else if closesCell(c.remaining()) {
			t.row = rowEnd
		}
	case rowEnd:
		if c.peek(1) == '|' {
			t.closeCell()
			if isSpacedPipeLineEnd(c.remaining()) {
				t.row = rowCompleted
			} else {
				t.row = rowPipe
			}
		}
	case rowCompleted:
		return c.ch == '\n'
	}
	return false
}

func (t *table) setAlign(col int, a alignment) {
	for len(t.align) <= col {
		t.align = append(t.align, alignNone)
	}
	t.align[col] = a
}

func (t *table) alignOf(col int) alignment {
	if col < len(t.align) {
		return t.align[col]
	}
	return alignNone
}

func (t *table) consumeDivider(c *cursor) outcome {
	switch t.divider {
	case dividerPipe:
		if isPipeLineEnd(c.remaining()) {
			t.divider = dividerCompleted
		} else {
			t.divider = dividerFirst
		}
	case dividerFirst:
		switch {
		case c.ch == ':':
			t.setAlign(t.column, alignLeft)
			if c.peek(2) == '|' {
				t.divider = dividerLast
			} else {
				t.divider = dividerSpacer
			}
		case c.peek(1) == '|':
			t.divider = dividerPipe
			t.column++
		case c.peek(2) == '|':
			t.divider = dividerLast
		default:
			t.divider = dividerSpacer
		}
	case dividerSpacer:
		if c.peek(2) == '|' {
			t.divider = dividerLast
		}
	case dividerLast:
		if c.ch == ':' {
			if t.alignOf(t.column) == alignLeft {
				t.setAlign(t.column, alignCenter)
			} else {
				t.setAlign(t.column, alignRight)
			}
		}
		t.divider = dividerPipe
		t.column++
	case dividerCompleted:
		if c.ch == '\n' {
			if countRowPipes(c.next) < 2 {
				return ended
			}
			t.phase = tableRows
			t.row = rowPipe
			t.column = 0
			t.rows = append(t.rows, nil)
		}
	}
	return consumed
}

func (t *table) canConsume(*cursor) bool { return false }

func (t *table) html() string {
	var b strings.Builder
	b.WriteString("<table><thead>\n<tr>\n")
	for i := 0; i < t.columns; i++ {
		b.WriteString("<th" + t.alignOf(i).attr() + ">")
		if i < len(t.header) {
			b.WriteString(t.header[i].html())
		}
		b.WriteString("</th>\n")
	}
	b.WriteString("</tr>\n</thead><tbody>\n")

	for _, row := range t.rows {
		b.WriteString("<tr>\n")
		for i := 0; i < t.columns; i++ {
			colspan := ""
			if i >= len(row) && i+1 != t.columns {
				colspan = ` colspan="` + strconv.Itoa(t.columns-i) + `"`
			}
			align := t.alignOf(i).attr()
			if colspan != "" && align != "" {
				// colspan and align are separated by two spaces.
				colspan += " "
			}
			b.WriteString("<td" + colspan + align + ">")
			if i < len(row) {
				b.WriteString(row[i].html())
			}
			b.WriteString("</td>\n")
			if colspan != "" {
				break
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
