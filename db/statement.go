package db

import "strings"

// statementScanner reads SQL text just far enough to find where statements
// end: quoted text and comments are skipped, semicolons split.
type statementScanner struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func newStatementScanner(sql string) *statementScanner {
	scanner := &statementScanner{sql: sql}
	scanner.readChar()
	return scanner
}

func (scanner *statementScanner) readChar() {
	if scanner.readPosition >= len(scanner.sql) {
		scanner.ch = 0
	} else {
		scanner.ch = scanner.sql[scanner.readPosition]
	}
	scanner.position = scanner.readPosition
	scanner.readPosition++
}

func (scanner *statementScanner) peekChar() byte {
	if scanner.readPosition >= len(scanner.sql) {
		return 0
	}
	return scanner.sql[scanner.readPosition]
}

func (scanner *statementScanner) done() bool {
	return scanner.position >= len(scanner.sql)
}

// seek moves to offset and reads the character there
func (scanner *statementScanner) seek(offset int) {
	scanner.readPosition = offset
	scanner.readChar()
}

// countStatements reports how many statements query holds. Text made of
// whitespace, comments and stray semicolons counts as none.
func countStatements(query string) int {
	scanner := newStatementScanner(query)
	count := 0
	content := false

	for !scanner.done() {
		switch {
		case scanner.ch == ';':
			if content {
				count++
			}
			content = false
			scanner.readChar()
		case scanner.ch == '-' && scanner.peekChar() == '-':
			scanner.skipLineComment()
		case scanner.ch == '/' && scanner.peekChar() == '*':
			scanner.skipBlockComment()
		case scanner.ch == '\'' || scanner.ch == '"' || scanner.ch == '`':
			content = true
			scanner.skipQuoted(scanner.ch)
		case scanner.ch == '$':
			content = true
			scanner.skipDollarQuoted()
		case scanner.ch == ' ' || scanner.ch == '\t' || scanner.ch == '\n' || scanner.ch == '\r':
			scanner.readChar()
		default:
			content = true
			scanner.readChar()
		}
	}

	if content {
		count++
	}
	return count
}

func (scanner *statementScanner) skipLineComment() {
	for !scanner.done() && scanner.ch != '\n' {
		scanner.readChar()
	}
}

func (scanner *statementScanner) skipBlockComment() {
	end := strings.Index(scanner.sql[scanner.position+2:], "*/")
	if end < 0 {
		scanner.seek(len(scanner.sql))
		return
	}
	scanner.seek(scanner.position + 2 + end + 2)
}

// skipQuoted skips a quoted string or identifier; a doubled quote is an
// escaped quote
func (scanner *statementScanner) skipQuoted(quote byte) {
	scanner.readChar()
	for !scanner.done() {
		if scanner.ch == quote {
			if scanner.peekChar() == quote {
				scanner.readChar()
				scanner.readChar()
				continue
			}
			scanner.readChar()
			return
		}
		scanner.readChar()
	}
}

// skipDollarQuoted skips a $tag$...$tag$ string. A $ not opening one, such
// as a $1 parameter, is consumed as ordinary text.
func (scanner *statementScanner) skipDollarQuoted() {
	start := scanner.position
	scanner.readChar()
	if scanner.ch >= '0' && scanner.ch <= '9' {
		return
	}
	for isTagChar(scanner.ch) {
		scanner.readChar()
	}
	if scanner.ch != '$' {
		return
	}

	tag := scanner.sql[start : scanner.position+1]
	body := scanner.position + 1
	end := strings.Index(scanner.sql[body:], tag)
	if end < 0 {
		scanner.seek(len(scanner.sql))
		return
	}
	scanner.seek(body + end + len(tag))
}

func isTagChar(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ('0' <= ch && ch <= '9')
}
