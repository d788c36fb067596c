package tokenizer

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"ubasic/fixedpt"
)

//
// The whole program is lexed once by Init into a slice of lexemes,
// each remembering the byte offset it started at.  Offsets are what
// the interpreter saves for loop and subroutine re-entry, so a jump
// is a binary search over the slice rather than a re-scan
//

type lexeme struct {
	token  Token
	offset int
	text   string
	value  int32
}

type Tokenizer struct {
	program string
	lexemes []lexeme
	pos     int
}

func New() *Tokenizer {

	t := &Tokenizer{}

	t.Init("")

	return t
}

func (t *Tokenizer) Init(program string) {

	t.program = program
	t.lexemes = t.lexemes[:0]
	t.pos = 0

	var s scanner.Scanner

	s.Init(strings.NewReader(program))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.Whitespace = 1<<'\t' | 1<<'\r' | 1<<' '
	s.IsIdentRune = basicIdent
	s.Error = dummyScannerError

	prev := EOL

	for {
		l, eof := getLexeme(&s, prev)
		if eof {
			break
		}

		t.lexemes = append(t.lexemes, l)
		prev = l.token
	}

	t.lexemes = append(t.lexemes, lexeme{token: ENDOFINPUT, offset: len(program)})
}

func (t *Tokenizer) current() *lexeme {

	return &t.lexemes[t.pos]
}

func (t *Tokenizer) Token() Token {

	return t.current().token
}

func (t *Tokenizer) Next() {

	if t.pos < len(t.lexemes)-1 {
		t.pos++
	}
}

func (t *Tokenizer) Finished() bool {

	return t.Token() == ENDOFINPUT
}

// Value of a decimal integer literal, unscaled

func (t *Tokenizer) Num() int32 {

	return t.current().value
}

// Value of a decimal literal with a point, already in 24.8

func (t *Tokenizer) Float() int32 {

	return t.current().value
}

// Value of a 0x literal, unscaled

func (t *Tokenizer) Int() int32 {

	return t.current().value
}

func (t *Tokenizer) StringValue() string {

	return t.current().text
}

func (t *Tokenizer) Label() string {

	return t.current().text
}

//
// Slot number 0..25 of the current variable token of any kind
//

func (t *Tokenizer) VariableNum() int {

	return int(t.current().value)
}

func (t *Tokenizer) SaveOffset() int {

	return t.current().offset
}

//
// Position the stream on the first lexeme starting at or after
// offset.  Offsets past the end land on ENDOFINPUT
//

func (t *Tokenizer) JumpOffset(offset int) {

	t.pos = sort.Search(len(t.lexemes), func(i int) bool {
		return t.lexemes[i].offset >= offset
	})

	if t.pos >= len(t.lexemes) {
		t.pos = len(t.lexemes) - 1
	}
}

//
// Decide whether the expression starting at the current token is a
// string expression.  Opening parentheses and '+' are skipped; the
// first other token decides
//

func (t *Tokenizer) StringLookahead() bool {

	for i := t.pos; i < len(t.lexemes); i++ {
		switch tok := t.lexemes[i].token; {
		case tok == LEFTPAREN || tok == PLUS:
			continue
		case tok.IsString():
			return true
		default:
			return false
		}
	}

	return false
}

//
// 1-based line and column of a byte offset, for error messages
//

func (t *Tokenizer) Position(offset int) (int, int) {

	if offset > len(t.program) {
		offset = len(t.program)
	}

	before := t.program[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')

	return line, col
}

func getLexeme(s *scanner.Scanner, prev Token) (lexeme, bool) {

	tok := s.Scan()
	if tok == scanner.EOF {
		return lexeme{}, true
	}

	l := lexeme{offset: s.Position.Offset}
	txt := s.TokenText()

	switch tok {
	case scanner.Ident:
		lexIdent(&l, strings.ToLower(txt), prev)

	case scanner.Int:
		if len(txt) > 2 && (txt[1] == 'x' || txt[1] == 'X') {
			n, _ := strconv.ParseUint(txt[2:], 16, 32)
			l.token = INT
			l.value = int32(uint32(n))
		} else {
			n, err := strconv.ParseInt(txt, 10, 32)
			if err != nil {
				n = math.MaxInt32
			}
			l.token = NUMBER
			l.value = int32(n)
		}

	case scanner.Float:
		f, _ := strconv.ParseFloat(txt, 64)
		l.token = FLOAT
		l.value = fixedpt.FromFloat(f)

	case '"':
		lexString(s, &l)

	case '\n':
		l.token = EOL

	case ',':
		l.token = COMMA

	case ';':
		l.token = SEMICOLON

	case '+':
		l.token = PLUS

	case '-':
		l.token = MINUS

	case '*':
		l.token = ASTR

	case '/':
		l.token = SLASH

	case '%':
		l.token = MOD

	case '(':
		l.token = LEFTPAREN

	case ')':
		l.token = RIGHTPAREN

	case '=':
		l.token = EQ

	case '~':
		l.token = NOT

	case ':':
		l.token = COLON

	case '<':
		switch s.Peek() {
		case '=':
			s.Next()
			l.token = LE
		case '>':
			s.Next()
			l.token = NE
		default:
			l.token = LT
		}

	case '>':
		if s.Peek() == '=' {
			s.Next()
			l.token = GE
		} else {
			l.token = GT
		}

	case '!':
		if s.Peek() == '=' {
			s.Next()
			l.token = NE
		} else {
			l.token = LNOT
		}

	case '&':
		if s.Peek() == '&' {
			s.Next()
			l.token = LAND
		} else {
			l.token = ERROR
		}

	case '|':
		if s.Peek() == '|' {
			s.Next()
			l.token = LOR
		} else {
			l.token = ERROR
		}

	default:
		l.token = ERROR
	}

	return l, false
}

//
// Identifiers following a ':' or a GOTO/GOSUB are labels.  Otherwise
// keywords win, then the one-letter variable forms a, a$ and a@
//

func lexIdent(l *lexeme, txt string, prev Token) {

	l.text = txt

	if prev == COLON || prev == GOTO || prev == GOSUB {
		l.token = LABEL
		return
	}

	if keyword, ok := keywordMap[txt]; ok {
		l.token = keyword
		return
	}

	l.token = ERROR

	c := txt[0]
	if c < 'a' || c > 'z' {
		return
	}

	l.value = int32(c - 'a')

	switch {
	case len(txt) == 1:
		l.token = VARIABLE
	case len(txt) == 2 && txt[1] == '$':
		l.token = STRINGVARIABLE
	case len(txt) == 2 && txt[1] == '@':
		l.token = ARRAYVARIABLE
	}
}

//
// Strings are double quoted and end at the closing quote.  A newline
// or end of input before that makes the whole thing an ERROR
//

func lexString(s *scanner.Scanner, l *lexeme) {

	var buf []byte

	for {
		rch := s.Peek()
		if rch == scanner.EOF || rch == '\n' {
			l.token = ERROR
			return
		}

		s.Next()

		if rch == '"' {
			l.token = STRING
			l.text = string(buf)
			return
		}

		buf = append(buf, string(rch)...)
	}
}

//
// This is a dummy to suppress reporting of errors by the scanner
//

func dummyScannerError(s *scanner.Scanner, msg string) {
}

//
// Ident predicate routine for text/scanner.  '$' and '@' are allowed
// after the first character so a$, a@ and left$ scan as one lexeme
//

func basicIdent(ch rune, pos int) bool {

	if pos == 0 {
		return unicode.IsLetter(ch) || ch == '_'
	}

	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' ||
		ch == '$' || ch == '@'
}
