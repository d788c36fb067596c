package tokenizer

import (
	"testing"

	"ubasic/fixedpt"
)

func tokens(program string) []Token {

	t := New()
	t.Init(program)

	var toks []Token
	for !t.Finished() {
		toks = append(toks, t.Token())
		t.Next()
	}

	return toks
}

func TestLexer(t *testing.T) {

	tests := []struct {
		program string
		want    []Token
	}{
		{"let a = 2\n", []Token{LET, VARIABLE, EQ, NUMBER, EOL}},
		{"PRINT a$, b@(1)", []Token{PRINT, STRINGVARIABLE, COMMA, ARRAYVARIABLE, LEFTPAREN, NUMBER, RIGHTPAREN}},
		{":loop\ngoto loop", []Token{COLON, LABEL, EOL, GOTO, LABEL}},
		{"gosub sub1", []Token{GOSUB, LABEL}},
		{"a<=b<>c>=d!=e", []Token{VARIABLE, LE, VARIABLE, NE, VARIABLE, GE, VARIABLE, NE, VARIABLE}},
		{"a && b || !c", []Token{VARIABLE, LAND, VARIABLE, LOR, LNOT, VARIABLE}},
		{"a % b mod c", []Token{VARIABLE, MOD, VARIABLE, MOD, VARIABLE}},
		{"~a and b or c", []Token{NOT, VARIABLE, AND, VARIABLE, OR, VARIABLE}},
		{"x = left$(a$, 2)", []Token{VARIABLE, EQ, LEFTS, LEFTPAREN, STRINGVARIABLE, COMMA, NUMBER, RIGHTPAREN}},
		{"a & b", []Token{VARIABLE, ERROR, VARIABLE}},
		{"foo = 1", []Token{ERROR, EQ, NUMBER}},
		{"print \"abc", []Token{PRINT, ERROR}},
		{"pinmode(0xA5, 1, 0)", []Token{PINMODE, LEFTPAREN, INT, COMMA, NUMBER, COMMA, NUMBER, RIGHTPAREN}},
		{"println hex 10; dec 1.5", []Token{PRINTLN, HEX, NUMBER, SEMICOLON, DEC, FLOAT}},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			got := tokens(tt.program)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValues(t *testing.T) {

	tk := New()
	tk.Init("z 0xff 1.5 42 \"hi there\" c@ :done")

	if tk.Token() != VARIABLE || tk.VariableNum() != 25 {
		t.Fatalf("got %s %d", tk.Token(), tk.VariableNum())
	}

	tk.Next()
	if tk.Int() != 255 {
		t.Fatalf("got %d", tk.Int())
	}

	tk.Next()
	if tk.Float() != fixedpt.One+fixedpt.OneHalf {
		t.Fatalf("got %d", tk.Float())
	}

	tk.Next()
	if tk.Num() != 42 {
		t.Fatalf("got %d", tk.Num())
	}

	tk.Next()
	if tk.StringValue() != "hi there" {
		t.Fatalf("got %q", tk.StringValue())
	}

	tk.Next()
	if tk.Token() != ARRAYVARIABLE || tk.VariableNum() != 2 {
		t.Fatalf("got %s %d", tk.Token(), tk.VariableNum())
	}

	tk.Next()
	tk.Next()
	if tk.Token() != LABEL || tk.Label() != "done" {
		t.Fatalf("got %s %q", tk.Token(), tk.Label())
	}

	tk.Next()
	if !tk.Finished() {
		t.Fatal("expected end of input")
	}

	// Next past the end stays put
	tk.Next()
	if !tk.Finished() {
		t.Fatal("moved past end of input")
	}
}

func TestOffsets(t *testing.T) {

	program := "let a = 1\nlet b = 2\n"

	tk := New()
	tk.Init(program)

	for tk.Token() != EOL {
		tk.Next()
	}
	tk.Next()

	off := tk.SaveOffset()
	if off != 10 {
		t.Fatalf("got %d", off)
	}

	tk.JumpOffset(0)
	if tk.Token() != LET {
		t.Fatalf("got %s", tk.Token())
	}

	tk.JumpOffset(off)
	tk.Next()
	if tk.Token() != VARIABLE || tk.VariableNum() != 1 {
		t.Fatalf("got %s", tk.Token())
	}

	tk.JumpOffset(len(program) + 10)
	if !tk.Finished() {
		t.Fatal("expected end of input")
	}

	if line, col := tk.Position(off + 4); line != 2 || col != 5 {
		t.Fatalf("got %d:%d", line, col)
	}
}

func TestStringLookahead(t *testing.T) {

	tests := []struct {
		program string
		want    bool
	}{
		{"a$ = b$", true},
		{"((\"x\" + a$)", true},
		{"left$(a$, 1)", true},
		{"len(a$)", false},
		{"(a + 1)", false},
		{"+1", false},
	}

	for _, tt := range tests {
		tk := New()
		tk.Init(tt.program)
		if got := tk.StringLookahead(); got != tt.want {
			t.Fatalf("%q: got %v", tt.program, got)
		}
	}
}
