package tokenizer

//
// Token values.  The ordering matters only for the string/numeric
// classification done by the lookahead: the string-valued functions
// sit between LEFTS and CHRS
//

type Token int

const (
	ERROR Token = iota
	ENDOFINPUT
	NUMBER
	INT
	FLOAT
	STRING
	VARIABLE
	STRINGVARIABLE
	ARRAYVARIABLE
	LABEL

	LET
	PRINTLN
	PRINT
	IF
	THEN
	ELSE
	ENDIF
	FOR
	TO
	STEP
	NEXT
	WHILE
	ENDWHILE
	GOTO
	GOSUB
	RETURN
	END
	DIM
	INPUT
	SLEEP
	TIC
	TOC
	CLEAR
	STORE
	RECALL
	PWM
	PWMCONF
	AREAD
	AREADCONF
	PINMODE
	DWRITE
	DREAD
	HWE
	HEX
	DEC

	LEFTS
	RIGHTS
	MIDS
	STRS
	CHRS

	LEN
	VAL
	ASC
	INSTR
	ABS
	SQRT
	SIN
	COS
	TAN
	EXP
	LN
	POW
	FLOOR
	CEIL
	ROUND
	RAN
	UNIFORM

	MOD
	AND
	OR

	COMMA
	SEMICOLON
	PLUS
	MINUS
	ASTR
	SLASH
	LEFTPAREN
	RIGHTPAREN
	LT
	LE
	GT
	GE
	EQ
	NE
	LAND
	LOR
	LNOT
	NOT
	COLON
	EOL
)

var keywordMap = map[string]Token{
	"let":       LET,
	"println":   PRINTLN,
	"print":     PRINT,
	"if":        IF,
	"then":      THEN,
	"else":      ELSE,
	"endif":     ENDIF,
	"for":       FOR,
	"to":        TO,
	"step":      STEP,
	"next":      NEXT,
	"while":     WHILE,
	"endwhile":  ENDWHILE,
	"goto":      GOTO,
	"gosub":     GOSUB,
	"return":    RETURN,
	"end":       END,
	"dim":       DIM,
	"input":     INPUT,
	"sleep":     SLEEP,
	"tic":       TIC,
	"toc":       TOC,
	"clear":     CLEAR,
	"store":     STORE,
	"recall":    RECALL,
	"pwm":       PWM,
	"pwmconf":   PWMCONF,
	"aread":     AREAD,
	"areadconf": AREADCONF,
	"pinmode":   PINMODE,
	"dwrite":    DWRITE,
	"dread":     DREAD,
	"hwe":       HWE,
	"hex":       HEX,
	"dec":       DEC,
	"left$":     LEFTS,
	"right$":    RIGHTS,
	"mid$":      MIDS,
	"str$":      STRS,
	"chr$":      CHRS,
	"len":       LEN,
	"val":       VAL,
	"asc":       ASC,
	"instr":     INSTR,
	"abs":       ABS,
	"sqrt":      SQRT,
	"sin":       SIN,
	"cos":       COS,
	"tan":       TAN,
	"exp":       EXP,
	"ln":        LN,
	"pow":       POW,
	"floor":     FLOOR,
	"ceil":      CEIL,
	"round":     ROUND,
	"ran":       RAN,
	"uniform":   UNIFORM,
	"mod":       MOD,
	"and":       AND,
	"or":        OR,
}

var tokenNames = map[Token]string{
	ERROR:          "error",
	ENDOFINPUT:     "end of input",
	NUMBER:         "number",
	INT:            "hex number",
	FLOAT:          "float",
	STRING:         "string",
	VARIABLE:       "variable",
	STRINGVARIABLE: "string variable",
	ARRAYVARIABLE:  "array variable",
	LABEL:          "label",
	COMMA:          "','",
	SEMICOLON:      "';'",
	PLUS:           "'+'",
	MINUS:          "'-'",
	ASTR:           "'*'",
	SLASH:          "'/'",
	LEFTPAREN:      "'('",
	RIGHTPAREN:     "')'",
	LT:             "'<'",
	LE:             "'<='",
	GT:             "'>'",
	GE:             "'>='",
	EQ:             "'='",
	NE:             "'<>'",
	LAND:           "'&&'",
	LOR:            "'||'",
	LNOT:           "'!'",
	NOT:            "'~'",
	COLON:          "':'",
	EOL:            "end of line",
}

func init() {

	for name, tok := range keywordMap {
		tokenNames[tok] = name
	}
}

func (t Token) String() string {

	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "unknown"
}

//
// True for tokens that start a string-valued expression
//

func (t Token) IsString() bool {

	return t == STRING || t == STRINGVARIABLE || (t >= LEFTS && t <= CHRS)
}
