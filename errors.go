package ubasic

import (
	"errors"
	"fmt"
)

//
// Manifest constants for the interpreter's error messages.  Every
// message maps to exactly one ErrorKind in errorMap
//

const (
	ESYNTAX           = "Syntax error"
	EUNKNOWNSTATEMENT = "Unknown statement"
	EGOSUBOVERFLOW    = "GOSUB stack overflow"
	EFOROVERFLOW      = "FOR stack overflow"
	EWHILEOVERFLOW    = "WHILE stack overflow"
	EIFOVERFLOW       = "IF stack overflow"
	ERETURNNOGOSUB    = "RETURN without GOSUB"
	ENEXTNOFOR        = "NEXT without FOR"
	ENEXTMISMATCH     = "NEXT variable does not match FOR"
	EENDWHILENOWHILE  = "ENDWHILE without WHILE"
	EWHILENOENDWHILE  = "WHILE without ENDWHILE"
	EELSENOIF         = "ELSE without IF"
	EENDIFNOIF        = "ENDIF without IF"
	EIFNOENDIF        = "IF without ENDIF"
	ELABELNOTFOUND    = "Label not found"
	EDIVISIONBYZERO   = "Division by 0"
	ESTRINGSPACE      = "Out of string space"
)

type ErrorKind int

const (
	SyntaxError ErrorKind = iota + 1
	StackDepthExceeded
	UnmatchedControlFlow
	LabelNotFound
	ArithmeticError
	HeapExhausted
	UnallocatedArray
)

var (
	ErrSyntax           = errors.New("syntax error")
	ErrStackDepth       = errors.New("stack depth exceeded")
	ErrUnmatchedControl = errors.New("unmatched control flow")
	ErrLabelNotFound    = errors.New("label not found")
	ErrArithmetic       = errors.New("arithmetic error")
	ErrHeapExhausted    = errors.New("heap exhausted")
	ErrUnallocatedArray = errors.New("unallocated array")
)

var errorMap = map[string]ErrorKind{
	ESYNTAX:           SyntaxError,
	EUNKNOWNSTATEMENT: SyntaxError,
	EGOSUBOVERFLOW:    StackDepthExceeded,
	EFOROVERFLOW:      StackDepthExceeded,
	EWHILEOVERFLOW:    StackDepthExceeded,
	EIFOVERFLOW:       StackDepthExceeded,
	ERETURNNOGOSUB:    UnmatchedControlFlow,
	ENEXTNOFOR:        UnmatchedControlFlow,
	ENEXTMISMATCH:     UnmatchedControlFlow,
	EENDWHILENOWHILE:  UnmatchedControlFlow,
	EWHILENOENDWHILE:  UnmatchedControlFlow,
	EELSENOIF:         UnmatchedControlFlow,
	EENDIFNOIF:        UnmatchedControlFlow,
	EIFNOENDIF:        UnmatchedControlFlow,
	ELABELNOTFOUND:    LabelNotFound,
	EDIVISIONBYZERO:   ArithmeticError,
	ESTRINGSPACE:      HeapExhausted,
}

var kindErrors = map[ErrorKind]error{
	SyntaxError:          ErrSyntax,
	StackDepthExceeded:   ErrStackDepth,
	UnmatchedControlFlow: ErrUnmatchedControl,
	LabelNotFound:        ErrLabelNotFound,
	ArithmeticError:      ErrArithmetic,
	HeapExhausted:        ErrHeapExhausted,
	UnallocatedArray:     ErrUnallocatedArray,
}

func (k ErrorKind) String() string {

	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}

	return fmt.Sprintf("error kind %d", int(k))
}

//
// Messages not in the map are treated as syntax errors
//

func getErrorKind(msg string) ErrorKind {

	if kind, ok := errorMap[msg]; ok {
		return kind
	}

	return SyntaxError
}

//
// A hard failure.  Offset is the token stream position of the
// statement being executed when it happened
//

type RuntimeError struct {
	Kind   ErrorKind
	Msg    string
	Detail string
	Offset int
}

func (e *RuntimeError) Error() string {

	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (offset %d)", e.Msg, e.Detail, e.Offset)
	}

	return fmt.Sprintf("%s (offset %d)", e.Msg, e.Offset)
}

func (e *RuntimeError) Unwrap() error {

	return kindErrors[e.Kind]
}
