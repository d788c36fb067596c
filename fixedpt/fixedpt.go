package fixedpt

import (
	"math"
	"strconv"
	"strings"
)

//
// Signed 24.8 fixed point.  A value is an int32 whose low 8 bits are
// the fraction, so 1.0 is 256.  Arithmetic is done on the raw int32;
// the helpers here only cover what needs a wider intermediate or a
// trip through float64
//

const (
	Bits     = 8
	WBits    = 32 - Bits
	One      = int32(1) << Bits
	OneHalf  = One >> 1
	FracMask = One - 1

	// Decimal digits printed after the point (Bits/3)
	Decimals = Bits / 3
)

func FromInt(i int32) int32 {

	return i << Bits
}

func ToInt(a int32) int32 {

	return a >> Bits
}

func FracPart(a int32) int32 {

	return a & FracMask
}

func Mul(a, b int32) int32 {

	return int32((int64(a) * int64(b)) >> Bits)
}

//
// Div panics on a zero divisor, like integer division.  Callers that
// need to survive that check b first
//

func Div(a, b int32) int32 {

	return int32((int64(a) << Bits) / int64(b))
}

func Abs(a int32) int32 {

	if a < 0 {
		return -a
	}

	return a
}

func ToFloat(a int32) float64 {

	return float64(a) / float64(One)
}

//
// Round to the nearest representable value, saturating at the int32
// limits.  NaN maps to 0
//

func FromFloat(f float64) int32 {

	if math.IsNaN(f) {
		return 0
	}

	v := math.Round(f * float64(One))
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}

	return int32(v)
}

//
// Square root of a negative value is -1 (raw), as in fixedptc
//

func Sqrt(a int32) int32 {

	if a < 0 {
		return -1
	}

	return FromFloat(math.Sqrt(ToFloat(a)))
}

func Sin(a int32) int32 {

	return FromFloat(math.Sin(ToFloat(a)))
}

func Cos(a int32) int32 {

	return FromFloat(math.Cos(ToFloat(a)))
}

func Tan(a int32) int32 {

	return FromFloat(math.Tan(ToFloat(a)))
}

func Exp(a int32) int32 {

	return FromFloat(math.Exp(ToFloat(a)))
}

//
// ln(x) for x <= 0 is 0
//

func Ln(a int32) int32 {

	if a <= 0 {
		return 0
	}

	return FromFloat(math.Log(ToFloat(a)))
}

func Pow(a, b int32) int32 {

	return FromFloat(math.Pow(ToFloat(a), ToFloat(b)))
}

//
// Format prints the integer part and up to Decimals fractional
// digits, generated one at a time from the fraction bits.  Trailing
// zeros are dropped, and a whole number prints without a point
//

func Format(a int32) string {

	var sb strings.Builder

	v := int64(a)
	if v < 0 {
		sb.WriteByte('-')
		v = -v
	}

	sb.WriteString(strconv.FormatInt(v>>Bits, 10))

	fr := v & int64(FracMask)
	if fr == 0 {
		return sb.String()
	}

	var digits []byte

	for fr != 0 && len(digits) < Decimals {
		fr *= 10
		digits = append(digits, byte('0'+fr>>Bits))
		fr &= int64(FracMask)
	}

	for len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}

	if len(digits) > 0 {
		sb.WriteByte('.')
		sb.Write(digits)
	}

	return sb.String()
}

//
// Parse converts the leading numeric literal of s: optional blanks,
// optional sign, digits, optional point and fraction digits.  Anything
// after the literal is ignored, and no literal at all gives 0.  The
// fraction is rounded to the nearest 1/256
//

func Parse(s string) int32 {

	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}

	var ip int64

	for ; i < len(s) && isDigit(s[i]); i++ {
		if ip < 1<<WBits {
			ip = ip*10 + int64(s[i]-'0')
		}
	}

	var frac, scale int64 = 0, 1

	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && isDigit(s[i]); i++ {
			if scale < 1e9 {
				frac = frac*10 + int64(s[i]-'0')
				scale *= 10
			}
		}
	}

	v := ip<<Bits + (frac*int64(One)+scale/2)/scale
	if neg {
		v = -v
	}

	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}

	return int32(v)
}

func isDigit(c byte) bool {

	return c >= '0' && c <= '9'
}
