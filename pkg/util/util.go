package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match on the error code as well as on the wrapped cause.
func (e *Error) Is(target error) bool {
	return e.code != nil && errors.Is(e.code, target)
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

var (
	// ErrConfig: invalid generation parameters. generation aborts, nothing is written.
	ErrConfig = errors.New("invalid configuration")
	// ErrFormat: a malformed source row. the row is dropped.
	ErrFormat = errors.New("malformed input row")
	// ErrMissingInput: an input file does not exist.
	ErrMissingInput = errors.New("input file not found")
	// ErrPartialData marks skipped geometry. it is logged, never returned as a failure.
	ErrPartialData = errors.New("partial data")

	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrBadParamInput       = errors.New("given Param is not valid")
)

// ReadLine reads one line from br without the trailing line terminator.
// a final line without '\n' is returned with a nil error.
func ReadLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func Fields(s string) []string {
	return strings.Fields(s)
}

func StringToFloat64(str string) (float64, error) {
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return val, nil
}

// FormatFloat writes the shortest representation that parses back to the same value.
func FormatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

// ParseIntLoose parses an integer id that may have been exported from a float typed column ("17.0").
func ParseIntLoose(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("value %s is not an integer", s)
	}
	return int(f), nil
}

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func RadiansToDegree(rad float64) float64 {
	return 180.0 * rad / math.Pi
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func Sum[T constraints.Integer | constraints.Float](arr []T) T {
	var total T
	for _, v := range arr {
		total += v
	}
	return total
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
