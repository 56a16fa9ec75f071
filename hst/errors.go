package hst

import (
	"fmt"
	"log"
)

//ConfigError reports an invalid forest or tree configuration. It is returned
//at construction time only; no partially built structure accompanies it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "hst: invalid configuration: " + e.Reason
}

//DimensionError reports a feature vector whose length does not match the
//bounds the forest was built over. The failed call mutates nothing.
type DimensionError struct {
	Want, Got int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("hst: dimension mismatch: bounds have %d dimensions, vector has %d", e.Want, e.Got)
}

//AlphaError reports a decay factor outside the half-open interval (0, 1].
//The failed call mutates nothing.
type AlphaError struct {
	Alpha float64
}

func (e *AlphaError) Error() string {
	return fmt.Sprintf("hst: decay factor %g is outside (0, 1]", e.Alpha)
}

//checkAlpha validates a decay factor before any tree is touched.
func checkAlpha(alpha float64) error {
	if alpha <= 0 || alpha > 1 {
		return &AlphaError{Alpha: alpha}
	}
	return nil
}

//HandleError interrupts execution when err is not nil.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}
