package providers

import (
	"fmt"
	"pes/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	res := validate.Struct(v.conf)
	if !res.Validate() {
		return fmt.Errorf("invalid configuration: %s", res.Errors.One())
	}
	return nil
}
