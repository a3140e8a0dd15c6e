package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

type Config struct {
	DemandCount       int `validate:"gt=0"`
	ExtraDemandCount  int `validate:"gte=0"`
	VehicleDepotCount int `validate:"gte=0"`
	DroneDepotCount   int `validate:"gte=0"`

	Params instance.Params

	Seed uint64
}

func NewConfig(demandCount, extraDemandCount, vehicleDepotCount, droneDepotCount int,
	params instance.Params, seed uint64) Config {
	return Config{
		DemandCount:       demandCount,
		ExtraDemandCount:  extraDemandCount,
		VehicleDepotCount: vehicleDepotCount,
		DroneDepotCount:   droneDepotCount,
		Params:            params,
		Seed:              seed,
	}
}

// Validate reports every violated constraint as one ErrConfig.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		msgs := translateError(err, trans)
		return util.WrapErrorf(err, util.ErrConfig, "validation error: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func translateError(err error, trans ut.Translator) []string {
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		msgs = append(msgs, fmt.Sprint(e.Translate(trans)))
	}
	return msgs
}
