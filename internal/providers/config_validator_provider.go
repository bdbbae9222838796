package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"

	"calmd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	if cv.conf.Storage.Driver == "sqlite" && cv.conf.Storage.DSN == "" {
		return fmt.Errorf("invalid config: storage.dsn is required for the sqlite driver")
	}
	if tz := cv.conf.Engagement.Timezone; tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid config: engagement.timezone: %w", err)
		}
	}
	return nil
}
