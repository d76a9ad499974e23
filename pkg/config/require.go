package config

import (
	"errors"
	"fmt"
)

// Required pairs an env name with its loaded value.
type Required struct {
	Env   string
	Value []byte
}

func RequiredString(env, value string) Required {
	return Required{Env: env, Value: []byte(value)}
}

// CheckRequired reports every empty required variable at once.
func CheckRequired(reqs ...Required) error {
	var errs []error
	for _, r := range reqs {
		if len(r.Value) == 0 {
			errs = append(errs, fmt.Errorf("missing required env %s", r.Env))
		}
	}
	return errors.Join(errs...)
}
