package listener

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultPort is used when PORT is unset or empty.
const DefaultPort = 8000

// PortFromEnv resolves the listen port from the PORT environment variable.
func PortFromEnv() (int, error) {
	v := viper.New()
	v.SetDefault("port", DefaultPort)

	if err := v.BindEnv("port", "PORT"); err != nil {
		return 0, errors.Wrap(err, "bind PORT")
	}

	s := v.GetString("port")

	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "PORT %q is not a number", s)
	}

	if port < 0 || port > 65535 {
		return 0, errors.Errorf("PORT %d out of range", port)
	}

	return port, nil
}
