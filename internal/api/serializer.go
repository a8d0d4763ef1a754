package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// Serializer — sonic вместо encoding/json на горячем пути ответов.
type Serializer struct{}

func (Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	var (
		b   []byte
		err error
	)
	if indent != "" {
		b, err = sonic.ConfigDefault.MarshalIndent(i, "", indent)
	} else {
		b, err = sonic.ConfigDefault.Marshal(i)
	}
	if err != nil {
		return err
	}

	_, err = c.Response().Write(b)
	return err
}

func (Serializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
