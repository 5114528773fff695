package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

var errEmptyBody = errors.New("handlers: empty request body")

// DecodeJSON декодирует тело запроса в указанную структуру.
// Неизвестные поля считаются ошибкой клиента.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}
