package middleware

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
)

// Abort отвечает JSON ошибкой и не передает запрос дальше по цепочке
func Abort(ctx huma.Context, status int, body any) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(status)
	return json.NewEncoder(ctx.BodyWriter()).Encode(body)
}
